// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for source-scout.
// See docs/ARCHITECTURE § Data Structures.
package types

// Citation links generated text to a web source it drew upon. Built from
// one grounding chunk of the generation API response.
type Citation struct {
	// URI is the web address of the source.
	URI string `json:"uri" yaml:"uri"`

	// Title is the source's display title. When the API returns a chunk
	// without a title, the adapter substitutes FallbackTitle.
	Title string `json:"title" yaml:"title"`
}

// Fallback strings substituted by the generation adapter when the API
// response omits the corresponding field.
const (
	// FallbackText is the answer text used when the API returns no text.
	FallbackText = "No results found."

	// FallbackTitle is the citation title used when a web chunk has a URI
	// but no title.
	FallbackTitle = "Untitled Source"
)

// SearchResult is the outcome of one grounded generation exchange: the
// generated answer plus the sources it was grounded in.
type SearchResult struct {
	// Text is the generated answer, markdown-formatted. Never empty: the
	// adapter substitutes FallbackText when the API returns nothing.
	Text string `json:"text" yaml:"text"`

	// Citations lists the web sources in the order the API reported them.
	// Empty when the response carried no grounding metadata.
	Citations []Citation `json:"citations" yaml:"citations"`
}
