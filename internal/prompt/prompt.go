// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt builds the source-lookup instruction sent to the
// generation API. See docs/ARCHITECTURE § Prompt.
package prompt

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/source-scout/pkg/types"
)

// lookupTmpl is the instruction template. It asks the model for a fixed
// number of recent reputable sources with structured per-item fields,
// formatted as markdown. The search-grounding tool attached by the
// generation adapter supplies the live web results the model draws from.
var lookupTmpl = template.Must(template.New("lookup").Parse(`Find {{.SourceCount}} recent, reputable sources on the topic: "{{.Topic}}".

Only include sources published within the last {{.RecencyYears}} years. For each source, provide:
- Title
- Authors (if available)
- Year of publication
- A one-sentence summary of its relevance to the topic

Format the whole answer as markdown, with each source as a numbered list item and the title in bold.`))

// Builder renders lookup prompts. The zero value is not usable; construct
// with NewBuilder so the count and window defaults apply.
type Builder struct {
	SourceCount  int
	RecencyYears int
}

// NewBuilder returns a Builder for the given prompt settings. Zero or
// negative fields fall back to the defaults (5 sources, 5 years).
func NewBuilder(cfg types.PromptConfig) Builder {
	b := Builder{SourceCount: cfg.SourceCount, RecencyYears: cfg.RecencyYears}
	if b.SourceCount <= 0 {
		b.SourceCount = 5
	}
	if b.RecencyYears <= 0 {
		b.RecencyYears = 5
	}
	return b
}

// Build renders the instruction for topic. Pure and deterministic: the
// same topic always yields the same string. The caller is responsible for
// rejecting empty topics before calling Build.
func (b Builder) Build(topic string) string {
	var buf bytes.Buffer
	data := struct {
		Topic        string
		SourceCount  int
		RecencyYears int
	}{topic, b.SourceCount, b.RecencyYears}

	// The template only references fields that exist, so Execute cannot
	// fail on well-formed input.
	if err := lookupTmpl.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}
