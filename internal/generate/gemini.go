// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/source-scout/pkg/types"
)

// geminiAPIBase is the Gemini API base URL. Declared as a var so tests
// can substitute an httptest server.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiBackend calls the Gemini generateContent API with the Google
// Search grounding tool enabled.
type GeminiBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Name returns the backend identifier.
func (b *GeminiBackend) Name() string { return "gemini" }

// Gemini generateContent request structures. Only the fields this
// adapter sends are modeled.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Tools    []geminiTool    `json:"tools"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiTool enables a built-in tool. GoogleSearch is an empty object:
// its presence alone turns on web-search grounding.
type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

// Gemini generateContent response structures. Only the fields this
// adapter reads are modeled.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content           geminiContent      `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata"`
}

type groundingMetadata struct {
	GroundingChunks []groundingChunk `json:"groundingChunks"`
}

// groundingChunk is one unit of grounding metadata. Web is nil for
// chunks that reference something other than a web source.
type groundingChunk struct {
	Web *webSource `json:"web"`
}

type webSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Generate issues one generateContent call with search grounding enabled
// and maps the response to a SearchResult. Transport, authentication,
// quota, and decode failures all surface as a single wrapped error; no
// retry is attempted.
func (b *GeminiBackend) Generate(ctx context.Context, promptText string) (types.SearchResult, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: promptText}}},
		},
		Tools: []geminiTool{
			{GoogleSearch: &struct{}{}},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.SearchResult{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, b.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.SearchResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return types.SearchResult{}, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return types.SearchResult{}, fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, apiErrorMessage(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return types.SearchResult{}, fmt.Errorf("decoding Gemini response: %w", err)
	}

	return mapResponse(gResp), nil
}

// mapResponse extracts the answer text and web citations from the first
// candidate. Missing text yields the fallback sentinel; grounding chunks
// without web data are filtered out, not mapped to empty citations.
func mapResponse(resp geminiResponse) types.SearchResult {
	result := types.SearchResult{Text: types.FallbackText}
	if len(resp.Candidates) == 0 {
		return result
	}
	cand := resp.Candidates[0]

	var parts []string
	for _, p := range cand.Content.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	if text := strings.Join(parts, ""); text != "" {
		result.Text = text
	}

	if cand.GroundingMetadata == nil {
		return result
	}
	for _, chunk := range cand.GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = types.FallbackTitle
		}
		result.Citations = append(result.Citations, types.Citation{
			URI:   chunk.Web.URI,
			Title: title,
		})
	}
	return result
}

// apiErrorMessage pulls the human-readable message out of a Gemini error
// payload, falling back to the truncated raw body.
func apiErrorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	return s
}
