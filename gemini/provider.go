// Package gemini implements course extraction using the Google Gemini API.
//
// Unlike the firecrawl provider, which delegates fetching and parsing to a
// hosted service, this provider runs the pipeline locally: it fetches the
// page, strips boilerplate, and asks Gemini to fill the schema fields from
// the remaining text using structured JSON output.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/boldstep/coursefetch"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// maxContentRunes caps the page text included in a prompt. Course pages
// rarely exceed this; sitemap-style index pages occasionally do.
const maxContentRunes = 120_000

// Ensure Provider implements coursefetch.Provider at compile time.
var _ coursefetch.Provider = (*Provider)(nil)

// Provider implements coursefetch.Provider using Google Gemini.
type Provider struct {
	client  *genai.Client
	fetcher coursefetch.Fetcher
	content coursefetch.ContentExtractor
}

// NewProvider creates a new Provider.
func NewProvider(client *genai.Client, fetcher coursefetch.Fetcher, content coursefetch.ContentExtractor) *Provider {
	return &Provider{client: client, fetcher: fetcher, content: content}
}

// Name identifies the provider in logs and outcome records.
func (p *Provider) Name() string { return "gemini" }

// Extract fetches the page at req.URL and extracts course fields from it.
func (p *Provider) Extract(ctx context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	html, err := p.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	page, err := p.content.Extract(html)
	if err != nil {
		return nil, err
	}
	if page.Text == "" {
		return nil, coursefetch.Errorf(coursefetch.ENOTFOUND, "no readable content at %q", req.URL)
	}

	prompt := BuildUserPrompt(page, req.URL, req.Schema)
	config := BuildConfig(req.Schema)

	result, err := p.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, coursefetch.Errorf(coursefetch.EINTERNAL, "gemini returned nil result")
	}

	fields, err := decodeFields(result.Text())
	if err != nil {
		return nil, err
	}

	return coursefetch.CourseFromFields(fields, req.URL), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls,
// including a response schema derived from the extraction schema so the
// model returns parseable JSON.
func BuildConfig(schema coursefetch.Schema) *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a data extraction assistant. Extract the requested fields from the provided page text. Use only information present in the text. Leave a field empty if the page does not state it.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   BuildResponseSchema(schema),
	}
}

// BuildResponseSchema converts an extraction schema into a genai.Schema.
func BuildResponseSchema(schema coursefetch.Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(schema.Fields))
	var required []string
	for _, f := range schema.Fields {
		props[f.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
		}
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

// BuildUserPrompt builds the user prompt containing the page text and the
// extraction instructions.
func BuildUserPrompt(page *coursefetch.PageContent, url string, schema coursefetch.Schema) string {
	text := page.Text
	if runes := []rune(text); len(runes) > maxContentRunes {
		text = string(runes[:maxContentRunes])
	}

	var sb strings.Builder
	sb.WriteString("<page>\n")
	if page.Title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", page.Title)
	}
	fmt.Fprintf(&sb, "<source>%s</source>\n", url)
	fmt.Fprintf(&sb, "<content>%s</content>\n", text)
	sb.WriteString("</page>\n\n")
	fmt.Fprintf(&sb, "Task: %s\n\nFields:\n", schema.Prompt)
	for _, f := range schema.Fields {
		fmt.Fprintf(&sb, "- %s: %s\n", f.Name, f.Description)
	}
	return sb.String()
}

func decodeFields(text string) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, coursefetch.Errorf(coursefetch.EINTERNAL, "invalid JSON from gemini: %v", err)
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			fields[k] = s
			continue
		}
		fields[k] = fmt.Sprint(v)
	}
	return fields, nil
}
