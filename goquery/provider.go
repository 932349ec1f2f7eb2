// Package goquery implements an offline course extraction provider using
// CSS selector heuristics. It needs no API key and no network beyond the
// page fetch itself, which makes it useful for smoke tests and for sites
// with well-structured markup, at the cost of much lower recall than the
// firecrawl and gemini providers.
package goquery

import (
	"context"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/boldstep/coursefetch"
)

// Ensure Provider implements coursefetch.Provider at compile time.
var _ coursefetch.Provider = (*Provider)(nil)

// Provider implements coursefetch.Provider using CSS selector heuristics.
type Provider struct {
	fetcher coursefetch.Fetcher
}

// NewProvider creates a new Provider.
func NewProvider(fetcher coursefetch.Fetcher) *Provider {
	return &Provider{fetcher: fetcher}
}

// Name identifies the provider in logs and outcome records.
func (p *Provider) Name() string { return "page" }

// Extract fetches the page at req.URL and fills schema fields from its
// markup. Fields without a matching element are left empty.
func (p *Provider) Extract(ctx context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	html, err := p.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	fields, err := ExtractFields(html)
	if err != nil {
		return nil, err
	}
	if fields["course_name"] == "" {
		return nil, coursefetch.Errorf(coursefetch.ENOTFOUND, "no course title found at %q", req.URL)
	}

	// Keep only fields the schema asks for.
	wanted := make(map[string]bool, len(req.Schema.Fields))
	for _, name := range req.Schema.FieldNames() {
		wanted[name] = true
	}
	if len(wanted) > 0 {
		for name := range fields {
			if !wanted[name] {
				delete(fields, name)
			}
		}
	}

	return coursefetch.CourseFromFields(fields, req.URL), nil
}

// fieldKeywords maps schema field names to the label keywords that identify
// them in tables, definition lists and labeled rows.
var fieldKeywords = map[string][]string{
	"fees":         {"fee", "fees", "tuition", "cost", "price"},
	"duration":     {"duration", "length", "course length", "study period"},
	"requirements": {"requirement", "requirements", "entry", "admission", "prerequisite", "eligibility"},
	"intake_date":  {"intake", "start date", "starts", "commencement", "next intake"},
	"level":        {"level", "award", "qualification", "degree type"},
}

// levelKeywords maps lowercased title words to award levels. Matching is
// whole-word only so that "ma" cannot fire inside "Diploma" or "Drama".
var levelKeywords = map[string]string{
	"phd":           "Doctorate",
	"doctorate":     "Doctorate",
	"doctoral":      "Doctorate",
	"master":        "Postgraduate",
	"masters":       "Postgraduate",
	"msc":           "Postgraduate",
	"ma":            "Postgraduate",
	"mba":           "Postgraduate",
	"postgraduate":  "Postgraduate",
	"bachelor":      "Undergraduate",
	"bachelors":     "Undergraduate",
	"bsc":           "Undergraduate",
	"ba":            "Undergraduate",
	"beng":          "Undergraduate",
	"undergraduate": "Undergraduate",
	"foundation":    "Foundation",
	"diploma":       "Diploma",
	"certificate":   "Certificate",
}

// ExtractFields parses HTML and returns the course fields it can identify.
// Missing fields are absent from the map rather than empty.
func ExtractFields(html string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, coursefetch.Errorf(coursefetch.EINVALID, "failed to parse HTML: %v", err)
	}

	fields := make(map[string]string)

	if name := extractTitle(doc); name != "" {
		fields["course_name"] = name
	}
	if desc := extractDescription(doc); desc != "" {
		fields["description"] = desc
	}

	extractLabeledValues(doc, fields)

	if fields["level"] == "" {
		if level := inferLevel(fields["course_name"]); level != "" {
			fields["level"] = level
		}
	}

	for name, value := range fields {
		if value == "" {
			delete(fields, name)
		}
	}
	return fields, nil
}

func extractTitle(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return collapseWhitespace(h1)
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return collapseWhitespace(strings.TrimSpace(og))
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	// Strip a trailing "| Site Name" segment.
	if i := strings.IndexAny(title, "|–"); i > 0 {
		title = strings.TrimSpace(title[:i])
	}
	return collapseWhitespace(title)
}

func extractDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if desc = strings.TrimSpace(desc); desc != "" {
			return desc
		}
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}

// extractLabeledValues scans label/value pairs in definition lists and
// two-column table rows, assigning values to fields by label keyword.
func extractLabeledValues(doc *goquery.Document, fields map[string]string) {
	assign := func(label, value string) {
		label = strings.ToLower(strings.TrimSpace(label))
		value = collapseWhitespace(strings.TrimSpace(value))
		if label == "" || value == "" {
			return
		}
		for field, keywords := range fieldKeywords {
			if fields[field] != "" {
				continue
			}
			for _, kw := range keywords {
				if strings.Contains(label, kw) {
					fields[field] = value
					break
				}
			}
		}
	}

	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms := dl.Find("dt")
		values := dl.Find("dd")
		terms.Each(func(i int, dt *goquery.Selection) {
			if i < values.Length() {
				assign(dt.Text(), values.Eq(i).Text())
			}
		})
	})

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td")
		if cells.Length() == 2 {
			assign(cells.Eq(0).Text(), cells.Eq(1).Text())
		}
	})
}

func inferLevel(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		if level, ok := levelKeywords[word]; ok {
			return level
		}
	}
	return ""
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
