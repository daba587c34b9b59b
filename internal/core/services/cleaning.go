package services

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// Answer prose is citation-free by construction: citations come from
// grounding records only. The scrubbing below removes any links the model
// leaves in the text anyway.
var (
	redirectLink   = regexp.MustCompile(`\[[^\]]*?\]\(https://vertexaisearch\.cloud\.google\.com/[^)]*?\)`)
	redirectBare   = regexp.MustCompile(`https://vertexaisearch\.cloud\.google\.com/[^\s)\]]*`)
	bareURL        = regexp.MustCompile(`https?://[^\s)\]]+`)
	markdownLink   = regexp.MustCompile(`\[([^\[\]]*)\]\([^()]*\)`)
	horizontalRun  = regexp.MustCompile(`[ \t]+`)
	trailingSpace  = regexp.MustCompile(`[ \t]+\n`)
	paragraphBreak = regexp.MustCompile(`\n{3,}`)
)

// maxFallbackQuery bounds the question embedded in a fallback citation, in runes.
const maxFallbackQuery = 100

// CleanAnswer scrubs links from a raw answer and normalises whitespace.
// Applying it to its own output changes nothing.
func CleanAnswer(raw string) string {
	s := stripLinks(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = horizontalRun.ReplaceAllString(s, " ")
	s = trailingSpace.ReplaceAllString(s, "\n")
	s = paragraphBreak.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// stripLinks repeats the link passes until nothing changes. Links nested in
// labels are peeled one level per pass, innermost first.
func stripLinks(s string) string {
	for {
		next := redirectLink.ReplaceAllString(s, "")
		next = redirectBare.ReplaceAllString(next, "")
		next = bareURL.ReplaceAllString(next, " ")
		next = markdownLink.ReplaceAllString(next, "$1")
		if next == s {
			return s
		}
		s = next
	}
}

// ExtractCitations keeps the grounding records on the permitted domain,
// de-duplicated by normalised URI in encounter order. The first record seen
// for a URI wins and keeps its URI as given, minus surrounding space.
func ExtractCitations(records []domain.GroundingRecord, permittedDomain string) []domain.Citation {
	needle := strings.ToLower(permittedDomain)
	seen := make(map[string]bool, len(records))
	citations := make([]domain.Citation, 0, len(records))

	for _, r := range records {
		uri := normalizeURI(r.URI)
		if uri == "" || !strings.Contains(strings.ToLower(uri), needle) {
			continue
		}
		if seen[uri] {
			continue
		}
		seen[uri] = true

		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = domain.DefaultCitationTitle
		}
		citations = append(citations, domain.Citation{Title: title, URI: strings.TrimSpace(r.URI)})
	}
	return citations
}

// FallbackCitation builds a site-restricted web search link for question.
func FallbackCitation(question, permittedDomain string) domain.Citation {
	q := strings.TrimSpace(strings.Join(strings.Fields(question), " "))
	if runes := []rune(q); len(runes) > maxFallbackQuery {
		q = string(runes[:maxFallbackQuery])
	}
	return domain.Citation{
		Title: domain.FallbackCitationLabel,
		URI:   "https://www.google.com/search?q=" + url.QueryEscape("site:"+permittedDomain+" "+q),
	}
}

func normalizeURI(uri string) string {
	return strings.TrimRight(strings.TrimSpace(uri), "/")
}
