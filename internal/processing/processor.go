// Package processing normalizes headline text for indexing, matching and deduplication.
package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	// Google News and most aggregators append " - Publisher" to titles.
	publisherSuffix = regexp.MustCompile(`\s+[-|–]\s+[^-|–]{2,60}$`)
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "in": {}, "for": {}, "of": {}, "on": {},
	"at": {}, "and": {}, "or": {}, "as": {}, "by": {}, "with": {}, "from": {}, "after": {},
	"amid": {}, "over": {}, "into": {}, "says": {}, "said": {}, "this": {}, "that": {},
	"will": {}, "are": {}, "was": {}, "were": {}, "has": {}, "have": {}, "its": {},
}

// RemoveURLs removes all URLs from the input text.
func RemoveURLs(input string) string {
	return urlRegex.ReplaceAllString(input, " ")
}

// CleanText strips HTML entities, punctuation, squeezes whitespace, and removes URLs.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = RemoveURLs(decoded)
	decoded = punctuation.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// NormalizeTitle is the dedupe key of a headline: publisher suffix dropped, cleaned and lowercased.
func NormalizeTitle(title string) string {
	t := strings.TrimSpace(html.UnescapeString(title))
	t = publisherSuffix.ReplaceAllString(t, "")
	return strings.ToLower(CleanText(t))
}

// DedupeHeadlines keeps the first headline per normalized title, preserving order.
// Headlines with an empty title are dropped.
func DedupeHeadlines(in []models.NewsHeadline) []models.NewsHeadline {
	seen := make(map[string]struct{}, len(in))
	out := make([]models.NewsHeadline, 0, len(in))
	for _, h := range in {
		key := NormalizeTitle(h.Title)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}

// SourceFromLink returns the link's host without a leading "www.".
func SourceFromLink(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// ExtractKeywords returns the most frequent words that are not stop-words.
func ExtractKeywords(text string, limit, minLen int) []string {
	clean := strings.ToLower(CleanText(text))
	if clean == "" {
		return nil
	}

	freq := make(map[string]int)
	for _, token := range strings.Fields(clean) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(token)) < minLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		freq[token]++
	}

	if len(freq) == 0 {
		return nil
	}

	type kv struct {
		word  string
		count int
	}

	pairs := make([]kv, 0, len(freq))
	for word, count := range freq {
		pairs = append(pairs, kv{word: word, count: count})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	n := limit
	if n <= 0 || n > len(pairs) {
		n = len(pairs)
	}

	keywords := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keywords = append(keywords, pairs[i].word)
	}
	return keywords
}

// BuildDocumentID hashes the normalized title, link and publish time into a stable ID.
func BuildDocumentID(title, link string, ts time.Time) string {
	s := sha1.Sum([]byte(NormalizeTitle(title) + "|" + strings.TrimSpace(link) + "|" + ts.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(s[:])
}

// TitleFromSummary builds a title from the first sentence of a summary, capped at maxWords.
func TitleFromSummary(summary string, maxWords int) string {
	text := CleanHTML(summary)
	if text == "" {
		return ""
	}

	if end := strings.IndexAny(text, ".!?"); end > 0 {
		text = text[:end]
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if maxWords > 0 && len(words) > maxWords {
		return strings.Join(words[:maxWords], " ") + "..."
	}
	return strings.Join(words, " ")
}

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// CleanHTML drops tags and URLs from an RSS description while keeping sentence punctuation.
func CleanHTML(input string) string {
	text := tagRegex.ReplaceAllString(input, " ")
	text = html.UnescapeString(text)
	text = RemoveURLs(text)
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
