package processing

import (
	"regexp"
	"strings"
)

// KeywordSet matches whole words and phrases in lowercase text. A term ending in "*"
// matches any word starting with the stem, so "evacuat*" covers "evacuated".
type KeywordSet struct {
	re *regexp.Regexp
}

// NewKeywordSet compiles terms into one alternation anchored at word boundaries.
func NewKeywordSet(terms ...string) KeywordSet {
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if stem, ok := strings.CutSuffix(term, "*"); ok {
			parts = append(parts, regexp.QuoteMeta(stem)+`[\w'-]*`)
			continue
		}
		parts = append(parts, regexp.QuoteMeta(term))
	}
	if len(parts) == 0 {
		return KeywordSet{}
	}
	return KeywordSet{re: regexp.MustCompile(`\b(?:` + strings.Join(parts, "|") + `)\b`)}
}

// Match reports whether any term occurs in text.
func (k KeywordSet) Match(text string) bool {
	return k.re != nil && k.re.MatchString(text)
}

// incidental holds phrases whose words look like disruption keywords but are not.
var incidental = NewKeywordSet("lightning strike*", "bird strike*", "birdstrike*", "strike up", "struck by lightning")

// MaskIncidental blanks phrases such as "lightning strike" so keyword classes do not
// read them as labor action.
func MaskIncidental(text string) string {
	return incidental.re.ReplaceAllString(text, " ")
}
