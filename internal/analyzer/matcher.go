package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	"github.com/kthrnbeh/ISweep-backend/internal/profanity"
)

// categoryPatterns holds the raw rules compiled once at construction. A word
// can be matched by more than one pattern, and by patterns of more than one
// category ("assault" counts for both violence and sexual content); every
// match counts toward severity.
var categoryPatterns = map[domain.Category][]string{
	domain.CategoryViolence: {
		`\b(kill|killed|murder|shot|shoot|stab|blood|violence|violent|attack|fight|gun|weapon)\b`,
		`\b(death|die|dying|dead)\b`,
		`\b(assault|beat|beating|punch|hit)\b`,
	},
	domain.CategorySexualContent: {
		`\b(sex|sexual|naked|nude|explicit)\b`,
		`\b(rape|assault|abuse)\b`,
		`\b(intercourse|seduce|seduction)\b`,
	},
}

// Matcher scores text snippets against the content categories. All patterns
// are compiled at construction; a Matcher is immutable afterwards and safe
// for concurrent use.
type Matcher struct {
	rules   map[domain.Category][]*regexp.Regexp
	lexicon profanity.Lexicon
}

// NewMatcher compiles every category pattern and wires the language lexicon.
// Construction fails on the first invalid pattern; nothing is compiled lazily.
func NewMatcher(lexicon profanity.Lexicon) (*Matcher, error) {
	if lexicon == nil {
		return nil, fmt.Errorf("analyzer: lexicon must not be nil")
	}

	rules := make(map[domain.Category][]*regexp.Regexp, len(categoryPatterns))
	for category, patterns := range categoryPatterns {
		compiled := make([]*regexp.Regexp, 0, len(patterns))
		for _, pattern := range patterns {
			re, err := regexp.Compile(`(?i)` + pattern)
			if err != nil {
				return nil, fmt.Errorf("analyzer: compile %s pattern %q: %w", category, pattern, err)
			}
			compiled = append(compiled, re)
		}
		rules[category] = compiled
	}

	return &Matcher{rules: rules, lexicon: lexicon}, nil
}

// Score returns the severity of text for a single category: the total number
// of pattern matches for violence and sexual content, or the number of
// whitespace-delimited tokens the lexicon flags for language. Preferences
// play no role here - enabling and disabling categories is the engine's job.
func (m *Matcher) Score(text string, category domain.Category) int {
	if text == "" {
		return 0
	}
	if category == domain.CategoryLanguage {
		return m.scoreLanguage(text)
	}

	severity := 0
	for _, re := range m.rules[category] {
		severity += len(re.FindAllStringIndex(text, -1))
	}
	return severity
}

func (m *Matcher) scoreLanguage(text string) int {
	severity := 0
	for _, token := range strings.Fields(text) {
		if m.lexicon.IsProfane(token) {
			severity++
		}
	}
	return severity
}
