package skills

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jakechorley/placement-allocator/pkg/core/catalog"
)

var (
	// catalogPatterns holds the compiled patterns of the default catalog's skills.
	// It is built once and never grows; other terms are compiled per call.
	catalogPatterns     map[string]*regexp.Regexp
	catalogPatternsOnce sync.Once
)

func compileWord(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
}

func compileAll(terms []string) map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(terms))
	for _, t := range terms {
		patterns[t] = compileWord(t)
	}
	return patterns
}

func wordPattern(term string) *regexp.Regexp {
	catalogPatternsOnce.Do(func() {
		catalogPatterns = compileAll(catalog.Default().Universe())
	})
	if p, ok := catalogPatterns[term]; ok {
		return p
	}
	return compileWord(term)
}

// ContainsWord reports whether term occurs in text as a whole word, ignoring case.
// "java" does not match inside "javascript" and "r" does not match inside "react".
func ContainsWord(text, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	return wordPattern(term).MatchString(strings.ToLower(text))
}

// Extractor recognises catalog skills in free text
type Extractor struct {
	universe []string
	patterns map[string]*regexp.Regexp
}

// NewExtractor creates an Extractor over every skill in the catalog
func NewExtractor(c *catalog.Catalog) *Extractor {
	universe := c.Universe()
	return &Extractor{universe: universe, patterns: compileAll(universe)}
}

var (
	defaultExtractor *Extractor
	defaultOnce      sync.Once
)

// Extract scans text with the default catalog. See Extractor.Extract.
func Extract(text string) []string {
	defaultOnce.Do(func() {
		defaultExtractor = NewExtractor(catalog.Default())
	})
	return defaultExtractor.Extract(text)
}

// Extract returns the sorted, title-cased set of known skills found in text
func (e *Extractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	lower := strings.ToLower(text)
	// Caser is stateful and must not be shared across goroutines
	titler := cases.Title(language.English)

	found := make([]string, 0)
	seen := make(map[string]bool)
	for _, skill := range e.universe {
		if !e.patterns[skill].MatchString(lower) {
			continue
		}
		name := titler.String(skill)
		if !seen[name] {
			seen[name] = true
			found = append(found, name)
		}
	}

	slices.Sort(found)
	return found
}

// SplitList splits a comma-separated skills field into trimmed, lower-cased,
// non-empty tokens preserving order (duplicates kept)
func SplitList(field string) []string {
	tokens := make([]string, 0)
	for _, part := range strings.Split(field, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// OverlapPercentage returns the percentage of distinct required tokens that
// appear exactly (case-insensitive) among the candidate's tokens, rounded to
// two decimals. Either field being empty yields 0.
func OverlapPercentage(candidateSkills, requiredSkills string) float64 {
	if strings.TrimSpace(candidateSkills) == "" || strings.TrimSpace(requiredSkills) == "" {
		return 0
	}

	have := make(map[string]bool)
	for _, s := range SplitList(candidateSkills) {
		have[s] = true
	}

	required := make(map[string]bool)
	for _, s := range SplitList(requiredSkills) {
		required[s] = true
	}
	if len(required) == 0 {
		return 0
	}

	matched := 0
	for s := range required {
		if have[s] {
			matched++
		}
	}

	return math.RoundToEven(float64(matched)/float64(len(required))*100*100) / 100
}
