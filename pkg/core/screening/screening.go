package screening

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Check identifies which rule rejected a resume
type Check string

const (
	CheckNone               Check = ""
	CheckTooShort           Check = "too_short"
	CheckRepeatedCharacters Check = "repeated_characters"
	CheckPlaceholderContent Check = "placeholder_content"
	CheckMissingSections    Check = "missing_sections"
	CheckLowSubstance       Check = "low_substance"
	CheckGibberish          Check = "gibberish"
	CheckFewMeaningfulWords Check = "few_meaningful_words"
	CheckRepetition         Check = "repetition"
)

// Thresholds tuned empirically against real submissions. Changing any of
// these changes which resumes are accepted.
const (
	MinTextLength = 100

	// MaxCharacterRun is the longest permitted run of one repeated character
	MaxCharacterRun = 6

	MinSectionsFound          = 2
	MinProfessionalIndicators = 5

	// Gibberish detection only runs on documents with more than this many words
	GibberishMinDocumentWords = 20
	// Only words longer than this are tested for gibberish
	GibberishMinWordLength = 8
	MinVowelRatio          = 0.15
	MinVowelsPerConsonant  = 0.2
	MaxGibberishRatio      = 0.2

	MinMeaningfulWords     = 30
	MeaningfulWordMinChars = 3

	// Uniqueness is only tested on documents with more than this many words
	RepetitionMinDocumentWords = 50
	MinUniquenessRatio         = 0.3
)

// PlaceholderPhrases mark test or template content
var PlaceholderPhrases = []string{
	"lorem ipsum",
	"test test test",
	"sample resume",
	"this is a test",
	"fake resume",
	"dummy text",
	"placeholder",
	"example text",
	"template resume",
	"your name here",
	"asdf",
	"qwerty",
	"xxxxxx",
	"sample content",
	"copy paste",
	"random text",
}

// Section is a canonical resume section and the keywords that reveal it
type Section struct {
	Name     string
	Keywords []string
}

// RequiredSections are detected by keyword presence anywhere in the text
var RequiredSections = []Section{
	{Name: "education", Keywords: []string{"education", "academic", "degree", "university", "college", "school"}},
	{Name: "experience", Keywords: []string{"experience", "employment", "work", "internship", "job"}},
	{Name: "skills", Keywords: []string{"skill", "technical", "programming", "technology", "tools"}},
}

// ProfessionalIndicators is the educational, professional and technical vocabulary
var ProfessionalIndicators = []string{
	// educational
	"university", "college", "degree", "bachelor", "master", "graduation", "gpa", "cgpa",
	"diploma", "certificate", "course", "semester", "academic", "institute", "school",

	// professional
	"project", "internship", "worked", "developed", "created", "implemented", "designed",
	"built", "managed", "led", "collaborated", "achieved", "improved", "optimized",
	"analyzed", "researched", "trained", "mentored", "coordinated", "delivered",

	// technical
	"programming", "software", "development", "engineering", "technology", "system",
	"application", "database", "algorithm", "code", "framework", "tool", "platform",
}

// Verdict is the outcome of validating a resume
type Verdict struct {
	Rejected bool
	Check    Check
	Reason   string
}

const passedReason = "Resume passed validation"

// Validate classifies raw resume text as admissible or rejected.
// Rules are evaluated in priority order and the first failing rule wins.
func Validate(text string) Verdict {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < MinTextLength {
		return reject(CheckTooShort, "Resume is empty or too short (minimum 100 characters required)")
	}

	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	if longestRun(lower) > MaxCharacterRun {
		return reject(CheckRepeatedCharacters, "Resume contains excessive repeated characters (detected as spam)")
	}

	for _, phrase := range PlaceholderPhrases {
		if strings.Contains(lower, phrase) {
			return reject(CheckPlaceholderContent, fmt.Sprintf("Resume contains placeholder/test content: '%s'", phrase))
		}
	}

	if SectionsFound(lower) < MinSectionsFound {
		return reject(CheckMissingSections, "Resume missing critical sections (must have at least Education, Experience, OR Skills)")
	}

	if countContained(lower, ProfessionalIndicators) < MinProfessionalIndicators {
		return reject(CheckLowSubstance, "Resume lacks sufficient professional/academic content (needs more education, work, or technical details)")
	}

	if len(words) > GibberishMinDocumentWords && gibberishRatio(words) > MaxGibberishRatio {
		return reject(CheckGibberish, "Resume contains excessive gibberish/random text (unreadable words detected)")
	}

	if countMeaningful(words) < MinMeaningfulWords {
		return reject(CheckFewMeaningfulWords, "Resume has insufficient meaningful content (needs more substance)")
	}

	if len(words) > RepetitionMinDocumentWords && uniquenessRatio(words) < MinUniquenessRatio {
		return reject(CheckRepetition, "Resume has too much repetition (needs more variety in content)")
	}

	return Verdict{Rejected: false, Check: CheckNone, Reason: passedReason}
}

func reject(check Check, reason string) Verdict {
	return Verdict{Rejected: true, Check: check, Reason: reason}
}

// SectionsFound counts the required sections with at least one keyword present,
// ignoring case
func SectionsFound(text string) int {
	text = strings.ToLower(text)
	found := 0
	for _, section := range RequiredSections {
		if countContained(text, section.Keywords) > 0 {
			found++
		}
	}
	return found
}

// longestRun returns the longest run of one repeated character. Line breaks
// never count towards a run.
func longestRun(text string) int {
	longest := 0
	run := 0
	var prev rune = -1
	for _, r := range text {
		if r == '\n' {
			run = 0
			prev = -1
			continue
		}
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		longest = max(longest, run)
	}
	return longest
}

func countContained(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			count++
		}
	}
	return count
}

// gibberishRatio is the share of long words that look like random letters
func gibberishRatio(words []string) float64 {
	longWords := 0
	gibberish := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) <= GibberishMinWordLength {
			continue
		}
		longWords++
		if IsGibberish(w) {
			gibberish++
		}
	}
	if longWords == 0 {
		return 0
	}
	return float64(gibberish) / float64(longWords)
}

// IsGibberish reports whether a lower-cased word has too few vowels to be real
func IsGibberish(word string) bool {
	length := utf8.RuneCountInString(word)
	if length == 0 {
		return false
	}

	vowels := 0
	consonants := 0
	for _, r := range word {
		switch {
		case isVowel(r):
			vowels++
		case unicode.IsLetter(r):
			consonants++
		}
	}

	vowelRatio := float64(vowels) / float64(length)
	if vowelRatio < MinVowelRatio {
		return true
	}
	return consonants > 0 && float64(vowels)/float64(consonants) < MinVowelsPerConsonant
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// countMeaningful counts purely alphabetic words longer than three characters
func countMeaningful(words []string) int {
	count := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) > MeaningfulWordMinChars && isAlpha(w) {
			count++
		}
	}
	return count
}

func isAlpha(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return word != ""
}

func uniquenessRatio(words []string) float64 {
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}
