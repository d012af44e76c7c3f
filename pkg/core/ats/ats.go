// Package ats scores resume text against a job the way automated resume
// screening systems do: structure, domain keywords, required skills and
// signs of impact.
package ats

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jakechorley/placement-allocator/pkg/core/catalog"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/core/skills"
)

// Sub-score caps
const (
	MaxResumeQuality     = 25
	MaxKeywordMatch      = 30
	MaxSkillMatch        = 25
	MaxExperienceSignals = 20
	MaxScore             = 100
)

// Category groups trace lines by the sub-score they contribute to
type Category string

const (
	CategoryInput      Category = "input"
	CategoryQuality    Category = "quality"
	CategoryKeyword    Category = "keyword"
	CategorySkill      Category = "skill"
	CategoryExperience Category = "experience"
)

var (
	// resumeSections are checked by plain substring presence
	resumeSections = []string{"education", "experience", "skills", "projects", "certifications"}

	formattingMarkers = []string{"•", "-", ":", "bachelor", "master", "degree", "gpa", "cgpa"}

	actionVerbs = []string{
		"achieved", "improved", "developed", "created", "designed", "implemented",
		"built", "led", "managed", "optimized", "increased", "decreased",
	}

	// metricPattern matches quantified results such as 40%, 3x or 50+
	metricPattern = regexp.MustCompile(`\d+%|\d+x|\d+\+`)
)

// Job is what a resume is scored against
type Job struct {
	Domain string

	// RequiredSkills is comma-separated free text; empty means none required
	RequiredSkills string
}

// TraceLine explains one contribution to the score
type TraceLine struct {
	Category Category
	Message  string
	Points   int
}

func (l TraceLine) String() string {
	return fmt.Sprintf("%s (+%d)", l.Message, l.Points)
}

// Breakdown carries the four sub-scores and the ordered trace that produced them
type Breakdown struct {
	ResumeQuality     int
	KeywordMatch      int
	SkillMatch        int
	ExperienceSignals int

	Trace []TraceLine

	// Issues records missing input or a domain that fell back to the general catalog
	Issues []model.Issue
}

// Lines renders the trace for display
func (b Breakdown) Lines() []string {
	lines := make([]string, len(b.Trace))
	for i, l := range b.Trace {
		lines[i] = l.String()
	}
	return lines
}

func (b *Breakdown) trace(category Category, points int, format string, args ...any) {
	b.Trace = append(b.Trace, TraceLine{Category: category, Message: fmt.Sprintf(format, args...), Points: points})
}

// Scorer scores resumes against jobs using a domain catalog
type Scorer struct {
	catalog *catalog.Catalog
}

// NewScorer creates a Scorer over the given catalog
func NewScorer(c *catalog.Catalog) *Scorer {
	return &Scorer{catalog: c}
}

// Score scores text against job using the default catalog
func Score(text string, job Job) (int, Breakdown) {
	return NewScorer(catalog.Default()).Score(text, job)
}

// AnalyzeResumeQuality scores text against its own domain, using the domain's
// catalog skills as the required skills
func AnalyzeResumeQuality(text, domain string) (int, Breakdown) {
	return NewScorer(catalog.Default()).AnalyzeResumeQuality(text, domain)
}

// AnalyzeResumeQuality scores text against its own domain, using the domain's
// catalog skills as the required skills
func (s *Scorer) AnalyzeResumeQuality(text, domain string) (int, Breakdown) {
	return s.Score(text, Job{Domain: domain, RequiredSkills: s.catalog.DomainSkills(domain)})
}

// Score returns a 0-100 score for text against job and the breakdown behind it.
// The result depends only on its inputs.
func (s *Scorer) Score(text string, job Job) (int, Breakdown) {
	b := Breakdown{Trace: []TraceLine{}, Issues: []model.Issue{}}

	if strings.TrimSpace(text) == "" {
		b.Issues = append(b.Issues, model.Issue{Kind: model.IssueMissingInput, Reason: "No resume text provided"})
		b.trace(CategoryInput, 0, "No resume text provided")
		return 0, b
	}

	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	b.ResumeQuality = scoreQuality(&b, lower, len(words))
	b.KeywordMatch = s.scoreKeywords(&b, lower, job.Domain)
	b.SkillMatch = scoreRequiredSkills(&b, lower, job.RequiredSkills)
	b.ExperienceSignals = scoreExperience(&b, lower)

	total := b.ResumeQuality + b.KeywordMatch + b.SkillMatch + b.ExperienceSignals
	return min(total, MaxScore), b
}

func scoreQuality(b *Breakdown, lower string, wordCount int) int {
	points := 0

	switch {
	case wordCount >= 200 && wordCount <= 600:
		points += 10
		b.trace(CategoryQuality, 10, "Good length: %d words", wordCount)
	case (wordCount >= 100 && wordCount < 200) || (wordCount > 600 && wordCount <= 800):
		points += 5
		b.trace(CategoryQuality, 5, "Acceptable length: %d words", wordCount)
	default:
		b.trace(CategoryQuality, 0, "Length issue: %d words", wordCount)
	}

	sections := 0
	for _, section := range resumeSections {
		if strings.Contains(lower, section) {
			sections++
		}
	}
	switch {
	case sections >= 4:
		points += 10
		b.trace(CategoryQuality, 10, "Excellent structure: %d/%d sections", sections, len(resumeSections))
	case sections >= 2:
		points += 5
		b.trace(CategoryQuality, 5, "Basic structure: %d/%d sections", sections, len(resumeSections))
	default:
		b.trace(CategoryQuality, 0, "Poor structure: %d/%d sections", sections, len(resumeSections))
	}

	formatting := 0
	for _, marker := range formattingMarkers {
		if strings.Contains(lower, marker) {
			formatting += 2
		}
	}
	formatting = min(formatting, 5)
	if formatting > 0 {
		points += formatting
		b.trace(CategoryQuality, formatting, "Professional formatting")
	}

	return min(points, MaxResumeQuality)
}

func (s *Scorer) scoreKeywords(b *Breakdown, lower, domain string) int {
	entry, known := s.catalog.Lookup(domain)
	if !known {
		b.Issues = append(b.Issues, model.Issue{
			Kind:   model.IssueConfigurationGap,
			Reason: fmt.Sprintf("domain %q is not in the catalog, scored against %s", domain, entry.Name),
		})
	}

	found := 0
	for _, keyword := range entry.Skills {
		if skills.ContainsWord(lower, keyword) {
			found++
		}
	}

	var percent float64
	if len(entry.Skills) > 0 {
		percent = float64(found) / float64(len(entry.Skills)) * 100
	}
	points := min(int(percent*0.3), MaxKeywordMatch)

	b.trace(CategoryKeyword, points, "Domain keywords: %d/%d found (%.0f%%)", found, len(entry.Skills), percent)
	return points
}

// scoreRequiredSkills ignores blank entries such as the gap in "Python,,SQL":
// they neither match nor count towards the denominator.
func scoreRequiredSkills(b *Breakdown, lower, requiredField string) int {
	required := skills.SplitList(requiredField)
	if len(required) == 0 {
		b.trace(CategorySkill, 0, "No specific skills required")
		return 0
	}

	matched := 0
	for _, skill := range required {
		if skills.ContainsWord(lower, skill) {
			matched++
		}
	}

	percent := float64(matched) / float64(len(required)) * 100
	points := min(int(percent*0.25), MaxSkillMatch)

	b.trace(CategorySkill, points, "Required skills: %d/%d matched (%.0f%%)", matched, len(required), percent)
	return points
}

func scoreExperience(b *Breakdown, lower string) int {
	verbs := 0
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			verbs++
		}
	}
	verbPoints := min(verbs*2, 10)
	if verbs > 0 {
		b.trace(CategoryExperience, verbPoints, "Action verbs: %d found", verbs)
	}

	metrics := len(metricPattern.FindAllString(lower, -1))
	metricPoints := min(metrics*2, 10)
	if metricPoints > 0 {
		b.trace(CategoryExperience, metricPoints, "Quantifiable results: %d metrics", metrics)
	}

	return min(verbPoints+metricPoints, MaxExperienceSignals)
}
