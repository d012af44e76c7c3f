// Package matching scores a candidate against a position.
package matching

import (
	"math"

	"github.com/jakechorley/placement-allocator/pkg/core/ats"
	"github.com/jakechorley/placement-allocator/pkg/core/catalog"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/core/skills"
)

// MaxScore is the ceiling of a candidate-position score
const MaxScore = 100.0

// Weights control how each factor contributes to the pair score
type Weights struct {
	// Resume multiplies the 0-100 content score
	Resume float64

	// GPAMax is awarded for a GPA of 10
	GPAMax float64

	// ExperiencePerYear is awarded per year of experience, capped at ExperienceMax
	ExperiencePerYear float64
	ExperienceMax     float64

	// OverlapMax is awarded when every required skill is among the candidate's extracted skills
	OverlapMax float64
}

// DefaultWeights returns the standard weighting:
// 0.6*content + (gpa/10)*20 + min(years*3.33, 10) + min(overlap/10, 10)
func DefaultWeights() Weights {
	return Weights{
		Resume:            0.6,
		GPAMax:            20,
		ExperiencePerYear: 3.33,
		ExperienceMax:     10,
		OverlapMax:        10,
	}
}

// Evaluation is a pair score together with how it was reached
type Evaluation struct {
	Score float64

	// FailedGate names the gate that disqualified the pair (empty if none)
	FailedGate string

	// Issue explains the disqualification (nil if the pair was scored)
	Issue *model.Issue

	ContentScore     int
	Breakdown        ats.Breakdown
	GPAPoints        float64
	ExperiencePoints float64
	OverlapBonus     float64
}

// Eligible reports whether every gate passed
func (e Evaluation) Eligible() bool {
	return e.Issue == nil
}

// Scorer computes candidate-position scores
type Scorer struct {
	content *ats.Scorer
	gates   []Gate
	weights Weights
}

// NewScorer creates a Scorer with the default gates
func NewScorer(c *catalog.Catalog, weights Weights) *Scorer {
	return &Scorer{
		content: ats.NewScorer(c),
		gates:   DefaultGates(),
		weights: weights,
	}
}

// NewDefaultScorer creates a Scorer with the default catalog and weights
func NewDefaultScorer() *Scorer {
	return NewScorer(catalog.Default(), DefaultWeights())
}

// Score returns the pair score using the default catalog and weights
func Score(candidate model.Candidate, position model.Position, resumeText string) float64 {
	return NewDefaultScorer().Score(candidate, position, resumeText)
}

// Score returns the pair score in [0, 100]
func (s *Scorer) Score(candidate model.Candidate, position model.Position, resumeText string) float64 {
	return s.Evaluate(candidate, position, resumeText).Score
}

// Evaluate runs the gates and, if they all pass, the weighted score
func (s *Scorer) Evaluate(candidate model.Candidate, position model.Position, resumeText string) Evaluation {
	for _, gate := range s.gates {
		if issue := gate.Check(candidate, position, resumeText); issue != nil {
			return Evaluation{FailedGate: gate.Name(), Issue: issue}
		}
	}

	w := s.weights
	content, breakdown := s.content.Score(resumeText, ats.Job{
		Domain:         position.Domain,
		RequiredSkills: position.RequiredSkills,
	})

	gpaPoints := (clampGPA(candidate.GPA) / 10.0) * w.GPAMax
	experiencePoints := math.Min(float64(max(candidate.ExperienceYears, 0))*w.ExperiencePerYear, w.ExperienceMax)

	var overlapBonus float64
	if w.OverlapMax > 0 {
		overlap := skills.OverlapPercentage(candidate.ExtractedSkills, position.RequiredSkills)
		overlapBonus = math.Min(overlap/(100/w.OverlapMax), w.OverlapMax)
	}

	total := float64(content)*w.Resume + gpaPoints + experiencePoints + overlapBonus

	return Evaluation{
		Score:            math.Min(round2(total), MaxScore),
		ContentScore:     content,
		Breakdown:        breakdown,
		GPAPoints:        gpaPoints,
		ExperiencePoints: experiencePoints,
		OverlapBonus:     overlapBonus,
	}
}

func round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

// clampGPA bounds a GPA to the 0-10 scale
func clampGPA(gpa float64) float64 {
	return math.Max(0, math.Min(gpa, 10))
}
