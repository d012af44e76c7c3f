package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/placement-allocator/internal/testfixtures"
	"github.com/jakechorley/placement-allocator/pkg/core/catalog"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
)

func dataScienceCandidate() model.Candidate {
	return model.Candidate{
		ID:              "c1",
		Name:            "Priya Sharma",
		GPA:             8.7,
		Domain:          "Data Science",
		ExperienceYears: 1,
		ExtractedSkills: "Python, Pandas, SQL",
	}
}

func dataSciencePosition() model.Position {
	return model.Position{
		ID:             "p1",
		OrganizationID: "org1",
		Domain:         "data-science",
		RequiredSkills: "Python, SQL, Tableau, Spark",
		MinGPA:         7.0,
		Capacity:       2,
	}
}

func TestScore_FullFormula(t *testing.T) {
	e := NewDefaultScorer().Evaluate(dataScienceCandidate(), dataSciencePosition(), testfixtures.DataScienceResume)

	require.True(t, e.Eligible())
	assert.Equal(t, 82, e.ContentScore)
	assert.InDelta(t, 17.4, e.GPAPoints, 1e-9)
	assert.InDelta(t, 3.33, e.ExperiencePoints, 1e-9)
	assert.InDelta(t, 5.0, e.OverlapBonus, 1e-9)
	assert.Equal(t, 74.93, e.Score)
}

func TestScore_Examples(t *testing.T) {
	webPosition := model.Position{
		ID:             "p2",
		OrganizationID: "org2",
		Domain:         "Web Development",
		RequiredSkills: "React, Node.js, Docker",
		MinGPA:         7.5,
		Capacity:       1,
	}

	tests := []struct {
		name      string
		candidate model.Candidate
		position  model.Position
		resume    string
		want      float64
	}{
		{
			name:      "web candidate with partial overlap",
			candidate: model.Candidate{ID: "c2", GPA: 7.9, Domain: "Web Development", ExperienceYears: 2, ExtractedSkills: "React, Node.js"},
			position:  webPosition,
			resume:    testfixtures.WebResume,
			want:      71.13,
		},
		{
			name:      "experience and overlap are capped",
			candidate: model.Candidate{ID: "c3", GPA: 10, Domain: "Web Development", ExperienceYears: 5, ExtractedSkills: "React, Node.js, Docker"},
			position:  webPosition,
			resume:    testfixtures.WebResume,
			want:      82,
		},
		{
			name:      "no extracted skills means no overlap bonus",
			candidate: model.Candidate{ID: "c4", GPA: 9.0, Domain: "Data Science"},
			position:  dataSciencePosition(),
			resume:    testfixtures.DataScienceResume,
			want:      67.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.candidate, tt.position, tt.resume))
		})
	}
}

func TestScore_DomainNormalization(t *testing.T) {
	candidate := dataScienceCandidate()
	position := dataSciencePosition()

	for _, domain := range []string{"Data Science", "data-science", "DATA_SCIENCE", " data science "} {
		position.Domain = domain
		assert.Greater(t, Score(candidate, position, testfixtures.DataScienceResume), 0.0, domain)
	}
}

func TestScore_DomainMismatchIsZero(t *testing.T) {
	candidate := dataScienceCandidate()
	candidate.GPA = 10
	candidate.ExperienceYears = 10
	position := dataSciencePosition()
	position.Domain = "Web Development"

	e := NewDefaultScorer().Evaluate(candidate, position, testfixtures.DataScienceResume)

	assert.Equal(t, 0.0, e.Score)
	assert.Equal(t, "Domain", e.FailedGate)
	require.NotNil(t, e.Issue)
	assert.Equal(t, model.IssueIneligible, e.Issue.Kind)
}

func TestScore_GPABelowMinimumIsZero(t *testing.T) {
	candidate := dataScienceCandidate()
	candidate.GPA = 6.5

	e := NewDefaultScorer().Evaluate(candidate, dataSciencePosition(), testfixtures.DataScienceResume)

	assert.Equal(t, 0.0, e.Score)
	assert.Equal(t, "GPA", e.FailedGate)
	assert.Equal(t, model.IssueIneligible, e.Issue.Kind)
	assert.Contains(t, e.Issue.Reason, "6.50 < 7.00")
}

func TestScore_GPAEqualToMinimumPasses(t *testing.T) {
	candidate := dataScienceCandidate()
	candidate.GPA = 7.0

	assert.Greater(t, Score(candidate, dataSciencePosition(), testfixtures.DataScienceResume), 0.0)
}

func TestScore_MissingResumeIsZero(t *testing.T) {
	for _, resume := range []string{"", "  \n"} {
		e := NewDefaultScorer().Evaluate(dataScienceCandidate(), dataSciencePosition(), resume)

		assert.Equal(t, 0.0, e.Score)
		assert.Equal(t, "Resume", e.FailedGate)
		assert.Equal(t, model.IssueMissingInput, e.Issue.Kind)
	}
}

func TestScore_GatesEvaluatedInOrder(t *testing.T) {
	candidate := dataScienceCandidate()
	candidate.GPA = 1
	candidate.Domain = "AI"

	e := NewDefaultScorer().Evaluate(candidate, dataSciencePosition(), "")

	assert.Equal(t, "Domain", e.FailedGate)
}

func TestScore_OutOfRangeInputsAreClamped(t *testing.T) {
	candidate := dataScienceCandidate()
	candidate.GPA = 15
	candidate.ExperienceYears = -3

	e := NewDefaultScorer().Evaluate(candidate, dataSciencePosition(), testfixtures.DataScienceResume)

	assert.InDelta(t, 20.0, e.GPAPoints, 1e-9)
	assert.Equal(t, 0.0, e.ExperiencePoints)
	assert.LessOrEqual(t, e.Score, MaxScore)
}

func TestScore_CustomWeights(t *testing.T) {
	weights := Weights{Resume: 0, GPAMax: 10, ExperiencePerYear: 1, ExperienceMax: 2, OverlapMax: 0}
	scorer := NewScorer(catalog.Default(), weights)

	candidate := dataScienceCandidate()
	candidate.GPA = 8
	candidate.ExperienceYears = 5

	// (8/10)*10 + min(5*1, 2)
	assert.Equal(t, 10.0, scorer.Score(candidate, dataSciencePosition(), testfixtures.DataScienceResume))
}

func TestRound2_ExactHalvesRoundToEven(t *testing.T) {
	// 46.125 and 46.375 are exact in binary
	assert.Equal(t, 46.12, round2(46.125))
	assert.Equal(t, 46.38, round2(46.375))
	assert.Equal(t, 74.93, round2(74.9267))
}
