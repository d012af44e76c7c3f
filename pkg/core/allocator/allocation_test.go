package allocator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/placement-allocator/internal/testfixtures"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/core/screening"
)

func TestAllocate_TopCandidateDoesNotStarveSecondPosition(t *testing.T) {
	// Both positions prefer A. P1 is visited first in each round so it gets A;
	// P2 settles for B rather than waiting
	outcome, err := Allocate(AllocationConfig{
		Candidates:  candidates("A", "B"),
		Positions:   []model.Position{position("P1", 1), position("P2", 1)},
		ResumeTexts: resumesFor("A", "B"),
		Scorer: stubScorer{
			"A": {"P1": 90, "P2": 95},
			"B": {"P1": 50, "P2": 80},
		},
		Validator: acceptAll,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A->P1#1", "B->P2#1"}, pairs(outcome.Assignments))
	assert.Equal(t, 1, outcome.Rounds)
	assert.Empty(t, outcome.ValidationErrors)
}

func TestAllocate_RoundRobinAcrossRounds(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		Candidates:  candidates("A", "B", "C", "D"),
		Positions:   []model.Position{position("P1", 2), position("P2", 2)},
		ResumeTexts: resumesFor("A", "B", "C", "D"),
		Scorer: stubScorer{
			"A": {"P1": 90, "P2": 95},
			"B": {"P1": 80},
			"C": {"P1": 70, "P2": 85},
			"D": {"P2": 60},
		},
		Validator: acceptAll,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A->P1#1", "C->P2#1", "B->P1#2", "D->P2#2"}, pairs(outcome.Assignments))
	assert.Equal(t, 2, outcome.Rounds)
	assert.Equal(t, map[string]int{"org-P1": 2, "org-P2": 2}, outcome.OrganizationDistribution)
	assert.Empty(t, outcome.UnallocatedCandidates)

	require.Len(t, outcome.Positions, 2)
	for _, p := range outcome.Positions {
		assert.Equal(t, StatusFull, p.Status)
		assert.Equal(t, 2, p.Filled)
	}
}

func TestAllocate_AssignmentCarriesScoreAndOrganization(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		Candidates:  candidates("A"),
		Positions:   []model.Position{{ID: "P1", OrganizationID: "acme", Capacity: 1}},
		ResumeTexts: resumesFor("A"),
		Scorer:      stubScorer{"A": {"P1": 74.93}},
		Validator:   acceptAll,
	})
	require.NoError(t, err)

	assert.Equal(t, []model.MatchResult{
		{CandidateID: "A", OrganizationID: "acme", PositionID: "P1", Score: 74.93, Rank: 1},
	}, outcome.Assignments)
}

func TestAllocate_TiesKeepCandidateOrder(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		Candidates:  candidates("C", "A", "B"),
		Positions:   []model.Position{position("P1", 3)},
		ResumeTexts: resumesFor("A", "B", "C"),
		Scorer: stubScorer{
			"A": {"P1": 50},
			"B": {"P1": 70},
			"C": {"P1": 50},
		},
		Validator: acceptAll,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"B->P1#1", "C->P1#2", "A->P1#3"}, pairs(outcome.Assignments))
}

func TestAllocate_ExhaustedPosition(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		Candidates:  candidates("A", "B", "C"),
		Positions:   []model.Position{position("P1", 3)},
		ResumeTexts: resumesFor("A", "B", "C"),
		Scorer: stubScorer{
			"A": {"P1": 60},
			"B": {"P1": 40},
		},
		Validator: acceptAll,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A->P1#1", "B->P1#2"}, pairs(outcome.Assignments))
	assert.Equal(t, 2, outcome.Rounds)
	assert.Equal(t, []string{"C"}, outcome.UnallocatedCandidates)

	require.Len(t, outcome.Positions, 1)
	assert.Equal(t, StatusExhausted, outcome.Positions[0].Status)
	assert.Equal(t, 2, outcome.Positions[0].Filled)
	assert.Equal(t, 3, outcome.Positions[0].Capacity)
	assert.Equal(t, 2, outcome.Positions[0].Candidates)
}

func TestAllocate_ZeroAndNegativeCapacity(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		Candidates:  candidates("A", "B"),
		Positions:   []model.Position{position("Neg", -3), position("Zero", 0), position("P1", 1)},
		ResumeTexts: resumesFor("A", "B"),
		Scorer: stubScorer{
			"A": {"Neg": 99, "Zero": 99, "P1": 50},
			"B": {"Neg": 98, "Zero": 98, "P1": 40},
		},
		Validator: acceptAll,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A->P1#1"}, pairs(outcome.Assignments))
	assert.Equal(t, StatusFull, outcome.Positions[0].Status)
	assert.Equal(t, 0, outcome.Positions[0].Capacity)
	assert.Equal(t, StatusFull, outcome.Positions[1].Status)
	assert.Empty(t, outcome.ValidationErrors)
}

func TestAllocate_NoDuplicateCandidatesAndCapacityRespected(t *testing.T) {
	ids := make([]string, 12)
	scores := stubScorer{}
	for i := range ids {
		ids[i] = fmt.Sprintf("C%02d", i)
		scores[ids[i]] = map[string]float64{}
		for j := 0; j < 4; j++ {
			// Deterministic spread with plenty of ties and gaps
			if s := float64((i*7+j*13)%10) * 10; s > 0 {
				scores[ids[i]][fmt.Sprintf("P%d", j)] = s
			}
		}
	}
	positions := []model.Position{position("P0", 3), position("P1", 1), position("P2", 4), position("P3", 2)}

	outcome, err := Allocate(AllocationConfig{
		Candidates:  candidates(ids...),
		Positions:   positions,
		ResumeTexts: resumesFor(ids...),
		Scorer:      scores,
		Validator:   acceptAll,
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	perPosition := map[string]int{}
	for _, r := range outcome.Assignments {
		assert.False(t, seen[r.CandidateID], "candidate %s assigned twice", r.CandidateID)
		seen[r.CandidateID] = true
		perPosition[r.PositionID]++
		assert.Greater(t, r.Score, 0.0)
	}
	for _, p := range positions {
		assert.LessOrEqual(t, perPosition[p.ID], p.Capacity, p.ID)
	}
	assert.Empty(t, outcome.ValidationErrors)
	assert.Equal(t, len(ids), outcome.AllocatedCount()+len(outcome.UnallocatedCandidates))
}

func TestAllocate_Idempotent(t *testing.T) {
	config := AllocationConfig{
		Candidates:  candidates("A", "B", "C", "D"),
		Positions:   []model.Position{position("P1", 2), position("P2", 2)},
		ResumeTexts: resumesFor("A", "B", "C", "D"),
		Scorer: stubScorer{
			"A": {"P1": 90, "P2": 95},
			"B": {"P1": 80},
			"C": {"P1": 70, "P2": 85},
			"D": {"P2": 60},
		},
		Validator: acceptAll,
	}

	first, err := Allocate(config)
	require.NoError(t, err)
	second, err := Allocate(config)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAllocate_ExcludesCandidatesWithoutValidResume(t *testing.T) {
	reject := func(text string) screening.Verdict {
		if text == "spam" {
			return screening.Verdict{Rejected: true, Check: screening.CheckRepetition, Reason: "too repetitive"}
		}
		return screening.Verdict{}
	}

	outcome, err := Allocate(AllocationConfig{
		Candidates: candidates("NoResume", "Blank", "Spam", "Good"),
		Positions:  []model.Position{position("P1", 4)},
		ResumeTexts: map[string]string{
			"Blank": "   ",
			"Spam":  "spam",
			"Good":  "real resume",
		},
		Scorer: stubScorer{
			"NoResume": {"P1": 99},
			"Blank":    {"P1": 99},
			"Spam":     {"P1": 99},
			"Good":     {"P1": 10},
		},
		Validator: reject,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Good->P1#1"}, pairs(outcome.Assignments))
	assert.Equal(t, 1, outcome.EligibleCandidates)

	require.Len(t, outcome.Exclusions, 3)
	assert.Equal(t, "NoResume", outcome.Exclusions[0].CandidateID)
	assert.Equal(t, model.IssueMissingInput, outcome.Exclusions[0].Issue.Kind)
	assert.Equal(t, model.IssueMissingInput, outcome.Exclusions[1].Issue.Kind)
	assert.Equal(t, model.Issue{Kind: model.IssueRejectedContent, Reason: "too repetitive"}, outcome.Exclusions[2].Issue)
	assert.Equal(t, screening.CheckRepetition, outcome.Exclusions[2].Check)
}

func TestAllocate_DuplicatePositionIDsAreSeparatePositions(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		Candidates:  candidates("A", "B"),
		Positions:   []model.Position{position("P1", 1), position("P1", 1)},
		ResumeTexts: resumesFor("A", "B"),
		Scorer:      stubScorer{"A": {"P1": 90}, "B": {"P1": 80}},
		Validator:   acceptAll,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A->P1#1", "B->P1#1"}, pairs(outcome.Assignments))
	assert.Empty(t, outcome.ValidationErrors)
}

func TestAllocate_EmptyInputs(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{})
	require.NoError(t, err)

	assert.Empty(t, outcome.Assignments)
	assert.NotNil(t, outcome.Assignments)
	assert.Equal(t, 0, outcome.Rounds)

	outcome, err = Allocate(AllocationConfig{
		Candidates:  candidates("A"),
		ResumeTexts: resumesFor("A"),
		Validator:   acceptAll,
	})
	require.NoError(t, err)
	assert.Empty(t, outcome.Assignments)
	assert.Equal(t, []string{"A"}, outcome.UnallocatedCandidates)
}

func TestAllocate_InvalidCandidates(t *testing.T) {
	_, err := Allocate(AllocationConfig{Candidates: candidates("A", "A")})
	assert.ErrorContains(t, err, "duplicate candidate ID")

	_, err = Allocate(AllocationConfig{Candidates: candidates("")})
	assert.ErrorContains(t, err, "has no ID")
}

func TestAllocate_ObserverEvents(t *testing.T) {
	observer := &recordingObserver{}

	_, err := Allocate(AllocationConfig{
		Candidates:  candidates("A", "B"),
		Positions:   []model.Position{position("P1", 1), position("P2", 1)},
		ResumeTexts: resumesFor("A", "B"),
		Scorer: stubScorer{
			"A": {"P1": 90, "P2": 95},
			"B": {"P2": 80},
		},
		Validator: acceptAll,
		Observer:  observer,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ineligible B P1 Stub",
		"round 1 assign A P1 #1",
		"closed P1 Full 1/1",
		"round 1 assign B P2 #1",
		"closed P2 Full 1/1",
		"round 1 done 2",
		"completed 2",
	}, observer.events)
}

func TestMultiObserver_ForwardsToEach(t *testing.T) {
	first := &recordingObserver{}
	second := &recordingObserver{}

	_, err := Allocate(AllocationConfig{
		Candidates:  candidates("A"),
		Positions:   []model.Position{position("P1", 1)},
		ResumeTexts: resumesFor("A"),
		Scorer:      stubScorer{"A": {"P1": 10}},
		Validator:   acceptAll,
		Observer:    MultiObserver(first, nil, second),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, first.events)
	assert.Equal(t, first.events, second.events)
}

func TestRunAllocation_DefaultScoringPipeline(t *testing.T) {
	people := []model.Candidate{
		{ID: "web", GPA: 7.9, Domain: "Web Development", ExperienceYears: 2, ExtractedSkills: "React, Node.js"},
		{ID: "ds", GPA: 8.7, Domain: "Data Science", ExperienceYears: 1, ExtractedSkills: "Python, Pandas, SQL"},
		{ID: "short", GPA: 9.9, Domain: "Data Science"},
	}
	positions := []model.Position{
		{ID: "p1", OrganizationID: "org1", Domain: "data-science", RequiredSkills: "Python, SQL, Tableau, Spark", MinGPA: 7, Capacity: 2},
		{ID: "p2", OrganizationID: "org2", Domain: "Web Development", RequiredSkills: "React, Node.js, Docker", MinGPA: 7.5, Capacity: 1},
	}
	resumes := map[string]string{
		"web":   testfixtures.WebResume,
		"ds":    testfixtures.DataScienceResume,
		"short": testfixtures.Short,
	}

	results, err := RunAllocation(people, positions, resumes)
	require.NoError(t, err)

	assert.Equal(t, []model.MatchResult{
		{CandidateID: "ds", OrganizationID: "org1", PositionID: "p1", Score: 74.93, Rank: 1},
		{CandidateID: "web", OrganizationID: "org2", PositionID: "p2", Score: 71.13, Rank: 1},
	}, results)
}
