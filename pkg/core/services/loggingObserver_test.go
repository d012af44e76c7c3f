package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/placement-allocator/pkg/core/allocator"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/core/screening"
)

func TestLoggingObserver_Events(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	o := NewLoggingObserver(zap.New(core))

	o.CandidateExcluded(allocator.Exclusion{
		CandidateID: "c1",
		Issue:       model.Issue{Kind: model.IssueRejectedContent, Reason: "Resume too short"},
		Check:       screening.CheckTooShort,
	})
	o.PairIneligible(allocator.IneligiblePair{CandidateID: "c2", PositionID: "p1", Gate: "GPA", Issue: model.Issue{Reason: "GPA too low: 6.50 < 7.00"}})
	o.PositionRanked(model.Position{ID: "p1"}, []allocator.RankedCandidate{{CandidateID: "c3", Score: 74.93}})
	o.PositionRanked(model.Position{ID: "p2"}, nil)
	o.CandidateAssigned(model.MatchResult{CandidateID: "c3", PositionID: "p1", Score: 74.93, Rank: 1}, 1)
	o.PositionClosed(model.Position{ID: "p1"}, allocator.StatusFull, 1, 1)
	o.RunCompleted(&allocator.AllocationOutcome{Assignments: []model.MatchResult{{CandidateID: "c3"}}, Rounds: 1})

	entries := logs.AllUntimed()
	require.Len(t, entries, 7)

	assert.Equal(t, "Candidate excluded", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "too_short", entries[0].ContextMap()["check"])

	assert.Equal(t, "GPA", entries[1].ContextMap()["gate"])

	assert.Equal(t, "c3", entries[2].ContextMap()["top_candidate_id"])
	assert.NotContains(t, entries[3].ContextMap(), "top_candidate_id")

	assert.Equal(t, int64(1), entries[4].ContextMap()["rank"])
	assert.Equal(t, "Full", entries[5].ContextMap()["status"])

	assert.Equal(t, "Allocation completed", entries[6].Message)
	assert.Equal(t, int64(1), entries[6].ContextMap()["allocated"])
}

func TestLoggingObserver_PositionIssueIsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	o := NewLoggingObserver(zap.New(core))

	o.PositionIssue(allocator.PositionIssue{
		PositionID: "p1",
		Issue:      model.Issue{Kind: model.IssueConfigurationGap, Reason: "domain \"quantum\" is not in the catalog"},
	})
	o.RoundCompleted(1, 2)

	// Round completion is debug only
	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "ConfigurationGap", entries[0].ContextMap()["kind"])
}
