package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/core/allocator"
	"github.com/jakechorley/placement-allocator/pkg/core/matching"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/db"
)

func TestAllocate_SavesAllocations(t *testing.T) {
	source, resumes := placementRoster()
	store := &mockAllocationStore{}

	result, err := Allocate(context.Background(), source, resumes, store, zap.NewNop(), AllocateOptions{})
	require.NoError(t, err)

	assert.True(t, result.Success())
	assert.True(t, result.Saved)
	assert.NotEmpty(t, result.RunID)

	assert.Equal(t, []model.MatchResult{
		{CandidateID: "ds", OrganizationID: "org1", PositionID: "p1", Score: 74.93, Rank: 1},
		{CandidateID: "web", OrganizationID: "org2", PositionID: "p2", Score: 71.13, Rank: 1},
	}, result.Outcome.Assignments)

	// The too-short resume is excluded before scoring
	require.Len(t, result.Outcome.Exclusions, 1)
	assert.Equal(t, "short", result.Outcome.Exclusions[0].CandidateID)

	require.Len(t, store.replaced, 1)
	saved := store.replaced[0]
	require.Len(t, saved, 2)
	assert.Equal(t, result.Allocations, saved)
	for _, a := range saved {
		assert.Equal(t, result.RunID, a.RunID)
		assert.NotEmpty(t, a.ID)
		assert.False(t, a.AllocatedAt.IsZero())
	}
	assert.NotEqual(t, saved[0].ID, saved[1].ID)
}

func TestAllocate_DryRunDoesNotSave(t *testing.T) {
	source, resumes := placementRoster()

	result, err := Allocate(context.Background(), source, resumes, nil, zap.NewNop(), AllocateOptions{DryRun: true})
	require.NoError(t, err)

	assert.False(t, result.Saved)
	assert.Len(t, result.Allocations, 2)
}

func TestAllocate_RequiresStoreUnlessDryRun(t *testing.T) {
	source, resumes := placementRoster()

	_, err := Allocate(context.Background(), source, resumes, nil, zap.NewNop(), AllocateOptions{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "allocation store is required")
}

func TestAllocate_NoCandidates(t *testing.T) {
	source, resumes := placementRoster()
	source.candidates = nil

	_, err := Allocate(context.Background(), source, resumes, nil, zap.NewNop(), AllocateOptions{DryRun: true})
	assert.True(t, errors.Is(err, ErrNoCandidates))
}

func TestAllocate_NoPositions(t *testing.T) {
	source, resumes := placementRoster()
	source.positions = []db.Position{}

	_, err := Allocate(context.Background(), source, resumes, nil, zap.NewNop(), AllocateOptions{DryRun: true})
	assert.True(t, errors.Is(err, ErrNoPositions))
}

func TestAllocate_SourceErrorsAreWrapped(t *testing.T) {
	source, resumes := placementRoster()
	cause := errors.New("connection refused")
	source.getCandidatesErr = cause

	_, err := Allocate(context.Background(), source, resumes, nil, zap.NewNop(), AllocateOptions{DryRun: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to fetch candidates")
}

func TestAllocate_ResumeErrorsAreWrapped(t *testing.T) {
	source, resumes := placementRoster()
	resumes.loadErr = errors.New("permission denied")

	_, err := Allocate(context.Background(), source, resumes, nil, zap.NewNop(), AllocateOptions{DryRun: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load resumes")
}

func TestAllocate_SaveError(t *testing.T) {
	source, resumes := placementRoster()
	store := &mockAllocationStore{replaceErr: errors.New("unique violation")}

	_, err := Allocate(context.Background(), source, resumes, store, zap.NewNop(), AllocateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save allocations")
}

func TestAllocate_CustomWeights(t *testing.T) {
	source, resumes := placementRoster()

	// Content score only: ds scores 82 * 0.5 against p1
	weights := matching.Weights{Resume: 0.5}
	result, err := Allocate(context.Background(), source, resumes, nil, zap.NewNop(), AllocateOptions{DryRun: true, Weights: weights})
	require.NoError(t, err)

	require.NotEmpty(t, result.Outcome.Assignments)
	assert.Equal(t, "ds", result.Outcome.Assignments[0].CandidateID)
	assert.Equal(t, 41.0, result.Outcome.Assignments[0].Score)
}

func TestAllocate_ForwardsEventsToObserver(t *testing.T) {
	source, resumes := placementRoster()
	observer := &countingObserver{}

	_, err := Allocate(context.Background(), source, resumes, nil, zap.NewNop(), AllocateOptions{DryRun: true, Observer: observer})
	require.NoError(t, err)

	assert.Equal(t, 2, observer.assigned)
	assert.Equal(t, 1, observer.excluded)
	assert.Equal(t, 1, observer.completed)
}

func TestAllocateResult_Details(t *testing.T) {
	source, resumes := placementRoster()

	result, err := Allocate(context.Background(), source, resumes, nil, zap.NewNop(), AllocateOptions{DryRun: true})
	require.NoError(t, err)

	details := result.Details()
	require.Len(t, details, 2)

	assert.Equal(t, "Priya Sharma", details[0].CandidateName)
	assert.Equal(t, "priya@example.com", details[0].CandidateEmail)
	assert.Equal(t, "Insight Labs", details[0].OrganizationName)
	assert.Equal(t, "data-science", details[0].Domain)
	assert.Equal(t, 20000, details[0].Stipend)
	assert.Equal(t, "Bengaluru", details[0].Location)

	assert.Equal(t, "Pixel Works", details[1].OrganizationName)
	assert.Empty(t, details[1].Location)
}

func TestOrganizationName_FallsBackToID(t *testing.T) {
	assert.Equal(t, "org9", organizationName(db.Organization{}, "org9"))
	assert.Equal(t, "Acme", organizationName(db.Organization{Name: "Acme"}, "org9"))
}

type countingObserver struct {
	allocator.NopObserver
	assigned  int
	excluded  int
	completed int
}

func (o *countingObserver) CandidateAssigned(model.MatchResult, int) { o.assigned++ }

func (o *countingObserver) CandidateExcluded(allocator.Exclusion) { o.excluded++ }

func (o *countingObserver) RunCompleted(*allocator.AllocationOutcome) { o.completed++ }
