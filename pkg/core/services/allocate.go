package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/core/allocator"
	"github.com/jakechorley/placement-allocator/pkg/core/catalog"
	"github.com/jakechorley/placement-allocator/pkg/core/matching"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/db"
)

// AllocationWriter defines the database operation needed to persist an allocation run
type AllocationWriter interface {
	ReplaceAllocations(ctx context.Context, allocations []db.Allocation) error
}

// AllocateOptions controls how an allocation run is scored and persisted
type AllocateOptions struct {
	// DryRun skips persistence
	DryRun bool

	// ForceCommit persists even when the outcome fails validation
	ForceCommit bool

	// Weights default to matching.DefaultWeights() when left zero
	Weights matching.Weights

	// Observer receives allocator events in addition to the logging observer
	Observer allocator.Observer
}

// AllocateResult contains the allocation results
type AllocateResult struct {
	RunID       string
	Outcome     *allocator.AllocationOutcome
	Allocations []db.Allocation
	Saved       bool

	Candidates    map[string]db.Candidate
	Positions     map[string]db.Position
	Organizations map[string]db.Organization
}

// Success reports whether the outcome passed validation
func (r *AllocateResult) Success() bool {
	return len(r.Outcome.ValidationErrors) == 0
}

// Allocate loads the roster and resumes, runs the round-robin allocator and,
// unless this is a dry run, replaces the stored allocations with the new ones.
// store may be nil for dry runs.
func Allocate(
	ctx context.Context,
	source RosterSource,
	resumes ResumeSource,
	store AllocationWriter,
	logger *zap.Logger,
	opts AllocateOptions,
) (*AllocateResult, error) {
	logger.Debug("Starting allocate",
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("force_commit", opts.ForceCommit))

	if !opts.DryRun && store == nil {
		return nil, fmt.Errorf("an allocation store is required unless dry run is set")
	}

	// Step 1: Fetch the roster
	logger.Debug("Fetching candidates")
	dbCandidates, err := source.GetCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	if len(dbCandidates) == 0 {
		return nil, ErrNoCandidates
	}
	logger.Debug("Found candidates", zap.Int("count", len(dbCandidates)))

	logger.Debug("Fetching positions")
	dbPositions, err := source.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}
	if len(dbPositions) == 0 {
		return nil, ErrNoPositions
	}
	logger.Debug("Found positions", zap.Int("count", len(dbPositions)))

	organizations, err := source.GetOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	// Step 2: Load resume text
	logger.Debug("Loading resumes")
	resumeTexts, err := resumes.LoadResumes(ctx, dbCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to load resumes: %w", err)
	}
	logger.Debug("Loaded resumes",
		zap.Int("count", len(resumeTexts)),
		zap.Int("missing", len(dbCandidates)-len(resumeTexts)))

	// Step 3: Run the allocator
	weights := opts.Weights
	if weights == (matching.Weights{}) {
		weights = matching.DefaultWeights()
	}

	runID := uuid.New().String()
	runLogger := logger.With(zap.String("run_id", runID))

	allocConfig := allocator.AllocationConfig{
		Candidates:  toModelCandidates(dbCandidates),
		Positions:   toModelPositions(dbPositions),
		ResumeTexts: resumeTexts,
		Scorer:      matching.NewScorer(catalog.Default(), weights),
		Observer:    allocator.MultiObserver(NewLoggingObserver(runLogger), opts.Observer),
	}

	runLogger.Info("Running allocation algorithm",
		zap.Int("candidates", len(allocConfig.Candidates)),
		zap.Int("positions", len(allocConfig.Positions)))
	outcome, err := allocator.Allocate(allocConfig)
	if err != nil {
		return nil, fmt.Errorf("allocation failed: %w", err)
	}

	result := &AllocateResult{
		RunID:         runID,
		Outcome:       outcome,
		Allocations:   db.NewAllocations(runID, time.Now().UTC(), outcome.Assignments, newRowID),
		Candidates:    indexCandidates(dbCandidates),
		Positions:     indexPositions(dbPositions),
		Organizations: indexOrganizations(organizations),
	}

	for _, verr := range outcome.ValidationErrors {
		runLogger.Warn("Validation error",
			zap.String("position_id", verr.PositionID),
			zap.String("candidate_id", verr.CandidateID),
			zap.String("description", verr.Description))
	}

	// Step 4: Persist
	shouldSave := !opts.DryRun && (result.Success() || opts.ForceCommit)

	if shouldSave {
		runLogger.Info("Saving allocations to database",
			zap.Bool("success", result.Success()),
			zap.Bool("forced", opts.ForceCommit && !result.Success()))
		if err := store.ReplaceAllocations(ctx, result.Allocations); err != nil {
			return nil, fmt.Errorf("failed to save allocations: %w", err)
		}
		result.Saved = true
		runLogger.Info("Allocations saved", zap.Int("count", len(result.Allocations)))
	} else if opts.DryRun {
		runLogger.Info("Dry run mode - allocations not saved")
	} else {
		runLogger.Warn("Allocation failed validation - not saving to database (use force commit to save anyway)")
	}

	return result, nil
}

func newRowID() string {
	return uuid.New().String()
}

func toModelCandidates(candidates []db.Candidate) []model.Candidate {
	result := make([]model.Candidate, len(candidates))
	for i, c := range candidates {
		result[i] = c.ToModel()
	}
	return result
}

func toModelPositions(positions []db.Position) []model.Position {
	result := make([]model.Position, len(positions))
	for i, p := range positions {
		result[i] = p.ToModel()
	}
	return result
}

func indexCandidates(candidates []db.Candidate) map[string]db.Candidate {
	byID := make(map[string]db.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	return byID
}

func indexPositions(positions []db.Position) map[string]db.Position {
	byID := make(map[string]db.Position, len(positions))
	for _, p := range positions {
		byID[p.ID] = p
	}
	return byID
}

func indexOrganizations(organizations []db.Organization) map[string]db.Organization {
	byID := make(map[string]db.Organization, len(organizations))
	for _, o := range organizations {
		byID[o.ID] = o
	}
	return byID
}

// Details joins the run's allocations with the roster for notification and export
func (r *AllocateResult) Details() []db.AllocationDetail {
	details := make([]db.AllocationDetail, 0, len(r.Allocations))
	for _, a := range r.Allocations {
		candidate := r.Candidates[a.CandidateID]
		position := r.Positions[a.PositionID]
		organization := r.Organizations[a.OrganizationID]

		details = append(details, db.AllocationDetail{
			Allocation:       a,
			CandidateName:    candidate.Name,
			CandidateEmail:   candidate.Email,
			OrganizationName: organizationName(organization, a.OrganizationID),
			Domain:           position.Domain,
			Stipend:          position.Stipend,
			Location:         organization.Location,
		})
	}
	return details
}

// organizationName falls back to the ID for organizations missing from the roster
func organizationName(o db.Organization, id string) string {
	if o.Name != "" {
		return o.Name
	}
	return id
}
