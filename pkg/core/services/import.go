package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/core/skills"
	"github.com/jakechorley/placement-allocator/pkg/db"
)

// ImportStore defines the database operations needed to import a roster
type ImportStore interface {
	UpsertCandidates(ctx context.Context, candidates []db.Candidate) error
	UpsertOrganizations(ctx context.Context, organizations []db.Organization) error
	UpsertPositions(ctx context.Context, positions []db.Position) error
}

// ImportResult counts the records written by an import
type ImportResult struct {
	Candidates    int
	Organizations int
	Positions     int

	// SkillsExtracted counts candidates whose extracted skills were filled from their resume
	SkillsExtracted int
}

// ImportRoster copies every record from source into the store.
// Organizations are written before positions so foreign keys resolve.
// When resumes is non-nil, candidates without extracted skills get them from their resume text.
func ImportRoster(ctx context.Context, source RosterSource, resumes ResumeSource, store ImportStore, logger *zap.Logger) (*ImportResult, error) {
	organizations, err := source.GetOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read organizations: %w", err)
	}
	positions, err := source.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	candidates, err := source.GetCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	var extracted int
	if resumes != nil {
		extracted, err = fillExtractedSkills(ctx, candidates, resumes)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("Importing roster",
		zap.Int("organizations", len(organizations)),
		zap.Int("positions", len(positions)),
		zap.Int("candidates", len(candidates)))

	if err := store.UpsertOrganizations(ctx, organizations); err != nil {
		return nil, fmt.Errorf("failed to import organizations: %w", err)
	}
	if err := store.UpsertPositions(ctx, positions); err != nil {
		return nil, fmt.Errorf("failed to import positions: %w", err)
	}
	if err := store.UpsertCandidates(ctx, candidates); err != nil {
		return nil, fmt.Errorf("failed to import candidates: %w", err)
	}

	result := &ImportResult{
		Candidates:      len(candidates),
		Organizations:   len(organizations),
		Positions:       len(positions),
		SkillsExtracted: extracted,
	}

	logger.Info("Roster imported",
		zap.Int("organizations", result.Organizations),
		zap.Int("positions", result.Positions),
		zap.Int("candidates", result.Candidates),
		zap.Int("skills_extracted", result.SkillsExtracted))

	return result, nil
}

// fillExtractedSkills sets ExtractedSkills in place for candidates that have a resume but no skills yet
func fillExtractedSkills(ctx context.Context, candidates []db.Candidate, resumes ResumeSource) (int, error) {
	texts, err := resumes.LoadResumes(ctx, candidates)
	if err != nil {
		return 0, fmt.Errorf("failed to load resumes: %w", err)
	}

	filled := 0
	for i := range candidates {
		c := &candidates[i]
		text, ok := texts[c.ID]
		if !ok || strings.TrimSpace(c.ExtractedSkills) != "" {
			continue
		}
		if found := skills.Extract(text); len(found) > 0 {
			c.ExtractedSkills = strings.Join(found, ", ")
			filled++
		}
	}
	return filled, nil
}

// ImportCandidateSheet reads candidates from a spreadsheet tab and writes them to the store
func ImportCandidateSheet(
	ctx context.Context,
	reader CandidateSheetReader,
	store db.CandidateStore,
	logger *zap.Logger,
	spreadsheetID, tabTitle string,
) (int, error) {
	logger.Debug("Reading candidates from sheet",
		zap.String("sheet_id", spreadsheetID),
		zap.String("tab", tabTitle))

	candidates, err := reader.ListCandidates(spreadsheetID, tabTitle)
	if err != nil {
		return 0, fmt.Errorf("failed to list candidates: %w", err)
	}

	if err := store.UpsertCandidates(ctx, candidates); err != nil {
		return 0, fmt.Errorf("failed to import candidates: %w", err)
	}

	logger.Info("Candidates imported from sheet", zap.Int("count", len(candidates)))
	return len(candidates), nil
}
