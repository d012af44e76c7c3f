package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/internal/config"
	"github.com/jakechorley/placement-allocator/pkg/db"
)

// ExportHeader is the header row of an allocation export
var ExportHeader = []interface{}{
	"Candidate ID",
	"Candidate",
	"Email",
	"Organization",
	"Position ID",
	"Domain",
	"Rank",
	"Score",
	"Stipend",
	"Location",
	"Allocated At",
}

// ExportAllocations writes the stored allocations to the configured spreadsheet tab
// and returns the number of rows written
func ExportAllocations(
	ctx context.Context,
	store AllocationDetailsReader,
	publisher AllocationPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) (int, error) {
	if cfg.ExportSheetID == "" {
		return 0, fmt.Errorf("exportSheetID is not configured")
	}

	logger.Debug("Fetching allocation details")
	details, err := store.GetAllocationDetails(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch allocation details: %w", err)
	}

	rows := BuildExportRows(details)

	logger.Info("Publishing allocations",
		zap.String("sheet_id", cfg.ExportSheetID),
		zap.String("tab", cfg.ExportTab),
		zap.Int("rows", len(rows)))

	if err := publisher.PublishAllocations(cfg.ExportSheetID, cfg.ExportTab, ExportHeader, rows); err != nil {
		return 0, fmt.Errorf("failed to publish allocations: %w", err)
	}

	return len(rows), nil
}

// BuildExportRows converts allocation details to sheet rows in ExportHeader order
func BuildExportRows(details []db.AllocationDetail) [][]interface{} {
	rows := make([][]interface{}, 0, len(details))
	for _, d := range details {
		location := d.Location
		if location == "" {
			location = unknownLocation
		}

		rows = append(rows, []interface{}{
			d.CandidateID,
			d.CandidateName,
			d.CandidateEmail,
			d.OrganizationName,
			d.PositionID,
			d.Domain,
			d.Rank,
			d.Score,
			d.Stipend,
			location,
			d.AllocatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}
