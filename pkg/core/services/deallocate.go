package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DeallocateStore defines the database operations needed to remove allocations
type DeallocateStore interface {
	DeleteAllocation(ctx context.Context, candidateID string) (bool, error)
	DeleteAllAllocations(ctx context.Context) (int, error)
}

// Deallocate removes a single candidate's allocation.
// Returns ErrCandidateNotAllocated if the candidate holds no allocation.
func Deallocate(ctx context.Context, store DeallocateStore, logger *zap.Logger, candidateID string) error {
	if candidateID == "" {
		return fmt.Errorf("candidate ID is required")
	}

	logger.Debug("Deallocating candidate", zap.String("candidate_id", candidateID))

	removed, err := store.DeleteAllocation(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("failed to deallocate candidate %s: %w", candidateID, err)
	}

	if !removed {
		return fmt.Errorf("%w: %s", ErrCandidateNotAllocated, candidateID)
	}

	logger.Info("Candidate deallocated", zap.String("candidate_id", candidateID))
	return nil
}

// DeallocateAll removes every allocation and returns how many were removed
func DeallocateAll(ctx context.Context, store DeallocateStore, logger *zap.Logger) (int, error) {
	count, err := store.DeleteAllAllocations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to deallocate all candidates: %w", err)
	}

	logger.Info("All allocations removed", zap.Int("count", count))
	return count, nil
}
