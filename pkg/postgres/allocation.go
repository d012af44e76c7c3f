package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

// GetAllocations retrieves all allocation records ordered by position and rank
func (d *DB) GetAllocations(ctx context.Context) ([]db.Allocation, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, candidate_id, position_id, organization_id, score, rank, allocated_at
		FROM allocation
		ORDER BY position_id, rank
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []db.Allocation
	for rows.Next() {
		var a db.Allocation
		if err := rows.Scan(&a.ID, &a.RunID, &a.CandidateID, &a.PositionID, &a.OrganizationID,
			&a.Score, &a.Rank, &a.AllocatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocations: %w", err)
	}

	return allocations, nil
}

// GetAllocationDetails retrieves allocations joined with their candidate, position and organization
func (d *DB) GetAllocationDetails(ctx context.Context) ([]db.AllocationDetail, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.id, a.run_id, a.candidate_id, a.position_id, a.organization_id, a.score, a.rank, a.allocated_at,
			c.name, c.email, o.name, p.domain, p.stipend, o.location
		FROM allocation a
		JOIN candidate c ON c.id = a.candidate_id
		JOIN position p ON p.id = a.position_id
		JOIN organization o ON o.id = a.organization_id
		ORDER BY o.name, p.id, a.rank
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation details: %w", err)
	}
	defer rows.Close()

	var details []db.AllocationDetail
	for rows.Next() {
		var a db.AllocationDetail
		if err := rows.Scan(&a.ID, &a.RunID, &a.CandidateID, &a.PositionID, &a.OrganizationID,
			&a.Score, &a.Rank, &a.AllocatedAt,
			&a.CandidateName, &a.CandidateEmail, &a.OrganizationName, &a.Domain, &a.Stipend, &a.Location); err != nil {
			return nil, fmt.Errorf("failed to scan allocation detail: %w", err)
		}
		details = append(details, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation details: %w", err)
	}

	return details, nil
}

// ReplaceAllocations clears the allocation table and inserts the given records in one transaction
func (d *DB) ReplaceAllocations(ctx context.Context, allocations []db.Allocation) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM allocation`); err != nil {
		return fmt.Errorf("failed to clear allocations: %w", err)
	}

	for _, a := range allocations {
		_, err := tx.Exec(ctx, `
			INSERT INTO allocation (id, run_id, candidate_id, position_id, organization_id, score, rank, allocated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, a.ID, a.RunID, a.CandidateID, a.PositionID, a.OrganizationID, a.Score, a.Rank, a.AllocatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert allocation for candidate %s: %w", a.CandidateID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteAllocation removes a candidate's allocation, reporting whether one existed
func (d *DB) DeleteAllocation(ctx context.Context, candidateID string) (bool, error) {
	tag, err := d.pool.Exec(ctx, `DELETE FROM allocation WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return false, fmt.Errorf("failed to delete allocation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAllAllocations removes every allocation and returns the number removed
func (d *DB) DeleteAllAllocations(ctx context.Context) (int, error) {
	tag, err := d.pool.Exec(ctx, `DELETE FROM allocation`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete allocations: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
