package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

// GetOrganizations retrieves all organization records ordered by ID
func (d *DB) GetOrganizations(ctx context.Context) ([]db.Organization, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, location
		FROM organization
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	var organizations []db.Organization
	for rows.Next() {
		var o db.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Email, &o.Location); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		organizations = append(organizations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return organizations, nil
}

// GetPositions retrieves all position records ordered by ID.
// The allocator's tie-breaking follows this order.
func (d *DB) GetPositions(ctx context.Context) ([]db.Position, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, organization_id, domain, required_skills, min_gpa, capacity, stipend
		FROM position
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []db.Position
	for rows.Next() {
		var p db.Position
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.Domain, &p.RequiredSkills, &p.MinGPA, &p.Capacity, &p.Stipend); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// UpsertOrganizations inserts organizations, overwriting existing records with the same ID
func (d *DB) UpsertOrganizations(ctx context.Context, organizations []db.Organization) error {
	if len(organizations) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, o := range organizations {
		batch.Queue(`
			INSERT INTO organization (id, name, email, location)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				location = EXCLUDED.location
		`, o.ID, o.Name, o.Email, o.Location)
	}

	if err := d.sendBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to upsert organizations: %w", err)
	}

	return nil
}

// UpsertPositions inserts positions, overwriting existing records with the same ID
func (d *DB) UpsertPositions(ctx context.Context, positions []db.Position) error {
	if len(positions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(`
			INSERT INTO position (id, organization_id, domain, required_skills, min_gpa, capacity, stipend)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				organization_id = EXCLUDED.organization_id,
				domain = EXCLUDED.domain,
				required_skills = EXCLUDED.required_skills,
				min_gpa = EXCLUDED.min_gpa,
				capacity = EXCLUDED.capacity,
				stipend = EXCLUDED.stipend
		`, p.ID, p.OrganizationID, p.Domain, p.RequiredSkills, p.MinGPA, p.Capacity, p.Stipend)
	}

	if err := d.sendBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to upsert positions: %w", err)
	}

	return nil
}
