package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

// GetCandidates retrieves all candidate records ordered by ID
func (d *DB) GetCandidates(ctx context.Context) ([]db.Candidate, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, declared_skills, gpa, domain, experience_years, extracted_skills, resume_file
		FROM candidate
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []db.Candidate
	for rows.Next() {
		var c db.Candidate
		var resumeFile *string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.DeclaredSkills, &c.GPA, &c.Domain,
			&c.ExperienceYears, &c.ExtractedSkills, &resumeFile); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if resumeFile != nil {
			c.ResumeFile = *resumeFile
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}

	return candidates, nil
}

// CountCandidates returns the number of candidate records
func (d *DB) CountCandidates(ctx context.Context) (int, error) {
	var count int
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidate`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return count, nil
}

// UpsertCandidates inserts candidates, overwriting existing records with the same ID
func (d *DB) UpsertCandidates(ctx context.Context, candidates []db.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range candidates {
		var resumeFile *string
		if c.ResumeFile != "" {
			resumeFile = &c.ResumeFile
		}
		batch.Queue(`
			INSERT INTO candidate (id, name, email, declared_skills, gpa, domain, experience_years, extracted_skills, resume_file)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				declared_skills = EXCLUDED.declared_skills,
				gpa = EXCLUDED.gpa,
				domain = EXCLUDED.domain,
				experience_years = EXCLUDED.experience_years,
				extracted_skills = EXCLUDED.extracted_skills,
				resume_file = EXCLUDED.resume_file
		`, c.ID, c.Name, c.Email, c.DeclaredSkills, c.GPA, c.Domain, c.ExperienceYears, c.ExtractedSkills, resumeFile)
	}

	if err := d.sendBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to upsert candidates: %w", err)
	}

	return nil
}

// sendBatch runs every queued statement in one transaction
func (d *DB) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
