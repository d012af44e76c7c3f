package db

import (
	"time"

	"github.com/jakechorley/placement-allocator/pkg/core/model"
)

// Candidate represents a database candidate record
type Candidate struct {
	ID              string
	Name            string
	Email           string
	DeclaredSkills  string
	GPA             float64
	Domain          string
	ExperienceYears int
	ExtractedSkills string

	// ResumeFile is the resume's file name relative to the configured resume directory.
	// Empty means no resume was uploaded.
	ResumeFile string
}

// Organization represents a database organization record
type Organization struct {
	ID       string
	Name     string
	Email    string
	Location string
}

// Position represents a database position record
type Position struct {
	ID             string
	OrganizationID string
	Domain         string
	RequiredSkills string
	MinGPA         float64
	Capacity       int
	Stipend        int
}

// Allocation represents a database allocation record.
// Every allocation written by one run shares the same RunID.
type Allocation struct {
	ID             string
	RunID          string
	CandidateID    string
	PositionID     string
	OrganizationID string
	Score          float64
	Rank           int
	AllocatedAt    time.Time
}

// AllocationDetail is an allocation joined with the candidate, position and organization
// it refers to, as needed for notification emails and sheet exports
type AllocationDetail struct {
	Allocation
	CandidateName    string
	CandidateEmail   string
	OrganizationName string
	Domain           string
	Stipend          int
	Location         string
}

// ToModel converts the record to the allocator's candidate type
func (c Candidate) ToModel() model.Candidate {
	return model.Candidate{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		DeclaredSkills:  c.DeclaredSkills,
		GPA:             c.GPA,
		Domain:          c.Domain,
		ExperienceYears: c.ExperienceYears,
		ExtractedSkills: c.ExtractedSkills,
	}
}

// ToModel converts the record to the allocator's position type
func (p Position) ToModel() model.Position {
	return model.Position{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Domain:         p.Domain,
		RequiredSkills: p.RequiredSkills,
		MinGPA:         p.MinGPA,
		Capacity:       p.Capacity,
		Stipend:        p.Stipend,
	}
}

// NewAllocations converts allocator match results to records for a single run
func NewAllocations(runID string, allocatedAt time.Time, results []model.MatchResult, newID func() string) []Allocation {
	allocations := make([]Allocation, 0, len(results))
	for _, r := range results {
		allocations = append(allocations, Allocation{
			ID:             newID(),
			RunID:          runID,
			CandidateID:    r.CandidateID,
			PositionID:     r.PositionID,
			OrganizationID: r.OrganizationID,
			Score:          r.Score,
			Rank:           r.Rank,
			AllocatedAt:    allocatedAt,
		})
	}
	return allocations
}
