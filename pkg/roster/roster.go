// Package roster reads candidates, organizations and positions from a YAML file.
package roster

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

// CandidateEntry is one candidate as written in the roster file
type CandidateEntry struct {
	ID              string  `yaml:"id" validate:"required"`
	Name            string  `yaml:"name" validate:"required"`
	Email           string  `yaml:"email,omitempty" validate:"omitempty,email"`
	Skills          string  `yaml:"skills,omitempty"`
	GPA             float64 `yaml:"gpa" validate:"gte=0,lte=10"`
	Domain          string  `yaml:"domain,omitempty"`
	ExperienceYears int     `yaml:"experienceYears,omitempty" validate:"gte=0"`
	ExtractedSkills string  `yaml:"extractedSkills,omitempty"`
	ResumeFile      string  `yaml:"resumeFile,omitempty"`
}

// PositionEntry is one internship position nested under its organization
type PositionEntry struct {
	ID             string  `yaml:"id" validate:"required"`
	Domain         string  `yaml:"domain" validate:"required"`
	RequiredSkills string  `yaml:"requiredSkills,omitempty"`
	MinGPA         float64 `yaml:"minGPA,omitempty" validate:"gte=0,lte=10"`
	Capacity       int     `yaml:"capacity" validate:"gte=0"`
	Stipend        int     `yaml:"stipend,omitempty" validate:"gte=0"`
}

// OrganizationEntry is one organization and the positions it offers
type OrganizationEntry struct {
	ID        string          `yaml:"id" validate:"required"`
	Name      string          `yaml:"name" validate:"required"`
	Email     string          `yaml:"email,omitempty" validate:"omitempty,email"`
	Location  string          `yaml:"location,omitempty"`
	Positions []PositionEntry `yaml:"positions" validate:"unique=ID,dive"`
}

// Roster is the parsed contents of a roster file.
// It satisfies services.RosterSource so a file can stand in for the database.
type Roster struct {
	Organizations []OrganizationEntry `yaml:"organizations" validate:"unique=ID,dive"`
	Candidates    []CandidateEntry    `yaml:"candidates" validate:"unique=ID,dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load reads and validates a roster file
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates roster YAML
func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks field constraints and that position IDs are unique across organizations
func (r *Roster) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("roster validation failed: %w", err)
	}

	owner := make(map[string]string)
	for _, org := range r.Organizations {
		for _, p := range org.Positions {
			if other, ok := owner[p.ID]; ok {
				return fmt.Errorf("roster validation failed: position %s is listed under both %s and %s", p.ID, other, org.ID)
			}
			owner[p.ID] = org.ID
		}
	}
	return nil
}

// GetCandidates returns the roster's candidates in file order
func (r *Roster) GetCandidates(ctx context.Context) ([]db.Candidate, error) {
	candidates := make([]db.Candidate, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		candidates = append(candidates, db.Candidate{
			ID:              c.ID,
			Name:            strings.TrimSpace(c.Name),
			Email:           strings.TrimSpace(c.Email),
			DeclaredSkills:  c.Skills,
			GPA:             c.GPA,
			Domain:          c.Domain,
			ExperienceYears: c.ExperienceYears,
			ExtractedSkills: c.ExtractedSkills,
			ResumeFile:      c.ResumeFile,
		})
	}
	return candidates, nil
}

// GetOrganizations returns the roster's organizations in file order
func (r *Roster) GetOrganizations(ctx context.Context) ([]db.Organization, error) {
	organizations := make([]db.Organization, 0, len(r.Organizations))
	for _, o := range r.Organizations {
		organizations = append(organizations, db.Organization{
			ID:       o.ID,
			Name:     o.Name,
			Email:    o.Email,
			Location: o.Location,
		})
	}
	return organizations, nil
}

// GetPositions flattens every organization's positions, keeping file order
func (r *Roster) GetPositions(ctx context.Context) ([]db.Position, error) {
	var positions []db.Position
	for _, o := range r.Organizations {
		for _, p := range o.Positions {
			positions = append(positions, db.Position{
				ID:             p.ID,
				OrganizationID: o.ID,
				Domain:         p.Domain,
				RequiredSkills: p.RequiredSkills,
				MinGPA:         p.MinGPA,
				Capacity:       p.Capacity,
				Stipend:        p.Stipend,
			})
		}
	}
	return positions, nil
}
