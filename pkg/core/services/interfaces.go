package services

import (
	"context"
	"errors"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

var (
	// ErrNoCandidates is returned when an allocation run has nobody to place
	ErrNoCandidates = errors.New("no candidates found")

	// ErrNoPositions is returned when an allocation run has nowhere to place anybody
	ErrNoPositions = errors.New("no positions found")

	// ErrCandidateNotAllocated is returned when deallocating a candidate with no allocation
	ErrCandidateNotAllocated = errors.New("candidate is not allocated")
)

// RosterSource supplies the candidates, organizations and positions of an allocation run.
// The postgres store and a YAML roster file both satisfy it.
type RosterSource interface {
	GetCandidates(ctx context.Context) ([]db.Candidate, error)
	GetOrganizations(ctx context.Context) ([]db.Organization, error)
	GetPositions(ctx context.Context) ([]db.Position, error)
}

// ResumeSource returns resume text keyed by candidate ID.
// Candidates without a readable resume are absent from the map.
type ResumeSource interface {
	LoadResumes(ctx context.Context, candidates []db.Candidate) (map[string]string, error)
}

// GmailClient defines the email operation needed to notify candidates
type GmailClient interface {
	SendEmail(to, subject, body string) error
}

// AllocationPublisher writes a table of allocations to a spreadsheet tab
type AllocationPublisher interface {
	PublishAllocations(spreadsheetID, tabTitle string, header []interface{}, rows [][]interface{}) error
}

// CandidateSheetReader lists candidates from a spreadsheet tab
type CandidateSheetReader interface {
	ListCandidates(spreadsheetID, tabTitle string) ([]db.Candidate, error)
}
