package allocator

import (
	"github.com/jakechorley/placement-allocator/pkg/core/matching"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/core/screening"
)

// PositionStatus is where a position is in the round-robin loop
type PositionStatus string

const (
	// StatusActive positions take a turn every round
	StatusActive PositionStatus = "Active"

	// StatusFull positions have filled their capacity
	StatusFull PositionStatus = "Full"

	// StatusExhausted positions ran out of unassigned candidates before filling up
	StatusExhausted PositionStatus = "Exhausted"
)

// PairScorer scores a (candidate, position) pair, running gates first.
// *matching.Scorer satisfies this.
type PairScorer interface {
	Evaluate(candidate model.Candidate, position model.Position, resumeText string) matching.Evaluation
}

// ResumeValidator classifies resume text as admissible or not
type ResumeValidator func(text string) screening.Verdict

// RankedCandidate is a candidate on a position's ranked list
type RankedCandidate struct {
	CandidateID string
	Score       float64
}

// PositionState tracks one position through the round-robin loop
type PositionState struct {
	Position model.Position

	// Index in the input positions slice. Positions are keyed by index so
	// duplicate position IDs never share state.
	Index int

	// Ranked candidates by score descending, ties in candidate input order
	Ranked []RankedCandidate

	// Capacity is the position's capacity clamped at zero
	Capacity int

	// Filled is the number of candidates assigned so far
	Filled int

	Status PositionStatus

	// cursor is the index into Ranked of the next candidate to consider
	cursor int
}

// IsFull returns true if the position has reached its capacity
func (p *PositionState) IsFull() bool {
	return p.Filled >= p.Capacity
}

// RemainingCapacity returns the number of openings still to fill
func (p *PositionState) RemainingCapacity() int {
	return max(p.Capacity-p.Filled, 0)
}

// nextUnassigned advances the cursor past assigned candidates and returns the
// next unassigned one, or false when the ranked list is exhausted
func (p *PositionState) nextUnassigned(assigned map[string]bool) (RankedCandidate, bool) {
	for p.cursor < len(p.Ranked) && assigned[p.Ranked[p.cursor].CandidateID] {
		p.cursor++
	}
	if p.cursor >= len(p.Ranked) {
		return RankedCandidate{}, false
	}
	return p.Ranked[p.cursor], true
}

// Exclusion is a candidate removed from the run before scoring
type Exclusion struct {
	CandidateID string
	Issue       model.Issue

	// Check is the screening rule that rejected the resume (empty for a missing resume)
	Check screening.Check
}

// IneligiblePair is a (candidate, position) pair that failed a gate
type IneligiblePair struct {
	CandidateID   string
	PositionID    string
	PositionIndex int
	Gate          string
	Issue         model.Issue
}

// PositionIssue is a non-fatal finding about a position, such as an
// unrecognised domain scored against the general catalog
type PositionIssue struct {
	PositionID    string
	PositionIndex int
	Issue         model.Issue
}

// PositionSummary reports how a position fared in the run
type PositionSummary struct {
	PositionID     string
	OrganizationID string
	Domain         string
	Capacity       int
	Filled         int

	// Candidates is the number of candidates that scored above zero
	Candidates int

	Status PositionStatus
}

// AllocationConfig contains the inputs of one allocation run
type AllocationConfig struct {
	Candidates []model.Candidate
	Positions  []model.Position

	// ResumeTexts maps candidate ID to raw resume text. Absent entries mean no resume.
	ResumeTexts map[string]string

	// Scorer defaults to matching.NewDefaultScorer()
	Scorer PairScorer

	// Validator defaults to screening.Validate
	Validator ResumeValidator

	// Observer receives run events. Defaults to NopObserver.
	Observer Observer
}

// AllocationOutcome represents the result of an allocation run
type AllocationOutcome struct {
	// Assignments in the order they were made
	Assignments []model.MatchResult

	Exclusions      []Exclusion
	IneligiblePairs []IneligiblePair
	PositionIssues  []PositionIssue

	// Positions in input order
	Positions []PositionSummary

	// OrganizationDistribution counts assignments per organization ID
	OrganizationDistribution map[string]int

	// Rounds is the number of round-robin rounds that made at least one assignment
	Rounds int

	// EligibleCandidates passed resume validation
	EligibleCandidates int

	// UnallocatedCandidates passed validation but were not assigned
	UnallocatedCandidates []string

	// ValidationErrors contains any invariant violations found in the assignments
	ValidationErrors []ValidationError
}

// AllocatedCount returns the number of candidates assigned
func (o *AllocationOutcome) AllocatedCount() int {
	return len(o.Assignments)
}
