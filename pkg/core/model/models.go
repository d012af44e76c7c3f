package model

// IssueKind classifies why a candidate or a (candidate, position) pair was
// not scored. None of these abort an allocation run.
type IssueKind string

const (
	// IssueMissingInput is an absent resume text or an absent required field
	IssueMissingInput IssueKind = "MissingInput"

	// IssueRejectedContent is a resume the validator classified as spam, gibberish or too short
	IssueRejectedContent IssueKind = "RejectedContent"

	// IssueIneligible is a domain mismatch or a GPA shortfall for a specific pair
	IssueIneligible IssueKind = "Ineligible"

	// IssueConfigurationGap is an unrecognised domain that fell back to the General catalog
	IssueConfigurationGap IssueKind = "ConfigurationGap"
)

// Issue is a data admissibility finding with a human-readable reason
type Issue struct {
	Kind   IssueKind
	Reason string
}

// Candidate represents a person seeking a position
type Candidate struct {
	ID    string
	Name  string
	Email string

	// DeclaredSkills is the free-text skills field filled in by the candidate
	DeclaredSkills string

	// GPA on a 0-10 scale
	GPA float64

	// Domain is the candidate's domain of interest (e.g. "Data Science")
	Domain string

	// ExperienceYears is the number of years of experience
	ExperienceYears int

	// ExtractedSkills is a comma-separated list derived from resume text (may be empty)
	ExtractedSkills string
}

// Position represents an opening offered by an organization
type Position struct {
	ID             string
	OrganizationID string
	Domain         string

	// RequiredSkills is comma-separated free text
	RequiredSkills string

	MinGPA float64

	// Capacity is the number of openings. Negative values are treated as zero.
	Capacity int

	// Stipend is informational only and never used in scoring
	Stipend int
}

// EffectiveCapacity returns the capacity clamped at zero
func (p Position) EffectiveCapacity() int {
	return max(p.Capacity, 0)
}

// MatchResult is a single assignment of a candidate to a position
type MatchResult struct {
	CandidateID    string
	OrganizationID string
	PositionID     string
	Score          float64

	// Rank is the 1-based order in which the candidate was assigned to the position
	Rank int
}
