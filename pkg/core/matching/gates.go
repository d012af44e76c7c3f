package matching

import (
	"fmt"
	"strings"

	"github.com/jakechorley/placement-allocator/pkg/core/catalog"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
)

// Gate is a hard precondition evaluated before any weighted scoring.
// If ANY gate fails the pair scores exactly 0.
type Gate interface {
	// Name returns a human-readable identifier used in logs and reports
	Name() string

	// Check returns nil when the pair may be scored, or the issue that
	// disqualifies it
	Check(candidate model.Candidate, position model.Position, resumeText string) *model.Issue
}

// DefaultGates returns the domain, GPA and resume gates in evaluation order
func DefaultGates() []Gate {
	return []Gate{DomainGate{}, GPAGate{}, ResumeGate{}}
}

// DomainGate requires the candidate's domain to match the position's
type DomainGate struct{}

func (DomainGate) Name() string { return "Domain" }

func (DomainGate) Check(candidate model.Candidate, position model.Position, _ string) *model.Issue {
	if catalog.NormalizeName(candidate.Domain) == catalog.NormalizeName(position.Domain) {
		return nil
	}
	return &model.Issue{
		Kind:   model.IssueIneligible,
		Reason: fmt.Sprintf("domain mismatch: candidate wants %q, position is %q", candidate.Domain, position.Domain),
	}
}

// GPAGate requires the candidate's GPA to meet the position's minimum
type GPAGate struct{}

func (GPAGate) Name() string { return "GPA" }

func (GPAGate) Check(candidate model.Candidate, position model.Position, _ string) *model.Issue {
	gpa := clampGPA(candidate.GPA)
	if gpa >= position.MinGPA {
		return nil
	}
	return &model.Issue{
		Kind:   model.IssueIneligible,
		Reason: fmt.Sprintf("GPA too low: %.2f < %.2f", gpa, position.MinGPA),
	}
}

// ResumeGate requires resume text to be present for the candidate
type ResumeGate struct{}

func (ResumeGate) Name() string { return "Resume" }

func (ResumeGate) Check(candidate model.Candidate, _ model.Position, resumeText string) *model.Issue {
	if strings.TrimSpace(resumeText) != "" {
		return nil
	}
	return &model.Issue{
		Kind:   model.IssueMissingInput,
		Reason: fmt.Sprintf("candidate %s has no resume and cannot be scored", candidate.ID),
	}
}
