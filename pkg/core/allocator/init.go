package allocator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jakechorley/placement-allocator/pkg/core/matching"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/core/screening"
)

// Allocator holds the working state of one allocation run
type Allocator struct {
	config   AllocationConfig
	scorer   PairScorer
	validate ResumeValidator
	observer Observer

	// eligible candidates in input order
	eligible []model.Candidate

	positions []*PositionState

	// assigned is the global set of candidate IDs already placed
	assigned map[string]bool

	outcome *AllocationOutcome
}

// InitAllocation validates resumes and ranks eligible candidates for every position.
//
// Invalid configuration (errors returned):
//   - Candidates with an empty ID
//   - Two candidates sharing an ID
//
// Candidates without a resume or with a rejected resume are excluded from the
// run and reported, never returned as errors.
func InitAllocation(config AllocationConfig) (*Allocator, error) {
	seen := make(map[string]bool, len(config.Candidates))
	for i, c := range config.Candidates {
		if c.ID == "" {
			return nil, fmt.Errorf("candidate at index %d has no ID", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate candidate ID %q", c.ID)
		}
		seen[c.ID] = true
	}

	a := &Allocator{
		config:   config,
		scorer:   config.Scorer,
		validate: config.Validator,
		observer: config.Observer,
		assigned: make(map[string]bool),
		outcome: &AllocationOutcome{
			Assignments:              []model.MatchResult{},
			Exclusions:               []Exclusion{},
			IneligiblePairs:          []IneligiblePair{},
			PositionIssues:           []PositionIssue{},
			Positions:                []PositionSummary{},
			OrganizationDistribution: map[string]int{},
			UnallocatedCandidates:    []string{},
			ValidationErrors:         []ValidationError{},
		},
	}
	if a.scorer == nil {
		a.scorer = matching.NewDefaultScorer()
	}
	if a.validate == nil {
		a.validate = screening.Validate
	}
	if a.observer == nil {
		a.observer = NopObserver{}
	}

	a.screenCandidates()
	a.rankPositions()

	return a, nil
}

// screenCandidates excludes candidates with no resume or a rejected one
func (a *Allocator) screenCandidates() {
	a.eligible = make([]model.Candidate, 0, len(a.config.Candidates))

	for _, c := range a.config.Candidates {
		text := a.config.ResumeTexts[c.ID]

		if strings.TrimSpace(text) == "" {
			a.exclude(Exclusion{
				CandidateID: c.ID,
				Issue: model.Issue{
					Kind:   model.IssueMissingInput,
					Reason: "no resume uploaded",
				},
			})
			continue
		}

		verdict := a.validate(text)
		if verdict.Rejected {
			a.exclude(Exclusion{
				CandidateID: c.ID,
				Issue:       model.Issue{Kind: model.IssueRejectedContent, Reason: verdict.Reason},
				Check:       verdict.Check,
			})
			continue
		}

		a.eligible = append(a.eligible, c)
	}

	a.outcome.EligibleCandidates = len(a.eligible)
}

func (a *Allocator) exclude(e Exclusion) {
	a.outcome.Exclusions = append(a.outcome.Exclusions, e)
	a.observer.CandidateExcluded(e)
}

// rankPositions scores every eligible candidate against every position.
// Zero scores are dropped and the rest stable-sorted by score descending, so
// ties keep candidate input order.
func (a *Allocator) rankPositions() {
	a.positions = make([]*PositionState, len(a.config.Positions))

	for i, p := range a.config.Positions {
		state := &PositionState{
			Position: p,
			Index:    i,
			Ranked:   []RankedCandidate{},
			Capacity: p.EffectiveCapacity(),
			Status:   StatusActive,
		}
		a.positions[i] = state

		gapReported := false
		for _, c := range a.eligible {
			eval := a.scorer.Evaluate(c, p, a.config.ResumeTexts[c.ID])

			if !eval.Eligible() {
				pair := IneligiblePair{
					CandidateID:   c.ID,
					PositionID:    p.ID,
					PositionIndex: i,
					Gate:          eval.FailedGate,
					Issue:         *eval.Issue,
				}
				a.outcome.IneligiblePairs = append(a.outcome.IneligiblePairs, pair)
				a.observer.PairIneligible(pair)
				continue
			}

			if !gapReported {
				for _, issue := range eval.Breakdown.Issues {
					if issue.Kind != model.IssueConfigurationGap {
						continue
					}
					pi := PositionIssue{PositionID: p.ID, PositionIndex: i, Issue: issue}
					a.outcome.PositionIssues = append(a.outcome.PositionIssues, pi)
					a.observer.PositionIssue(pi)
					gapReported = true
				}
			}

			if eval.Score <= 0 {
				continue
			}
			state.Ranked = append(state.Ranked, RankedCandidate{CandidateID: c.ID, Score: eval.Score})
		}

		slices.SortStableFunc(state.Ranked, func(x, y RankedCandidate) int {
			switch {
			case x.Score > y.Score:
				return -1
			case x.Score < y.Score:
				return 1
			}
			return 0
		})

		a.observer.PositionRanked(p, state.Ranked)
	}
}

// Positions returns the per-position working state in input order
func (a *Allocator) Positions() []*PositionState {
	return a.positions
}

// EligibleCandidates returns the candidates that passed screening, in input order
func (a *Allocator) EligibleCandidates() []model.Candidate {
	return a.eligible
}
