package allocator

import (
	"github.com/jakechorley/placement-allocator/pkg/core/model"
)

// Observer receives events as an allocation run progresses. The allocator
// never logs; callers attach observers for logging and metrics.
type Observer interface {
	CandidateExcluded(exclusion Exclusion)
	PairIneligible(pair IneligiblePair)
	PositionIssue(issue PositionIssue)
	PositionRanked(position model.Position, ranked []RankedCandidate)
	CandidateAssigned(result model.MatchResult, round int)
	RoundCompleted(round, assignments int)
	PositionClosed(position model.Position, status PositionStatus, filled, capacity int)
	RunCompleted(outcome *AllocationOutcome)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) CandidateExcluded(Exclusion) {}
func (NopObserver) PairIneligible(IneligiblePair) {}
func (NopObserver) PositionIssue(PositionIssue) {}
func (NopObserver) PositionRanked(model.Position, []RankedCandidate) {}
func (NopObserver) CandidateAssigned(model.MatchResult, int) {}
func (NopObserver) RoundCompleted(int, int) {}
func (NopObserver) PositionClosed(model.Position, PositionStatus, int, int) {}
func (NopObserver) RunCompleted(*AllocationOutcome) {}

// multiObserver fans events out to several observers in order
type multiObserver []Observer

// MultiObserver returns an Observer that forwards every event to each of
// observers in turn. Nil observers are skipped.
func MultiObserver(observers ...Observer) Observer {
	m := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multiObserver) CandidateExcluded(e Exclusion) {
	for _, o := range m {
		o.CandidateExcluded(e)
	}
}

func (m multiObserver) PairIneligible(p IneligiblePair) {
	for _, o := range m {
		o.PairIneligible(p)
	}
}

func (m multiObserver) PositionIssue(i PositionIssue) {
	for _, o := range m {
		o.PositionIssue(i)
	}
}

func (m multiObserver) PositionRanked(p model.Position, ranked []RankedCandidate) {
	for _, o := range m {
		o.PositionRanked(p, ranked)
	}
}

func (m multiObserver) CandidateAssigned(r model.MatchResult, round int) {
	for _, o := range m {
		o.CandidateAssigned(r, round)
	}
}

func (m multiObserver) RoundCompleted(round, assignments int) {
	for _, o := range m {
		o.RoundCompleted(round, assignments)
	}
}

func (m multiObserver) PositionClosed(p model.Position, status PositionStatus, filled, capacity int) {
	for _, o := range m {
		o.PositionClosed(p, status, filled, capacity)
	}
}

func (m multiObserver) RunCompleted(outcome *AllocationOutcome) {
	for _, o := range m {
		o.RunCompleted(outcome)
	}
}
