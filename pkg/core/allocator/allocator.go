package allocator

import (
	"github.com/jakechorley/placement-allocator/pkg/core/model"
)

// Allocate runs a complete allocation: screening, ranking and round-robin assignment.
//
// Each round visits every active position in input order and gives it the best
// ranked candidate not yet placed anywhere. A position leaves the active set
// once it is full or has no unassigned candidates left. The loop ends when a
// round makes no assignment or no position is active, so every position gets
// a fair turn instead of the first one taking all the top candidates.
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {

	// Initialise allocator (screening and ranking)
	allocator, err := InitAllocation(config)
	if err != nil {
		return nil, err
	}

	// Positions with nothing to fill or nobody to choose from never become active
	active := make([]*PositionState, 0, len(allocator.positions))
	for _, p := range allocator.positions {
		switch {
		case p.IsFull():
			allocator.closePosition(p, StatusFull)
		case len(p.Ranked) == 0:
			allocator.closePosition(p, StatusExhausted)
		default:
			active = append(active, p)
		}
	}

	// Main allocation loop
	round := 0
	for len(active) > 0 {
		round++
		assignments := 0
		stillActive := active[:0]

		for _, p := range active {
			candidate, ok := p.nextUnassigned(allocator.assigned)
			if !ok {
				allocator.closePosition(p, StatusExhausted)
				continue
			}

			allocator.assign(p, candidate, round)
			assignments++

			if p.IsFull() {
				allocator.closePosition(p, StatusFull)
				continue
			}
			stillActive = append(stillActive, p)
		}
		active = stillActive

		if assignments == 0 {
			break
		}
		allocator.outcome.Rounds = round
		allocator.observer.RoundCompleted(round, assignments)
	}

	// Build outcome report
	outcome := allocator.buildOutcome()
	allocator.observer.RunCompleted(outcome)
	return outcome, nil
}

// RunAllocation allocates with the default scorer and validator and returns
// only the assignments, in the order they were made
func RunAllocation(candidates []model.Candidate, positions []model.Position, resumeTexts map[string]string) ([]model.MatchResult, error) {
	outcome, err := Allocate(AllocationConfig{
		Candidates:  candidates,
		Positions:   positions,
		ResumeTexts: resumeTexts,
	})
	if err != nil {
		return nil, err
	}
	return outcome.Assignments, nil
}

// assign places a candidate in a position and updates state
func (a *Allocator) assign(p *PositionState, candidate RankedCandidate, round int) {
	p.Filled++
	p.cursor++
	a.assigned[candidate.CandidateID] = true

	result := model.MatchResult{
		CandidateID:    candidate.CandidateID,
		OrganizationID: p.Position.OrganizationID,
		PositionID:     p.Position.ID,
		Score:          candidate.Score,
		Rank:           p.Filled,
	}
	a.outcome.Assignments = append(a.outcome.Assignments, result)
	a.observer.CandidateAssigned(result, round)
}

func (a *Allocator) closePosition(p *PositionState, status PositionStatus) {
	p.Status = status
	a.observer.PositionClosed(p.Position, status, p.Filled, p.Capacity)
}

// buildOutcome creates the final allocation outcome report
func (a *Allocator) buildOutcome() *AllocationOutcome {
	outcome := a.outcome

	for _, p := range a.positions {
		outcome.Positions = append(outcome.Positions, PositionSummary{
			PositionID:     p.Position.ID,
			OrganizationID: p.Position.OrganizationID,
			Domain:         p.Position.Domain,
			Capacity:       p.Capacity,
			Filled:         p.Filled,
			Candidates:     len(p.Ranked),
			Status:         p.Status,
		})
	}

	for _, r := range outcome.Assignments {
		outcome.OrganizationDistribution[r.OrganizationID]++
	}

	for _, c := range a.eligible {
		if !a.assigned[c.ID] {
			outcome.UnallocatedCandidates = append(outcome.UnallocatedCandidates, c.ID)
		}
	}

	// Run validation
	outcome.ValidationErrors = ValidateOutcome(outcome, a.config.Positions)

	return outcome
}
