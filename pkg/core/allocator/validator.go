package allocator

import (
	"fmt"
	"slices"

	"github.com/jakechorley/placement-allocator/pkg/core/model"
)

// ValidationError represents an invariant violated by a set of assignments
type ValidationError struct {
	PositionID  string
	CandidateID string
	Description string
}

func (e ValidationError) Error() string {
	return e.Description
}

type positionKey struct {
	organizationID string
	positionID     string
}

// ValidateOutcome checks the assignments of an outcome against the positions
// they were made for. Returns a slice of validation errors (empty if valid).
//
// Checked:
//   - No candidate is assigned more than once
//   - Every assignment refers to a known position
//   - No position holds more candidates than its capacity
//   - Ranks within a position run 1..n in assignment order
func ValidateOutcome(outcome *AllocationOutcome, positions []model.Position) []ValidationError {
	errors := []ValidationError{}
	if outcome == nil {
		return errors
	}

	capacity := make(map[positionKey]int)
	occurrences := make(map[positionKey]int)
	for _, p := range positions {
		key := positionKey{p.OrganizationID, p.ID}
		capacity[key] += p.EffectiveCapacity()
		occurrences[key]++
	}

	seen := make(map[string]string)
	filled := make(map[positionKey]int)
	ranks := make(map[positionKey][]int)

	for _, r := range outcome.Assignments {
		if previous, ok := seen[r.CandidateID]; ok {
			errors = append(errors, ValidationError{
				PositionID:  r.PositionID,
				CandidateID: r.CandidateID,
				Description: fmt.Sprintf("candidate %s assigned to position %s and position %s", r.CandidateID, previous, r.PositionID),
			})
		}
		seen[r.CandidateID] = r.PositionID

		key := positionKey{r.OrganizationID, r.PositionID}
		if _, ok := occurrences[key]; !ok {
			errors = append(errors, ValidationError{
				PositionID:  r.PositionID,
				CandidateID: r.CandidateID,
				Description: fmt.Sprintf("candidate %s assigned to unknown position %s of organization %s", r.CandidateID, r.PositionID, r.OrganizationID),
			})
			continue
		}
		filled[key]++
		ranks[key] = append(ranks[key], r.Rank)
	}

	for _, p := range positions {
		key := positionKey{p.OrganizationID, p.ID}
		n, ok := filled[key]
		if !ok {
			continue
		}
		// Report each key once
		delete(filled, key)

		if n > capacity[key] {
			errors = append(errors, ValidationError{
				PositionID:  p.ID,
				Description: fmt.Sprintf("position %s holds %d candidates but capacity is %d", p.ID, n, capacity[key]),
			})
		}

		// Ranks are only comparable when the position ID is unique
		if occurrences[key] == 1 && !isContiguousFromOne(ranks[key]) {
			errors = append(errors, ValidationError{
				PositionID:  p.ID,
				Description: fmt.Sprintf("position %s has ranks %v, expected 1..%d in order", p.ID, ranks[key], n),
			})
		}
	}

	return errors
}

func isContiguousFromOne(ranks []int) bool {
	want := make([]int, len(ranks))
	for i := range want {
		want[i] = i + 1
	}
	return slices.Equal(ranks, want)
}
