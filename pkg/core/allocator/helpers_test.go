package allocator

import (
	"fmt"

	"github.com/jakechorley/placement-allocator/pkg/core/matching"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
	"github.com/jakechorley/placement-allocator/pkg/core/screening"
)

// stubScorer returns fixed scores keyed by candidate ID then position ID.
// Missing pairs fail a "Stub" gate.
type stubScorer map[string]map[string]float64

func (s stubScorer) Evaluate(c model.Candidate, p model.Position, _ string) matching.Evaluation {
	score, ok := s[c.ID][p.ID]
	if !ok {
		return matching.Evaluation{
			FailedGate: "Stub",
			Issue:      &model.Issue{Kind: model.IssueIneligible, Reason: fmt.Sprintf("%s not scored for %s", c.ID, p.ID)},
		}
	}
	return matching.Evaluation{Score: score}
}

func acceptAll(string) screening.Verdict {
	return screening.Verdict{Reason: "ok"}
}

func candidates(ids ...string) []model.Candidate {
	out := make([]model.Candidate, len(ids))
	for i, id := range ids {
		out[i] = model.Candidate{ID: id}
	}
	return out
}

func resumesFor(ids ...string) map[string]string {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[id] = "resume of " + id
	}
	return out
}

func position(id string, capacity int) model.Position {
	return model.Position{ID: id, OrganizationID: "org-" + id, Capacity: capacity}
}

// recordingObserver captures events for assertions
type recordingObserver struct {
	NopObserver
	events []string
}

func (r *recordingObserver) CandidateExcluded(e Exclusion) {
	r.events = append(r.events, fmt.Sprintf("excluded %s %s", e.CandidateID, e.Issue.Kind))
}

func (r *recordingObserver) PairIneligible(p IneligiblePair) {
	r.events = append(r.events, fmt.Sprintf("ineligible %s %s %s", p.CandidateID, p.PositionID, p.Gate))
}

func (r *recordingObserver) CandidateAssigned(m model.MatchResult, round int) {
	r.events = append(r.events, fmt.Sprintf("round %d assign %s %s #%d", round, m.CandidateID, m.PositionID, m.Rank))
}

func (r *recordingObserver) RoundCompleted(round, assignments int) {
	r.events = append(r.events, fmt.Sprintf("round %d done %d", round, assignments))
}

func (r *recordingObserver) PositionClosed(p model.Position, status PositionStatus, filled, capacity int) {
	r.events = append(r.events, fmt.Sprintf("closed %s %s %d/%d", p.ID, status, filled, capacity))
}

func (r *recordingObserver) RunCompleted(o *AllocationOutcome) {
	r.events = append(r.events, fmt.Sprintf("completed %d", len(o.Assignments)))
}

func pairs(results []model.MatchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = fmt.Sprintf("%s->%s#%d", r.CandidateID, r.PositionID, r.Rank)
	}
	return out
}
