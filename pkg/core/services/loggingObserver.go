package services

import (
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/core/allocator"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
)

// LoggingObserver renders allocator events as structured log entries
type LoggingObserver struct {
	logger *zap.Logger
}

// NewLoggingObserver creates an observer that logs allocator events
func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) CandidateExcluded(e allocator.Exclusion) {
	o.logger.Info("Candidate excluded",
		zap.String("candidate_id", e.CandidateID),
		zap.String("kind", string(e.Issue.Kind)),
		zap.String("check", string(e.Check)),
		zap.String("reason", e.Issue.Reason))
}

func (o *LoggingObserver) PairIneligible(p allocator.IneligiblePair) {
	o.logger.Debug("Pair ineligible",
		zap.String("candidate_id", p.CandidateID),
		zap.String("position_id", p.PositionID),
		zap.String("gate", p.Gate),
		zap.String("reason", p.Issue.Reason))
}

func (o *LoggingObserver) PositionIssue(i allocator.PositionIssue) {
	o.logger.Warn("Position issue",
		zap.String("position_id", i.PositionID),
		zap.Int("position_index", i.PositionIndex),
		zap.String("kind", string(i.Issue.Kind)),
		zap.String("reason", i.Issue.Reason))
}

func (o *LoggingObserver) PositionRanked(p model.Position, ranked []allocator.RankedCandidate) {
	fields := []zap.Field{
		zap.String("position_id", p.ID),
		zap.String("organization_id", p.OrganizationID),
		zap.Int("ranked", len(ranked)),
	}
	if len(ranked) > 0 {
		fields = append(fields,
			zap.String("top_candidate_id", ranked[0].CandidateID),
			zap.Float64("top_score", ranked[0].Score))
	}
	o.logger.Debug("Position ranked", fields...)
}

func (o *LoggingObserver) CandidateAssigned(r model.MatchResult, round int) {
	o.logger.Debug("Candidate assigned",
		zap.String("candidate_id", r.CandidateID),
		zap.String("position_id", r.PositionID),
		zap.String("organization_id", r.OrganizationID),
		zap.Float64("score", r.Score),
		zap.Int("rank", r.Rank),
		zap.Int("round", round))
}

func (o *LoggingObserver) RoundCompleted(round, assignments int) {
	o.logger.Debug("Round completed",
		zap.Int("round", round),
		zap.Int("assignments", assignments))
}

func (o *LoggingObserver) PositionClosed(p model.Position, status allocator.PositionStatus, filled, capacity int) {
	o.logger.Debug("Position closed",
		zap.String("position_id", p.ID),
		zap.String("status", string(status)),
		zap.Int("filled", filled),
		zap.Int("capacity", capacity))
}

func (o *LoggingObserver) RunCompleted(outcome *allocator.AllocationOutcome) {
	o.logger.Info("Allocation completed",
		zap.Int("allocated", outcome.AllocatedCount()),
		zap.Int("eligible", outcome.EligibleCandidates),
		zap.Int("excluded", len(outcome.Exclusions)),
		zap.Int("unallocated", len(outcome.UnallocatedCandidates)),
		zap.Int("rounds", outcome.Rounds),
		zap.Int("validation_errors", len(outcome.ValidationErrors)))
}
