package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

// StatsStore defines the database operations needed for allocation statistics
type StatsStore interface {
	CountCandidates(ctx context.Context) (int, error)
	GetAllocationDetails(ctx context.Context) ([]db.AllocationDetail, error)
}

// OrganizationCount is the number of candidates placed with one organization
type OrganizationCount struct {
	OrganizationID   string
	OrganizationName string
	Count            int
}

// Stats summarises the stored allocations
type Stats struct {
	TotalCandidates int
	Allocated       int
	NotAllocated    int

	// SuccessRate is the allocated percentage rounded to one decimal place
	SuccessRate float64

	// AverageScore is the mean match score rounded to two decimal places
	AverageScore float64

	// ByOrganization is sorted by descending count, then name
	ByOrganization []OrganizationCount
}

// AllocationStats computes allocation statistics
func AllocationStats(ctx context.Context, store StatsStore, logger *zap.Logger) (*Stats, error) {
	total, err := store.CountCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	details, err := store.GetAllocationDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch allocation details: %w", err)
	}

	stats := summarise(total, details)

	logger.Debug("Computed allocation stats",
		zap.Int("total", stats.TotalCandidates),
		zap.Int("allocated", stats.Allocated),
		zap.Float64("success_rate", stats.SuccessRate))

	return stats, nil
}

func summarise(total int, details []db.AllocationDetail) *Stats {
	stats := &Stats{
		TotalCandidates: total,
		Allocated:       len(details),
		NotAllocated:    max(total-len(details), 0),
		ByOrganization:  []OrganizationCount{},
	}

	if total > 0 {
		stats.SuccessRate = roundTo(float64(stats.Allocated)/float64(total)*100, 1)
	}

	counts := make(map[string]*OrganizationCount)
	var scoreSum float64
	for _, d := range details {
		scoreSum += d.Score

		c, ok := counts[d.OrganizationID]
		if !ok {
			c = &OrganizationCount{OrganizationID: d.OrganizationID, OrganizationName: d.OrganizationName}
			counts[d.OrganizationID] = c
		}
		c.Count++
	}

	if len(details) > 0 {
		stats.AverageScore = roundTo(scoreSum/float64(len(details)), 2)
	}

	for _, c := range counts {
		stats.ByOrganization = append(stats.ByOrganization, *c)
	}
	sort.Slice(stats.ByOrganization, func(i, j int) bool {
		a, b := stats.ByOrganization[i], stats.ByOrganization[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.OrganizationName < b.OrganizationName
	})

	return stats
}

func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(x*p) / p
}
