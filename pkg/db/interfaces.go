package db

import "context"

// CandidateStore defines the interface for candidate database operations
type CandidateStore interface {
	GetCandidates(ctx context.Context) ([]Candidate, error)
	CountCandidates(ctx context.Context) (int, error)
	UpsertCandidates(ctx context.Context, candidates []Candidate) error
}

// PositionStore defines the interface for organization and position database operations
type PositionStore interface {
	GetOrganizations(ctx context.Context) ([]Organization, error)
	GetPositions(ctx context.Context) ([]Position, error)
	UpsertOrganizations(ctx context.Context, organizations []Organization) error
	UpsertPositions(ctx context.Context, positions []Position) error
}

// AllocationStore defines the interface for allocation database operations
type AllocationStore interface {
	GetAllocations(ctx context.Context) ([]Allocation, error)
	GetAllocationDetails(ctx context.Context) ([]AllocationDetail, error)

	// ReplaceAllocations removes every existing allocation and inserts the given ones atomically
	ReplaceAllocations(ctx context.Context, allocations []Allocation) error

	// DeleteAllocation removes the candidate's allocation and reports whether one existed
	DeleteAllocation(ctx context.Context, candidateID string) (bool, error)

	// DeleteAllAllocations removes every allocation and returns how many were removed
	DeleteAllAllocations(ctx context.Context) (int, error)
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	CandidateStore
	PositionStore
	AllocationStore
}
