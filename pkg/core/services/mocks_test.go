package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/placement-allocator/internal/testfixtures"
	"github.com/jakechorley/placement-allocator/pkg/db"
)

// mockRosterSource implements RosterSource for testing
type mockRosterSource struct {
	candidates       []db.Candidate
	organizations    []db.Organization
	positions        []db.Position
	getCandidatesErr error
	getPositionsErr  error
}

func (m *mockRosterSource) GetCandidates(ctx context.Context) ([]db.Candidate, error) {
	if m.getCandidatesErr != nil {
		return nil, m.getCandidatesErr
	}
	return m.candidates, nil
}

func (m *mockRosterSource) GetOrganizations(ctx context.Context) ([]db.Organization, error) {
	return m.organizations, nil
}

func (m *mockRosterSource) GetPositions(ctx context.Context) ([]db.Position, error) {
	if m.getPositionsErr != nil {
		return nil, m.getPositionsErr
	}
	return m.positions, nil
}

// mockResumeSource implements ResumeSource for testing
type mockResumeSource struct {
	texts   map[string]string
	loadErr error
}

func (m *mockResumeSource) LoadResumes(ctx context.Context, candidates []db.Candidate) (map[string]string, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	texts := make(map[string]string)
	for _, c := range candidates {
		if text, ok := m.texts[c.ID]; ok {
			texts[c.ID] = text
		}
	}
	return texts, nil
}

// mockAllocationStore implements the allocation, stats and deallocation stores for testing
type mockAllocationStore struct {
	replaced     [][]db.Allocation
	replaceErr   error
	details      []db.AllocationDetail
	detailsErr   error
	candidates   int
	allocated    map[string]bool
	deleteErr    error
	upserted     []string
	upsertErr    error
	upsertedRows int

	upsertedCandidates []db.Candidate
}

func (m *mockAllocationStore) ReplaceAllocations(ctx context.Context, allocations []db.Allocation) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = append(m.replaced, allocations)
	return nil
}

func (m *mockAllocationStore) GetAllocationDetails(ctx context.Context) ([]db.AllocationDetail, error) {
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	return m.details, nil
}

func (m *mockAllocationStore) CountCandidates(ctx context.Context) (int, error) {
	return m.candidates, nil
}

func (m *mockAllocationStore) DeleteAllocation(ctx context.Context, candidateID string) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	if !m.allocated[candidateID] {
		return false, nil
	}
	delete(m.allocated, candidateID)
	return true, nil
}

func (m *mockAllocationStore) DeleteAllAllocations(ctx context.Context) (int, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	count := len(m.allocated)
	m.allocated = map[string]bool{}
	return count, nil
}

func (m *mockAllocationStore) GetCandidates(ctx context.Context) ([]db.Candidate, error) {
	return nil, nil
}

func (m *mockAllocationStore) UpsertCandidates(ctx context.Context, candidates []db.Candidate) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, "candidates")
	m.upsertedRows += len(candidates)
	m.upsertedCandidates = append(m.upsertedCandidates, candidates...)
	return nil
}

func (m *mockAllocationStore) UpsertOrganizations(ctx context.Context, organizations []db.Organization) error {
	m.upserted = append(m.upserted, "organizations")
	m.upsertedRows += len(organizations)
	return nil
}

func (m *mockAllocationStore) UpsertPositions(ctx context.Context, positions []db.Position) error {
	m.upserted = append(m.upserted, "positions")
	m.upsertedRows += len(positions)
	return nil
}

// mockGmailClient implements GmailClient for testing
type mockGmailClient struct {
	sentEmails []string
	subjects   []string
	bodies     []string
	failFor    map[string]bool
}

func (m *mockGmailClient) SendEmail(to, subject, body string) error {
	if m.failFor[to] {
		return fmt.Errorf("mailbox unavailable")
	}
	m.sentEmails = append(m.sentEmails, to)
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

// mockPublisher implements AllocationPublisher for testing
type mockPublisher struct {
	spreadsheetID string
	tab           string
	header        []interface{}
	rows          [][]interface{}
	publishErr    error
}

func (m *mockPublisher) PublishAllocations(spreadsheetID, tabTitle string, header []interface{}, rows [][]interface{}) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.spreadsheetID = spreadsheetID
	m.tab = tabTitle
	m.header = header
	m.rows = rows
	return nil
}

// mockSheetReader implements CandidateSheetReader for testing
type mockSheetReader struct {
	candidates []db.Candidate
	listErr    error
}

func (m *mockSheetReader) ListCandidates(spreadsheetID, tabTitle string) ([]db.Candidate, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.candidates, nil
}

// placementRoster is a small roster whose outcome is known:
// ds is placed at Insight Labs (74.93), web at Pixel Works (71.13), short is rejected
func placementRoster() (*mockRosterSource, *mockResumeSource) {
	source := &mockRosterSource{
		candidates: []db.Candidate{
			{ID: "ds", Name: "Priya Sharma", Email: "priya@example.com", GPA: 8.7, Domain: "Data Science", ExperienceYears: 1, ExtractedSkills: "Python, Pandas, SQL"},
			{ID: "short", Name: "Sam Short", Email: "sam@example.com", GPA: 9.9, Domain: "Data Science"},
			{ID: "web", Name: "Arjun Mehta", Email: "arjun@example.com", GPA: 7.9, Domain: "Web Development", ExperienceYears: 2, ExtractedSkills: "React, Node.js"},
		},
		organizations: []db.Organization{
			{ID: "org1", Name: "Insight Labs", Location: "Bengaluru"},
			{ID: "org2", Name: "Pixel Works"},
		},
		positions: []db.Position{
			{ID: "p1", OrganizationID: "org1", Domain: "data-science", RequiredSkills: "Python, SQL, Tableau, Spark", MinGPA: 7, Capacity: 2, Stipend: 20000},
			{ID: "p2", OrganizationID: "org2", Domain: "Web Development", RequiredSkills: "React, Node.js, Docker", MinGPA: 7.5, Capacity: 1, Stipend: 15000},
		},
	}

	resumes := &mockResumeSource{texts: map[string]string{
		"ds":    testfixtures.DataScienceResume,
		"web":   testfixtures.WebResume,
		"short": testfixtures.Short,
	}}

	return source, resumes
}
