package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

func allocationDetail(candidateID, name, email string) db.AllocationDetail {
	return db.AllocationDetail{
		Allocation: db.Allocation{
			CandidateID:    candidateID,
			PositionID:     "p1",
			OrganizationID: "org1",
			Score:          74.93,
			Rank:           2,
		},
		CandidateName:    name,
		CandidateEmail:   email,
		OrganizationName: "Insight Labs",
		Domain:           "Data Science",
		Stipend:          25000,
		Location:         "Pune",
	}
}

func TestAllocationEmail(t *testing.T) {
	subject, body := AllocationEmail(allocationDetail("c1", "Priya Sharma", "priya@example.com"))

	assert.Equal(t, "Congratulations! Internship Allocation Confirmed - Insight Labs", subject)
	assert.Contains(t, body, "Congratulations, Priya Sharma!")
	assert.Contains(t, body, "Company: Insight Labs\n")
	assert.Contains(t, body, "Domain/Role: Data Science\n")
	assert.Contains(t, body, "Stipend: ₹25,000/month\n")
	assert.Contains(t, body, "Location: Pune\n")
	assert.Contains(t, body, "Your Allocation Rank: #2\n")

	// Score is truncated, not rounded
	assert.Contains(t, body, "ATS Match Score: 74/100\n")
}

func TestAllocationEmail_UnknownLocation(t *testing.T) {
	d := allocationDetail("c1", "Priya Sharma", "priya@example.com")
	d.Location = ""

	_, body := AllocationEmail(d)
	assert.Contains(t, body, "Location: Not specified\n")
}

func TestSendAllocationEmails_PartialFailure(t *testing.T) {
	details := []db.AllocationDetail{
		allocationDetail("c1", "Priya Sharma", "priya@example.com"),
		allocationDetail("c2", "Arjun Mehta", "arjun@example.com"),
		allocationDetail("c3", "No Email", ""),
	}
	gmail := &mockGmailClient{failFor: map[string]bool{"arjun@example.com": true}}

	result, err := SendAllocationEmails(details, gmail, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"priya@example.com"}, gmail.sentEmails)
	require.Len(t, result.Sent, 1)
	assert.Equal(t, "c1", result.Sent[0].CandidateID)

	require.Len(t, result.Failed, 2)
	assert.Equal(t, FailedEmail{
		CandidateID:   "c2",
		CandidateName: "Arjun Mehta",
		Email:         "arjun@example.com",
		Error:         "mailbox unavailable",
	}, result.Failed[0])
	assert.Equal(t, "no email address", result.Failed[1].Error)
}

func TestSendAllocationEmails_AllFail(t *testing.T) {
	details := []db.AllocationDetail{allocationDetail("c1", "Priya Sharma", "priya@example.com")}
	gmail := &mockGmailClient{failFor: map[string]bool{"priya@example.com": true}}

	result, err := SendAllocationEmails(details, gmail, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 1 allocation email send attempts failed")
	require.NotNil(t, result)
	assert.Len(t, result.Failed, 1)
}

func TestSendAllocationEmails_NoAllocations(t *testing.T) {
	gmail := &mockGmailClient{}

	result, err := SendAllocationEmails(nil, gmail, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, result.Sent)
	assert.Empty(t, result.Failed)
	assert.Empty(t, gmail.sentEmails)
}

func TestNotifyAllocations_ReadsStore(t *testing.T) {
	store := &mockAllocationStore{details: []db.AllocationDetail{
		allocationDetail("c1", "Priya Sharma", "priya@example.com"),
	}}
	gmail := &mockGmailClient{}

	result, err := NotifyAllocations(context.Background(), store, gmail, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, result.Sent, 1)
	assert.Equal(t, []string{"Congratulations! Internship Allocation Confirmed - Insight Labs"}, gmail.subjects)
}

func TestNotifyAllocations_StoreError(t *testing.T) {
	store := &mockAllocationStore{detailsErr: errors.New("timeout")}

	_, err := NotifyAllocations(context.Background(), store, &mockGmailClient{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch allocation details")
}
