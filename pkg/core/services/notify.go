package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

const unknownLocation = "Not specified"

var amountPrinter = message.NewPrinter(language.English)

// AllocationDetailsReader defines the database operation needed to notify or export allocations
type AllocationDetailsReader interface {
	GetAllocationDetails(ctx context.Context) ([]db.AllocationDetail, error)
}

// EmailSent represents a candidate who was successfully notified
type EmailSent struct {
	CandidateID   string
	CandidateName string
	Email         string
}

// FailedEmail represents a candidate whose notification could not be sent
type FailedEmail struct {
	CandidateID   string
	CandidateName string
	Email         string
	Error         string
}

// NotifyResult contains per-recipient outcomes of a notification run
type NotifyResult struct {
	Sent   []EmailSent
	Failed []FailedEmail
}

// NotifyAllocations emails every stored allocation to its candidate
func NotifyAllocations(
	ctx context.Context,
	store AllocationDetailsReader,
	gmailClient GmailClient,
	logger *zap.Logger,
) (*NotifyResult, error) {
	logger.Debug("Fetching allocation details")
	details, err := store.GetAllocationDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch allocation details: %w", err)
	}

	return SendAllocationEmails(details, gmailClient, logger)
}

// SendAllocationEmails sends one confirmation email per allocation.
// Failures are collected per recipient; an error is returned only when every send fails.
func SendAllocationEmails(details []db.AllocationDetail, gmailClient GmailClient, logger *zap.Logger) (*NotifyResult, error) {
	result := &NotifyResult{
		Sent:   []EmailSent{},
		Failed: []FailedEmail{},
	}

	if len(details) == 0 {
		logger.Info("No allocations to notify")
		return result, nil
	}

	for _, d := range details {
		if d.CandidateEmail == "" {
			logger.Warn("Candidate has no email address", zap.String("candidate_id", d.CandidateID))
			result.Failed = append(result.Failed, FailedEmail{
				CandidateID:   d.CandidateID,
				CandidateName: d.CandidateName,
				Error:         "no email address",
			})
			continue
		}

		subject, body := AllocationEmail(d)

		logger.Info("Sending allocation email",
			zap.String("candidate_id", d.CandidateID),
			zap.String("email", d.CandidateEmail))

		if err := gmailClient.SendEmail(d.CandidateEmail, subject, body); err != nil {
			logger.Warn("Failed to send allocation email",
				zap.String("candidate_id", d.CandidateID),
				zap.String("email", d.CandidateEmail),
				zap.Error(err))

			result.Failed = append(result.Failed, FailedEmail{
				CandidateID:   d.CandidateID,
				CandidateName: d.CandidateName,
				Email:         d.CandidateEmail,
				Error:         err.Error(),
			})
			continue
		}

		result.Sent = append(result.Sent, EmailSent{
			CandidateID:   d.CandidateID,
			CandidateName: d.CandidateName,
			Email:         d.CandidateEmail,
		})
	}

	if len(result.Failed) == len(details) {
		return result, fmt.Errorf("all %d allocation email send attempts failed", len(result.Failed))
	}

	logger.Debug("Allocation emails completed",
		zap.Int("sent", len(result.Sent)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}

// AllocationEmail builds the subject and plain-text body of an allocation confirmation.
// The match score is shown truncated to a whole number.
func AllocationEmail(d db.AllocationDetail) (string, string) {
	location := d.Location
	if location == "" {
		location = unknownLocation
	}
	score := int(d.Score)

	subject := fmt.Sprintf("Congratulations! Internship Allocation Confirmed - %s", d.OrganizationName)
	body := fmt.Sprintf("Congratulations, %s!\n\nYou have been allocated an internship.\n\n"+
		"INTERNSHIP DETAILS\n"+
		"Company: %s\n"+
		"Domain/Role: %s\n"+
		"Stipend: %s/month\n"+
		"Location: %s\n"+
		"Your Allocation Rank: #%d\n"+
		"ATS Match Score: %d/100\n\n"+
		"The company will contact you soon with further details.\n\n"+
		"This is an automated notification. If you have any questions, please contact the placement office.\n",
		d.CandidateName, d.OrganizationName, d.Domain, formatStipend(d.Stipend), location, d.Rank, score)

	return subject, body
}

func formatStipend(amount int) string {
	return amountPrinter.Sprintf("₹%d", amount)
}
