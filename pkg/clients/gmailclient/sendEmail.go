package gmailclient

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
)

// EmailInterval is the minimum gap between two sends, keeping bulk notification under Gmail's rate limits
const EmailInterval = 3 * time.Second

// SendEmail sends a plain text email with the specified subject and body
func (c *Client) SendEmail(to, subject, body string) error {
	release, err := c.throttle.wait(c.ctx)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer release()

	gmailMessage := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(buildMessage(c.sender, to, subject, body))),
	}

	if _, err := c.service.Users.Messages.Send(c.userID, gmailMessage).Context(c.ctx).Do(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildMessage renders an RFC 2822 message.
// Allocation emails carry non-ASCII text (the rupee sign), so the subject is Q-encoded and the body declared UTF-8.
func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\r\n", "\n"))
	return b.String()
}
