package gmailclient

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/jakechorley/placement-allocator/internal/config"
	"github.com/jakechorley/placement-allocator/pkg/utils"
)

const defaultUserID = "me"

// Client sends allocation emails through the Gmail API
type Client struct {
	service  *gmail.Service
	ctx      context.Context
	userID   string
	sender   string
	throttle *throttle
}

// NewClient creates a Gmail client from a token obtained by the sheets client.
// The token must already carry the gmail.send scope.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, token *oauth2.Token, cfg *config.Config) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	c := &Client{
		service:  service,
		ctx:      ctx,
		userID:   defaultUserID,
		throttle: newThrottle(EmailInterval),
	}
	if cfg != nil {
		if cfg.GmailUserID != "" {
			c.userID = cfg.GmailUserID
		}
		c.sender = cfg.GmailSender
	}
	return c, nil
}
