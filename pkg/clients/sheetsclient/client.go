package sheetsclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/placement-allocator/internal/config"
	"github.com/jakechorley/placement-allocator/pkg/utils"
)

// valueInput keeps IDs and scores exactly as written instead of letting Sheets parse them
const valueInput = "RAW"

// Client reads candidate sheets and writes allocation exports through the Sheets API
type Client struct {
	service *sheets.Service
	token   *oauth2.Token
	ctx     context.Context
	logger  *zap.Logger
}

// NewClient runs the OAuth flow if no usable token is stored for env and creates a Sheets client.
// The token carries the gmail scope as well so the gmail client can share it.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env string, logger *zap.Logger) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig, env, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		token:   token,
		ctx:     ctx,
		logger:  logger,
	}, nil
}

// Token returns the OAuth token used by this client
func (c *Client) Token() *oauth2.Token {
	return c.token
}

// GetValues reads values from a range in A1 notation
func (c *Client) GetValues(spreadsheetID, a1Range string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, a1Range).Context(c.ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	c.logger.Debug("Read sheet values",
		zap.String("range", a1Range),
		zap.Int("rows", len(resp.Values)))
	return resp.Values, nil
}

// UpdateValues overwrites values starting at the top-left cell of a1Range
func (c *Client) UpdateValues(spreadsheetID, a1Range string, values [][]interface{}) error {
	resp, err := c.service.Spreadsheets.Values.Update(spreadsheetID, a1Range, &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInput).
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update values: %w", err)
	}

	c.logger.Debug("Wrote sheet values",
		zap.String("range", resp.UpdatedRange),
		zap.Int64("cells", resp.UpdatedCells))
	return nil
}

// ClearValues removes every value in a range, leaving formatting intact
func (c *Client) ClearValues(spreadsheetID, a1Range string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, a1Range, &sheets.ClearValuesRequest{}).
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear values: %w", err)
	}

	return nil
}

// TabTitles lists the titles of every tab in the spreadsheet
func (c *Client) TabTitles(spreadsheetID string) ([]string, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(c.ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	return tabTitles(spreadsheet), nil
}

// AddTab creates a tab and returns its sheet ID
func (c *Client) AddTab(spreadsheetID, title string) (int64, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(c.ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to add tab: %w", err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("unexpected response from add tab")
	}

	c.logger.Info("Created sheet tab", zap.String("tab", title))
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func tabTitles(spreadsheet *sheets.Spreadsheet) []string {
	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles
}
