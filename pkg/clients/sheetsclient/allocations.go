package sheetsclient

import (
	"fmt"
	"slices"
)

// PublishAllocations writes the allocation table to tabTitle, replacing whatever it held.
// The tab is created when it does not exist yet.
func (c *Client) PublishAllocations(
	spreadsheetID string,
	tabTitle string,
	header []interface{},
	rows [][]interface{},
) error {
	titles, err := c.TabTitles(spreadsheetID)
	if err != nil {
		return err
	}

	if slices.Contains(titles, tabTitle) {
		// A shorter run must leave no stale rows behind
		if err := c.ClearValues(spreadsheetID, allColumns(tabTitle)); err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else if _, err := c.AddTab(spreadsheetID, tabTitle); err != nil {
		return err
	}

	if err := c.UpdateValues(spreadsheetID, topLeft(tabTitle), allocationTable(header, rows)); err != nil {
		return fmt.Errorf("failed to write allocations: %w", err)
	}

	return nil
}

// allocationTable puts the header above the data rows
func allocationTable(header []interface{}, rows [][]interface{}) [][]interface{} {
	table := make([][]interface{}, 0, len(rows)+1)
	table = append(table, header)
	return append(table, rows...)
}

func allColumns(tabTitle string) string {
	return fmt.Sprintf("%s!A:ZZ", quoteTab(tabTitle))
}

func topLeft(tabTitle string) string {
	return fmt.Sprintf("%s!A1", quoteTab(tabTitle))
}

// quoteTab wraps a tab title in single quotes for A1 notation, doubling embedded quotes
func quoteTab(title string) string {
	quoted := make([]rune, 0, len(title)+2)
	quoted = append(quoted, '\'')
	for _, r := range title {
		if r == '\'' {
			quoted = append(quoted, '\'')
		}
		quoted = append(quoted, r)
	}
	return string(append(quoted, '\''))
}
