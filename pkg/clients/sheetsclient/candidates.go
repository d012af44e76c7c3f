package sheetsclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

// Expected column names in the candidates sheet
var candidateFields = []string{
	"Candidate ID",
	"Name",
	"Email",
	"Skills",
	"GPA",
	"Domain",
	"Experience Years",
}

// Columns read when present
var optionalCandidateFields = []string{
	"Extracted Skills",
	"Resume File",
}

// ListCandidates retrieves and parses candidates from a spreadsheet tab
func (c *Client) ListCandidates(spreadsheetID, tabTitle string) ([]db.Candidate, error) {
	values, err := c.GetValues(spreadsheetID, quoteTab(tabTitle))
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	candidates, err := parseCandidates(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse candidates: %w", err)
	}

	return candidates, nil
}

// parseCandidates converts raw spreadsheet data into Candidate records
func parseCandidates(raw [][]interface{}) ([]db.Candidate, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	// Build field index map from header row
	fieldIndexes := make(map[string]int)
	headerRow := raw[0]

	indexOf := func(field string) int {
		for i, cell := range headerRow {
			if strings.TrimSpace(cellString(cell)) == field {
				return i
			}
		}
		return -1
	}

	for _, field := range candidateFields {
		index := indexOf(field)
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}
	for _, field := range optionalCandidateFields {
		if index := indexOf(field); index != -1 {
			fieldIndexes[field] = index
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(cellString(row[index]))
	}

	candidates := make([]db.Candidate, 0, len(raw)-1)
	seen := make(map[string]int)
	for i := 1; i < len(raw); i++ {
		row := raw[i]
		sheetRow := i + 1

		id := getField("Candidate ID", row)
		// Skip empty rows
		if id == "" {
			continue
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate candidate ID %s in rows %d and %d", id, prev, sheetRow)
		}
		seen[id] = sheetRow

		gpa, err := parseNumber(getField("GPA", row))
		if err != nil {
			return nil, fmt.Errorf("invalid GPA for candidate %s in row %d: %w", id, sheetRow, err)
		}
		experience, err := parseNumber(getField("Experience Years", row))
		if err != nil {
			return nil, fmt.Errorf("invalid experience for candidate %s in row %d: %w", id, sheetRow, err)
		}

		candidates = append(candidates, db.Candidate{
			ID:              id,
			Name:            getField("Name", row),
			Email:           getField("Email", row),
			DeclaredSkills:  getField("Skills", row),
			GPA:             gpa,
			Domain:          getField("Domain", row),
			ExperienceYears: int(experience),
			ExtractedSkills: getField("Extracted Skills", row),
			ResumeFile:      getField("Resume File", row),
		})
	}

	return candidates, nil
}

// cellString renders a cell value; the API returns formatted strings but numbers can appear
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// parseNumber reads a numeric cell; blank cells are zero
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
