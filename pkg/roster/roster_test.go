package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

const sampleRoster = `
organizations:
  - id: org1
    name: Insight Labs
    email: hr@insight.example.com
    location: Bengaluru
    positions:
      - id: p1
        domain: Data Science
        requiredSkills: Python, SQL, Tableau
        minGPA: 7
        capacity: 2
        stipend: 20000
  - id: org2
    name: Pixel Works
    positions:
      - id: p2
        domain: Web Development
        requiredSkills: React, Node.js
        capacity: 1
candidates:
  - id: c1
    name: " Priya Sharma "
    email: priya@example.com
    skills: Python, Pandas
    gpa: 8.7
    domain: Data Science
    experienceYears: 1
    resumeFile: priya.txt
  - id: c2
    name: Arjun Mehta
    gpa: 7.9
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sampleRoster))
	require.NoError(t, err)

	ctx := context.Background()

	orgs, err := r.GetOrganizations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []db.Organization{
		{ID: "org1", Name: "Insight Labs", Email: "hr@insight.example.com", Location: "Bengaluru"},
		{ID: "org2", Name: "Pixel Works"},
	}, orgs)

	positions, err := r.GetPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, db.Position{
		ID:             "p1",
		OrganizationID: "org1",
		Domain:         "Data Science",
		RequiredSkills: "Python, SQL, Tableau",
		MinGPA:         7,
		Capacity:       2,
		Stipend:        20000,
	}, positions[0])
	assert.Equal(t, "org2", positions[1].OrganizationID)

	candidates, err := r.GetCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Priya Sharma", candidates[0].Name)
	assert.Equal(t, "Python, Pandas", candidates[0].DeclaredSkills)
	assert.Equal(t, "priya.txt", candidates[0].ResumeFile)
	assert.Equal(t, 1, candidates[0].ExperienceYears)
	assert.Empty(t, candidates[1].ResumeFile)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "duplicate candidate",
			yaml: `
candidates:
  - {id: c1, name: A, gpa: 8}
  - {id: c1, name: B, gpa: 7}
`,
		},
		{
			name: "gpa out of range",
			yaml: `
candidates:
  - {id: c1, name: A, gpa: 11}
`,
		},
		{
			name: "invalid email",
			yaml: `
candidates:
  - {id: c1, name: A, email: not-an-email, gpa: 8}
`,
		},
		{
			name: "position without domain",
			yaml: `
organizations:
  - id: org1
    name: Insight Labs
    positions:
      - {id: p1, capacity: 1}
`,
		},
		{
			name: "position shared across organizations",
			yaml: `
organizations:
  - id: org1
    name: Insight Labs
    positions:
      - {id: p1, domain: Web Development, capacity: 1}
  - id: org2
    name: Pixel Works
    positions:
      - {id: p1, domain: Web Development, capacity: 1}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "roster validation failed")
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("candidates: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse roster")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRoster), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, r.Candidates, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read roster file")
}
