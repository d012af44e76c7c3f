package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/core/matching"
	"github.com/jakechorley/placement-allocator/pkg/core/services"
	"github.com/jakechorley/placement-allocator/pkg/resumes"
	"github.com/jakechorley/placement-allocator/pkg/roster"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate candidates to positions round-robin",
		Long: `Screens every candidate's resume, scores each candidate against each position
and assigns candidates round-robin across positions until every position is full
or out of candidates. The new allocations replace any stored ones.

Use --roster with --dry-run to try a YAML roster file without touching the database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			forceCommit, _ := cmd.Flags().GetBool("force")
			rosterPath, _ := cmd.Flags().GetString("roster")
			resumeDir, _ := cmd.Flags().GetString("resume-dir")
			export, _ := cmd.Flags().GetBool("export")
			notify, _ := cmd.Flags().GetBool("notify")
			showDetails, _ := cmd.Flags().GetBool("details")

			app.Logger.Debug("allocate command",
				zap.Bool("dry_run", dryRun),
				zap.Bool("force_commit", forceCommit),
				zap.String("roster", rosterPath),
				zap.Bool("export", export),
				zap.Bool("notify", notify))

			if rosterPath != "" && !dryRun {
				return fmt.Errorf("--roster runs must use --dry-run (import the roster to persist allocations)")
			}
			if dryRun && (export || notify) {
				return fmt.Errorf("--export and --notify need saved allocations and cannot be combined with --dry-run")
			}

			var (
				source  services.RosterSource
				store   services.AllocationWriter
				weights matching.Weights
			)

			if rosterPath != "" {
				r, err := roster.Load(rosterPath)
				if err != nil {
					return err
				}
				source = r
			} else {
				database, err := app.Database()
				if err != nil {
					return err
				}
				source = database
				store = database
			}

			var resumeSource services.ResumeSource
			if resumeDir != "" && rosterPath != "" {
				// Fully offline: no config file needed
				resumeSource = resumes.NewLoader(resumeDir, app.Logger)
			} else {
				cfg, err := app.Config()
				if err != nil {
					return err
				}
				weights = cfg.MatchingWeights()
				if resumeDir == "" {
					resumeDir = cfg.ResumeDir
				}
				resumeSource = resumes.NewLoader(resumeDir, app.Logger)
			}

			result, err := services.Allocate(app.Ctx, source, resumeSource, store, app.Logger, services.AllocateOptions{
				DryRun:      dryRun,
				ForceCommit: forceCommit,
				Weights:     weights,
			})
			if err != nil {
				return err
			}

			printAllocationReport(cmd.OutOrStdout(), result, showDetails)

			if !result.Saved {
				return nil
			}

			if export {
				if err := runExport(cmd, app); err != nil {
					return err
				}
			}
			if notify {
				if err := runNotify(cmd, app); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.Flags().Bool("force", false, "Save allocations even if validation fails")
	cmd.Flags().String("roster", "", "Read candidates and positions from a YAML roster file (requires --dry-run)")
	cmd.Flags().String("resume-dir", "", "Directory of resume text files (defaults to resumeDir from config)")
	cmd.Flags().Bool("export", false, "Export the saved allocations to the configured sheet")
	cmd.Flags().Bool("notify", false, "Email every allocated candidate")
	cmd.Flags().Bool("details", false, "List every exclusion and ineligible pair")

	return cmd
}

func printAllocationReport(w io.Writer, result *services.AllocateResult, showDetails bool) {
	outcome := result.Outcome

	switch {
	case result.Saved:
		fmt.Fprintf(w, "\n✓ Allocation completed and saved!\n\n")
	case result.Success():
		fmt.Fprintf(w, "\n✓ Allocation completed (not saved)\n\n")
	default:
		fmt.Fprintf(w, "\n%s✗ Allocation failed validation (not saved, use --force to save anyway)%s\n\n", colorRed, colorReset)
	}

	totalCandidates := len(result.Candidates)
	fmt.Fprintf(w, "Run ID:         %s\n", result.RunID)
	fmt.Fprintf(w, "Candidates:     %d (%d eligible, %d excluded)\n", totalCandidates, outcome.EligibleCandidates, len(outcome.Exclusions))
	fmt.Fprintf(w, "Allocated:      %d\n", outcome.AllocatedCount())
	fmt.Fprintf(w, "Not allocated:  %d\n", totalCandidates-outcome.AllocatedCount())
	fmt.Fprintf(w, "Rounds:         %d\n\n", outcome.Rounds)

	if len(outcome.Assignments) > 0 {
		fmt.Fprintf(w, "Assignments:\n")
		for _, a := range outcome.Assignments {
			name := result.Candidates[a.CandidateID].Name
			if name == "" {
				name = a.CandidateID
			}
			fmt.Fprintf(w, "  %-24s → %-12s %-14s rank %-3d %s%6.2f%s\n",
				name,
				a.PositionID,
				organizationLabel(result, a.OrganizationID),
				a.Rank,
				scoreColor(a.Score), a.Score, colorReset)
		}
		fmt.Fprintln(w)
	}

	if len(outcome.Positions) > 0 {
		fmt.Fprintf(w, "Positions:\n")
		for _, p := range outcome.Positions {
			fmt.Fprintf(w, "  %-12s %-20s %d/%d filled  %-9s (%d scored)\n",
				p.PositionID, p.Domain, p.Filled, p.Capacity, p.Status, p.Candidates)
		}
		fmt.Fprintln(w)
	}

	if len(outcome.OrganizationDistribution) > 0 {
		fmt.Fprintf(w, "By organization:\n")
		for _, org := range sortedKeys(outcome.OrganizationDistribution) {
			fmt.Fprintf(w, "  %-24s %d\n", organizationLabel(result, org), outcome.OrganizationDistribution[org])
		}
		fmt.Fprintln(w)
	}

	if len(outcome.Exclusions) > 0 {
		fmt.Fprintf(w, "%sExcluded candidates (%d):%s\n", colorYellow, len(outcome.Exclusions), colorReset)
		for _, e := range outcome.Exclusions {
			fmt.Fprintf(w, "  ✗ %s: %s\n", e.CandidateID, e.Issue.Reason)
		}
		fmt.Fprintln(w)
	}

	if len(outcome.PositionIssues) > 0 {
		for _, pi := range outcome.PositionIssues {
			fmt.Fprintf(w, "%s⚠ %s: %s%s\n", colorYellow, pi.PositionID, pi.Issue.Reason, colorReset)
		}
		fmt.Fprintln(w)
	}

	if showDetails && len(outcome.IneligiblePairs) > 0 {
		fmt.Fprintf(w, "%sIneligible pairs (%d):%s\n", colorGray, len(outcome.IneligiblePairs), colorReset)
		for _, p := range outcome.IneligiblePairs {
			fmt.Fprintf(w, "  %s × %s [%s] %s\n", p.CandidateID, p.PositionID, p.Gate, p.Issue.Reason)
		}
		fmt.Fprintln(w)
	}

	if len(outcome.ValidationErrors) > 0 {
		fmt.Fprintf(w, "%sValidation errors:%s\n", colorRed, colorReset)
		for _, v := range outcome.ValidationErrors {
			fmt.Fprintf(w, "  ✗ %s\n", v.Error())
		}
		fmt.Fprintln(w)
	}
}

func organizationLabel(result *services.AllocateResult, id string) string {
	if org, ok := result.Organizations[id]; ok && org.Name != "" {
		return org.Name
	}
	return id
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
