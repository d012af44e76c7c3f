package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/placement-allocator/pkg/core/services"
)

// StatsCmd creates the stats command
func StatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show allocation statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("stats command")

			database, err := app.Database()
			if err != nil {
				return err
			}

			stats, err := services.AllocationStats(app.Ctx, database, app.Logger)
			if err != nil {
				return err
			}

			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func printStats(w io.Writer, stats *services.Stats) {
	fmt.Fprintf(w, "\nAllocation statistics\n\n")
	fmt.Fprintf(w, "Total candidates: %d\n", stats.TotalCandidates)
	fmt.Fprintf(w, "Allocated:        %d\n", stats.Allocated)
	fmt.Fprintf(w, "Not allocated:    %d\n", stats.NotAllocated)
	fmt.Fprintf(w, "Success rate:     %.1f%%\n", stats.SuccessRate)
	if stats.Allocated > 0 {
		fmt.Fprintf(w, "Average score:    %s%.2f%s\n", scoreColor(stats.AverageScore), stats.AverageScore, colorReset)
	}

	if len(stats.ByOrganization) > 0 {
		fmt.Fprintf(w, "\nBy organization:\n")
		for _, o := range stats.ByOrganization {
			fmt.Fprintf(w, "  %-24s %d\n", o.OrganizationName, o.Count)
		}
	}
	fmt.Fprintln(w)
}
