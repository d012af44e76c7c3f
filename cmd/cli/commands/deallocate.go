package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/core/services"
)

// DeallocateCmd creates the deallocate command
func DeallocateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deallocate [candidate_id]",
		Short: "Remove one candidate's allocation, or every allocation with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")

			if all == (len(args) == 1) {
				return fmt.Errorf("pass either a candidate ID or --all")
			}

			database, err := app.Database()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if all {
				app.Logger.Debug("deallocate command", zap.Bool("all", true))

				count, err := services.DeallocateAll(app.Ctx, database, app.Logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n✓ Removed %d allocations\n\n", count)
				return nil
			}

			candidateID := args[0]
			app.Logger.Debug("deallocate command", zap.String("candidate_id", candidateID))

			err = services.Deallocate(app.Ctx, database, app.Logger, candidateID)
			if errors.Is(err, services.ErrCandidateNotAllocated) {
				fmt.Fprintf(out, "\n%s%s is not allocated%s\n\n", colorYellow, candidateID, colorReset)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\n✓ Deallocated %s\n\n", candidateID)
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Remove every allocation")

	return cmd
}
