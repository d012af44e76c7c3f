package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/placement-allocator/pkg/core/services"
)

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the stored allocations to the configured Google Sheets tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("export command")
			return runExport(cmd, app)
		},
	}
}

// NotifyCmd creates the notify command
func NotifyCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Email every allocated candidate their placement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("notify command")
			return runNotify(cmd, app)
		},
	}
}

func runExport(cmd *cobra.Command, app *AppContext) error {
	cfg, err := app.Config()
	if err != nil {
		return err
	}
	database, err := app.Database()
	if err != nil {
		return err
	}
	sheets, err := app.Sheets()
	if err != nil {
		return err
	}

	rows, err := services.ExportAllocations(app.Ctx, database, sheets, cfg, app.Logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n✓ Export completed!\n\n")
	fmt.Fprintf(out, "Rows written: %d\n", rows)
	fmt.Fprintf(out, "Sheet:        https://docs.google.com/spreadsheets/d/%s\n", cfg.ExportSheetID)
	fmt.Fprintf(out, "Tab:          %s\n\n", cfg.ExportTab)
	return nil
}

func runNotify(cmd *cobra.Command, app *AppContext) error {
	database, err := app.Database()
	if err != nil {
		return err
	}
	gmail, err := app.Gmail()
	if err != nil {
		return err
	}

	result, err := services.NotifyAllocations(app.Ctx, database, gmail, app.Logger)
	if err != nil {
		return err
	}

	printNotifyResult(cmd.OutOrStdout(), result)
	return nil
}

func printNotifyResult(w io.Writer, result *services.NotifyResult) {
	fmt.Fprintf(w, "\n✓ Notification completed!\n\n")

	if len(result.Sent) > 0 {
		fmt.Fprintf(w, "Emails sent to %d candidates:\n", len(result.Sent))
		for _, s := range result.Sent {
			fmt.Fprintf(w, "  ✓ %s (%s)\n", s.CandidateName, s.Email)
		}
		fmt.Fprintln(w)
	}

	if len(result.Failed) > 0 {
		fmt.Fprintf(w, "%s⚠️  Failed to send %d emails:%s\n", colorYellow, len(result.Failed), colorReset)
		for _, f := range result.Failed {
			fmt.Fprintf(w, "  ✗ %s (%s): %s\n", f.CandidateName, f.Email, f.Error)
		}
		fmt.Fprintln(w)
	}

	if len(result.Sent) == 0 && len(result.Failed) == 0 {
		fmt.Fprintln(w, "No allocations to notify.")
		fmt.Fprintln(w)
	}
}
