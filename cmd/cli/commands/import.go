package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/core/services"
	"github.com/jakechorley/placement-allocator/pkg/resumes"
	"github.com/jakechorley/placement-allocator/pkg/roster"
)

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import candidates, organizations and positions into the database",
		Long: `Import a YAML roster file (organizations, positions and candidates) or a
candidate sheet from Google Sheets. Existing records with the same ID are updated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterPath, _ := cmd.Flags().GetString("roster")
			sheetID, _ := cmd.Flags().GetString("sheet-id")
			tab, _ := cmd.Flags().GetString("tab")
			extract, _ := cmd.Flags().GetBool("extract-skills")

			app.Logger.Debug("import command",
				zap.String("roster", rosterPath),
				zap.String("sheet_id", sheetID),
				zap.String("tab", tab),
				zap.Bool("extract_skills", extract))

			if (rosterPath == "") == (sheetID == "") {
				return fmt.Errorf("exactly one of --roster or --sheet-id is required")
			}

			database, err := app.Database()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if sheetID != "" {
				sheets, err := app.Sheets()
				if err != nil {
					return err
				}

				count, err := services.ImportCandidateSheet(app.Ctx, sheets, database, app.Logger, sheetID, tab)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "\n✓ Import completed!\n\n")
				fmt.Fprintf(out, "Candidates: %d\n\n", count)
				return nil
			}

			r, err := roster.Load(rosterPath)
			if err != nil {
				return err
			}

			var resumeSource services.ResumeSource
			if extract {
				resumeDir, _ := cmd.Flags().GetString("resume-dir")
				if resumeDir == "" {
					cfg, err := app.Config()
					if err != nil {
						return err
					}
					resumeDir = cfg.ResumeDir
				}
				resumeSource = resumes.NewLoader(resumeDir, app.Logger)
			}

			result, err := services.ImportRoster(app.Ctx, r, resumeSource, database, app.Logger)
			if err != nil {
				return err
			}

			printImportResult(cmd, result, extract)
			return nil
		},
	}

	cmd.Flags().String("roster", "", "YAML roster file to import")
	cmd.Flags().String("sheet-id", "", "Spreadsheet ID holding a candidate sheet")
	cmd.Flags().String("tab", "Candidates", "Tab name of the candidate sheet")
	cmd.Flags().Bool("extract-skills", false, "Fill missing extracted skills from each candidate's resume")
	cmd.Flags().String("resume-dir", "", "Directory of resume text files (defaults to resumeDir from config)")

	return cmd
}

func printImportResult(cmd *cobra.Command, result *services.ImportResult, extract bool) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\n✓ Import completed!\n\n")
	fmt.Fprintf(out, "Organizations: %d\n", result.Organizations)
	fmt.Fprintf(out, "Positions:     %d\n", result.Positions)
	fmt.Fprintf(out, "Candidates:    %d\n", result.Candidates)
	if extract {
		fmt.Fprintf(out, "Skills filled: %d\n", result.SkillsExtracted)
	}
	fmt.Fprintln(out)
}
