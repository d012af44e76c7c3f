package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/core/ats"
	"github.com/jakechorley/placement-allocator/pkg/core/screening"
	"github.com/jakechorley/placement-allocator/pkg/core/skills"
)

// ValidateResumeCmd creates the validateResume command
func ValidateResumeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validateResume <file|->",
		Short: "Check whether a resume is admissible (length, spam, gibberish, structure)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("validateResume command", zap.String("file", args[0]))

			text, err := readResume(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			verdict := screening.Validate(text)
			printVerdict(cmd.OutOrStdout(), verdict, screening.SectionsFound(text))
			return nil
		},
	}
}

// ExtractSkillsCmd creates the extractSkills command
func ExtractSkillsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extractSkills <file|->",
		Short: "List the catalog skills mentioned in a resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("extractSkills command", zap.String("file", args[0]))

			text, err := readResume(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			printSkills(cmd.OutOrStdout(), skills.Extract(text))
			return nil
		},
	}
}

// ScoreResumeCmd creates the scoreResume command
func ScoreResumeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scoreResume <file|->",
		Short: "Score a resume's content against a job domain and required skills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, _ := cmd.Flags().GetString("domain")
			required, _ := cmd.Flags().GetString("required-skills")

			app.Logger.Debug("scoreResume command",
				zap.String("file", args[0]),
				zap.String("domain", domain),
				zap.String("required_skills", required))

			text, err := readResume(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			score, breakdown := ats.Score(text, ats.Job{Domain: domain, RequiredSkills: required})
			printBreakdown(cmd.OutOrStdout(), score, breakdown)
			return nil
		},
	}

	cmd.Flags().String("domain", "", "Job domain (e.g. \"Data Science\")")
	cmd.Flags().String("required-skills", "", "Comma-separated required skills")
	cmd.MarkFlagRequired("domain")

	return cmd
}

// AnalyzeResumeCmd creates the analyzeResume command
func AnalyzeResumeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyzeResume <file|->",
		Short: "Score a resume against every skill its domain expects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, _ := cmd.Flags().GetString("domain")

			app.Logger.Debug("analyzeResume command",
				zap.String("file", args[0]),
				zap.String("domain", domain))

			text, err := readResume(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			score, breakdown := ats.AnalyzeResumeQuality(text, domain)
			printBreakdown(cmd.OutOrStdout(), score, breakdown)
			return nil
		},
	}

	cmd.Flags().String("domain", "", "The candidate's domain")
	cmd.MarkFlagRequired("domain")

	return cmd
}

func printVerdict(w io.Writer, verdict screening.Verdict, sections int) {
	if verdict.Rejected {
		fmt.Fprintf(w, "\n%s✗ Resume rejected%s (%s)\n", colorRed, colorReset, verdict.Check)
	} else {
		fmt.Fprintf(w, "\n%s✓ Resume accepted%s\n", colorGreen, colorReset)
	}
	fmt.Fprintf(w, "Reason:   %s\n", verdict.Reason)
	fmt.Fprintf(w, "Sections: %d\n\n", sections)
}

func printSkills(w io.Writer, found []string) {
	if len(found) == 0 {
		fmt.Fprintf(w, "\nNo catalog skills found.\n\n")
		return
	}

	fmt.Fprintf(w, "\nFound %d skills:\n", len(found))
	for _, s := range found {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	fmt.Fprintln(w)
}

func printBreakdown(w io.Writer, score int, b ats.Breakdown) {
	fmt.Fprintf(w, "\nATS score: %s%d/%d%s\n\n", scoreColor(float64(score)), score, ats.MaxScore, colorReset)

	rows := []struct {
		label string
		value int
		max   int
	}{
		{"Resume quality", b.ResumeQuality, ats.MaxResumeQuality},
		{"Keyword match", b.KeywordMatch, ats.MaxKeywordMatch},
		{"Skill match", b.SkillMatch, ats.MaxSkillMatch},
		{"Experience", b.ExperienceSignals, ats.MaxExperienceSignals},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-16s %s %2d/%d\n", r.label, bar(r.value, r.max, 20), r.value, r.max)
	}

	if len(b.Trace) > 0 {
		fmt.Fprintf(w, "\nBreakdown:\n")
		for _, line := range b.Lines() {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	if len(b.Issues) > 0 {
		fmt.Fprintf(w, "\n%sIssues:%s\n", colorYellow, colorReset)
		for _, issue := range b.Issues {
			fmt.Fprintf(w, "  ⚠ %s: %s\n", issue.Kind, strings.TrimSpace(issue.Reason))
		}
	}
	fmt.Fprintln(w)
}
