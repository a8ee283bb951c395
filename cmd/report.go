package cmd

import (
	"context"
	"os"

	"github.com/fmohsen/cvbank/internal/ai"
	"github.com/fmohsen/cvbank/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a hiring report comparing selected candidates against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		runReport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("job-description-file", "f", "", "file holding the job description")
	reportCmd.Flags().String("select", "", "comma-separated resume ids to report on")
	reportCmd.Flags().Bool("no-color", false, "disable terminal formatting in the rendered report")
	reportCmd.Flags().StringP("output", "o", "", "write the raw report to a file instead of rendering it")
	reportCmd.MarkFlagRequired("job-description-file")
	reportCmd.MarkFlagRequired("select")
}

func runReport(cmd *cobra.Command) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	jobDescription, err := readJobDescription(cmd)
	if err != nil {
		a.logger.Fatal("reading the job description", zap.Error(err))
	}

	// The report always covers an explicit selection; an empty one is an
	// error, never a fallback.
	raw, _ := cmd.Flags().GetString("select")
	selected, err := resolveSelection(a.bank, raw)
	if err != nil {
		a.logger.Fatal("resolving the candidate selection", zap.Error(err))
	}

	candidates := make([]ai.ReportCandidate, 0, len(selected))
	for _, r := range selected {
		candidates = append(candidates, ai.ReportCandidate{
			Name:    r.Name,
			Summary: r.AISummary,
			Skills:  r.Skills,
		})
	}

	a.logger.Info("generating the report", zap.Int("candidates", len(candidates)))

	generator := a.generator(ctx)

	text, err := generator.GenerateReport(ctx, jobDescription, candidates)
	if err != nil {
		a.logger.Fatal("generating the report", zap.Error(err))
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
			a.logger.Fatal("writing the report file", zap.Error(err))
		}
		a.logger.Info("report written", zap.String("file", output))
		return
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	renderer := report.NewRenderer(os.Stdout, !noColor)
	renderer.Render(report.Parse(text))
}
