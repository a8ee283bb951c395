package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fmohsen/cvbank/internal/ai"
	"github.com/fmohsen/cvbank/internal/bank"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidates against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	addViewFlags(scoreCmd)

	scoreCmd.Flags().StringP("job-description-file", "f", "", "file holding the job description")
	scoreCmd.Flags().String("select", "", "comma-separated resume ids to score instead of the visible set")
	scoreCmd.MarkFlagRequired("job-description-file")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	jobDescription, err := readJobDescription(cmd)
	if err != nil {
		a.logger.Fatal("reading the job description", zap.Error(err))
	}

	selected, err := selectedResumes(cmd, a.bank)
	if err != nil {
		a.logger.Fatal("resolving the candidate selection", zap.Error(err))
	}

	if len(selected) == 0 {
		a.logger.Info("exiting", zap.String("reason", "no candidates match the current selection"))
		return
	}

	candidates := make([]ai.Candidate, 0, len(selected))
	for _, r := range selected {
		candidates = append(candidates, ai.Candidate{
			ID:      r.ID.String(),
			Summary: r.AISummary,
			Skills:  r.Skills,
		})
	}

	a.logger.Info("scoring candidates", zap.Int("count", len(candidates)))

	// Earlier annotations are stale once a new job description is in play,
	// even when the scoring call below fails.
	a.bank.InvalidateScores()

	generator := a.generator(ctx)

	scores, err := generator.ScoreCandidates(ctx, jobDescription, candidates)
	if err != nil {
		a.logger.Fatal("scoring candidates", zap.Error(err))
	}

	byID := make(map[uuid.UUID]bank.TempScore, len(scores))
	for raw, s := range scores {
		id, err := uuid.Parse(raw)
		if err != nil {
			a.logger.Warn("dropping score with unknown candidate id", zap.String("id", raw))
			continue
		}
		byID[id] = bank.TempScore{Score: s.Score, Reason: s.Reason}
	}

	a.bank.SetScores(byID)

	ranked := a.bank.Visible(bank.Scope{Kind: bank.ScopeAll}, bank.Filters{}, bank.SortScore, true)
	scored := make([]*bank.Resume, 0, len(ranked))
	for _, r := range ranked {
		if _, ok := a.bank.Score(r.ID); ok {
			scored = append(scored, r)
		}
	}

	printScores(a.bank, scored)

	a.logger.Info("scored candidates", zap.Int("scored", len(scored)), zap.Int("requested", len(candidates)))
}

func printScores(b *bank.Bank, resumes []*bank.Resume) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tNAME\tJOB\tREASON")

	for _, r := range resumes {
		s, _ := b.Score(r.ID)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			s.Score,
			orDash(r.Name),
			orDash(r.AppliedFor),
			orDash(s.Reason),
		)
	}

	w.Flush()
}

func readJobDescription(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("job-description-file")

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

// selectedResumes resolves --select into explicit resumes, or falls back to
// the visible filtered set.
func selectedResumes(cmd *cobra.Command, b *bank.Bank) ([]*bank.Resume, error) {
	raw, _ := cmd.Flags().GetString("select")
	if strings.TrimSpace(raw) == "" {
		return viewFromFlags(cmd, b)
	}

	return resolveSelection(b, raw)
}
