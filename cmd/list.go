package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fmohsen/cvbank/internal/bank"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates with optional scope, filters and sorting",
	Run: func(cmd *cobra.Command, _ []string) {
		list(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	addViewFlags(listCmd)
}

func list(cmd *cobra.Command) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	visible, err := viewFromFlags(cmd, a.bank)
	if err != nil {
		a.logger.Fatal("resolving the candidate view", zap.Error(err))
	}

	if len(visible) == 0 {
		a.logger.Info("no candidates match the current view")
		return
	}

	printResumes(a.bank, visible)

	a.logger.Info("listed candidates", zap.Int("count", len(visible)), zap.Int("total", a.bank.Len()))
}

func printResumes(b *bank.Bank, resumes []*bank.Resume) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAGE\tGOVERNORATE\tJOB\tSKILLS\tFAV\tSCORE")

	for _, r := range resumes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			orDash(r.Name),
			formatAge(r.Age),
			orDash(r.Governorate),
			orDash(r.AppliedFor),
			orDash(strings.Join(r.Skills, ", ")),
			formatFavorited(r.Favorited),
			formatScore(b, r),
		)
	}

	w.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatAge(age *int) string {
	if age == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *age)
}

func formatFavorited(fav bool) string {
	if fav {
		return "*"
	}
	return ""
}

func formatScore(b *bank.Bank, r *bank.Resume) string {
	score, ok := b.Score(r.ID)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d", score.Score)
}
