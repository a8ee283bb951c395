package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite <resume-id>",
	Short: "Toggle the favorite mark on a resume",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		favorite(args[0])
	},
}

func init() {
	rootCmd.AddCommand(favoriteCmd)
}

func favorite(resumeArg string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	resume, err := resolveResume(a.bank, resumeArg)
	if err != nil {
		a.logger.Fatal("finding the resume", zap.Error(err))
	}

	if err := a.bank.ToggleFavorite(ctx, a.repo, resume.ID); err != nil {
		a.logger.Fatal("toggling the favorite mark", zap.Error(err))
	}

	a.logger.Info("toggled the favorite mark",
		zap.String("resume", resume.Name),
		zap.Bool("favorited", resume.Favorited),
	)
}
