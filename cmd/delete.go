package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <resume-id>",
	Short: "Delete a resume record together with its stored file and comments",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleteResume(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func deleteResume(cmd *cobra.Command, resumeArg string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	resume, err := resolveResume(a.bank, resumeArg)
	if err != nil {
		a.logger.Fatal("finding the resume", zap.Error(err))
	}

	ok, err := confirm(cmd, fmt.Sprintf("Delete resume %q and its stored file?", resume.Name))
	if err != nil {
		a.logger.Fatal("exiting", zap.Error(err))
	}
	if !ok {
		a.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}

	store := a.blobStore(ctx)

	if err := a.bank.DeleteResume(ctx, a.repo, store, resume.ID); err != nil {
		a.logger.Fatal("deleting the resume", zap.Error(err))
	}

	a.logger.Info("deleted the resume", zap.String("resume", resume.Name))
}
