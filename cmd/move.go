package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var moveCmd = &cobra.Command{
	Use:   "move <resume-id> <folder-name>",
	Short: "Move a resume into a folder, use '-' as the folder to unassign",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		move(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func move(resumeArg, folderName string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	resume, err := resolveResume(a.bank, resumeArg)
	if err != nil {
		a.logger.Fatal("finding the resume", zap.Error(err))
	}

	var folderID *uuid.UUID
	target := "unassigned"
	if folderName != "-" {
		folder := a.bank.FindFolderByName(folderName)
		if folder == nil {
			a.logger.Fatal("folder not found", zap.String("folder", folderName))
		}
		folderID = &folder.ID
		target = folder.Name
	}

	if err := a.bank.MoveResume(ctx, a.repo, resume.ID, folderID); err != nil {
		a.logger.Fatal("moving the resume", zap.Error(err))
	}

	a.logger.Info("moved the resume",
		zap.String("resume", resume.Name),
		zap.String("folder", target),
	)
}
