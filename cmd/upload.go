package cmd

import (
	"context"
	"fmt"

	"github.com/fmohsen/cvbank/internal/bank"
	"github.com/fmohsen/cvbank/internal/ingest"
	"github.com/fmohsen/cvbank/internal/queue"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file|archive>...",
	Short: "Upload resume files or zip archives, extract candidate data and store the records",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		upload(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().String("folder", "", "assign the uploaded resumes to a folder by name")
}

func upload(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	docs, err := ingest.Expand(args)
	if err != nil {
		a.logger.Fatal("reading input files", zap.Error(err))
	}

	if len(docs) == 0 {
		a.logger.Info("exiting", zap.String("reason", "no supported resume files among the inputs"))
		return
	}

	var folderID *uuid.UUID
	if name, _ := cmd.Flags().GetString("folder"); name != "" {
		folder := a.bank.FindFolderByName(name)
		if folder == nil {
			a.logger.Fatal("folder not found", zap.String("folder", name))
		}
		folderID = &folder.ID
	}

	generator := a.generator(ctx)
	store := a.blobStore(ctx)

	q := queue.New(generator, store, a.repo, queue.Config{
		UserID:   a.userID(),
		FolderID: folderID,
		OnSuccess: func(r *bank.Resume) {
			a.bank.AppendResume(r)
		},
	}, a.logger)

	q.Enqueue(docs...)

	a.logger.Info("starting the upload", zap.Int("files", len(docs)))

	summary := q.Run(ctx)
	reportFailures(q, a.logger)
	a.logger.Info("upload finished", zap.String("summary", summary.String()))

	// Failed items can be retried; completed ones are dropped first so each
	// round runs over the failures alone.
	for summary.Failed > 0 {
		retry, err := confirm(cmd, fmt.Sprintf("Retry the %d failed uploads?", summary.Failed))
		if err != nil {
			a.logger.Fatal("exiting", zap.Error(err))
		}
		if !retry {
			return
		}

		var failed []ingest.Document
		for _, item := range q.Items() {
			if item.Status == queue.StatusError {
				failed = append(failed, item.Doc)
			}
		}

		q.ClearCompleted()
		q.Enqueue(failed...)

		summary = q.Run(ctx)
		reportFailures(q, a.logger)
		a.logger.Info("upload finished", zap.String("summary", summary.String()))
	}
}

func reportFailures(q *queue.Queue, logger *zap.Logger) {
	for _, item := range q.Items() {
		if item.Status == queue.StatusError {
			logger.Warn("upload failed",
				zap.String("file", item.Doc.Name),
				zap.String("error", item.Error),
			)
		}
	}
}
