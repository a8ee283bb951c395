package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var downloadCmd = &cobra.Command{
	Use:   "download <resume-id>",
	Short: "Download the stored resume file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		download(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringP("output", "o", "", "target path, defaults to the original file name in the current directory")
}

func download(cmd *cobra.Command, resumeArg string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	resume, err := resolveResume(a.bank, resumeArg)
	if err != nil {
		a.logger.Fatal("finding the resume", zap.Error(err))
	}

	if resume.FileURL == "" {
		a.logger.Fatal("resume has no stored file", zap.String("resume", resume.Name))
	}

	store := a.blobStore(ctx)

	data, err := store.Download(ctx, resume.FileURL)
	if err != nil {
		a.logger.Fatal("downloading the stored file", zap.Error(err))
	}

	target, _ := cmd.Flags().GetString("output")
	if target == "" {
		target = filepath.Base(resume.FileName)
		if target == "." || target == "/" || target == "" {
			target = resume.ID.String()
		}
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		a.logger.Fatal("writing the downloaded file", zap.Error(err))
	}

	a.logger.Info("downloaded the resume file",
		zap.String("resume", resume.Name),
		zap.String("file", target),
		zap.Int("bytes", len(data)),
	)
}
