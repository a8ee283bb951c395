package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage comments on resumes",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <resume-id> <text>",
	Short: "Add a comment to a resume",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		commentAdd(args[0], args[1])
	},
}

var commentRmCmd = &cobra.Command{
	Use:   "rm <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		commentRm(args[0])
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list <resume-id>",
	Short: "List the comments on a resume, oldest first",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		commentList(args[0])
	},
}

func init() {
	rootCmd.AddCommand(commentCmd)
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentRmCmd)
	commentCmd.AddCommand(commentListCmd)
}

func commentAdd(resumeArg, text string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	resume, err := resolveResume(a.bank, resumeArg)
	if err != nil {
		a.logger.Fatal("finding the resume", zap.Error(err))
	}

	comment, err := a.bank.AddComment(ctx, a.repo, resume.ID, text, a.userID(), a.userEmail())
	if err != nil {
		a.logger.Fatal("adding the comment", zap.Error(err))
	}

	a.logger.Info("added the comment",
		zap.String("resume", resume.Name),
		zap.String("id", comment.ID.String()),
	)
}

func commentRm(commentArg string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	id, err := uuid.Parse(commentArg)
	if err != nil {
		a.logger.Fatal("parsing the comment id", zap.Error(err))
	}

	if err := a.bank.DeleteComment(ctx, a.repo, id); err != nil {
		a.logger.Fatal("deleting the comment", zap.Error(err))
	}

	a.logger.Info("deleted the comment", zap.String("id", id.String()))
}

func commentList(resumeArg string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	resume, err := resolveResume(a.bank, resumeArg)
	if err != nil {
		a.logger.Fatal("finding the resume", zap.Error(err))
	}

	comments := a.bank.CommentsFor(resume.ID)
	if len(comments) == 0 {
		a.logger.Info("no comments on this resume", zap.String("resume", resume.Name))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tAUTHOR\tCOMMENT\tID")
	for _, c := range comments {
		author := c.UserEmail
		if author == "" {
			author = c.UserID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			c.CreatedAt.Format("2006-01-02 15:04"),
			orDash(author),
			c.Content,
			c.ID,
		)
	}
	w.Flush()
}
