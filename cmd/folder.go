package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders for grouping resumes",
}

var folderAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		folderAdd(args[0])
	},
}

var folderRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a folder, its resumes become unassigned",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		folderRm(cmd, args[0])
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders and their resume counts",
	Run: func(_ *cobra.Command, _ []string) {
		folderList()
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderAddCmd)
	folderCmd.AddCommand(folderRmCmd)
	folderCmd.AddCommand(folderListCmd)

	folderRmCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func folderAdd(name string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	folder, err := a.bank.CreateFolder(ctx, a.repo, name)
	if err != nil {
		a.logger.Fatal("creating the folder", zap.Error(err))
	}

	a.logger.Info("created the folder", zap.String("name", folder.Name), zap.String("id", folder.ID.String()))
}

func folderRm(cmd *cobra.Command, name string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	folder := a.bank.FindFolderByName(name)
	if folder == nil {
		a.logger.Fatal("folder not found", zap.String("folder", name))
	}

	members := 0
	for _, r := range a.bank.Resumes() {
		if r.FolderID != nil && *r.FolderID == folder.ID {
			members++
		}
	}

	ok, err := confirm(cmd, fmt.Sprintf("Delete folder %q? Its %d resumes will become unassigned", folder.Name, members))
	if err != nil {
		a.logger.Fatal("exiting", zap.Error(err))
	}
	if !ok {
		a.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}

	if err := a.bank.DeleteFolder(ctx, a.repo, folder.ID); err != nil {
		a.logger.Fatal("deleting the folder", zap.Error(err))
	}

	a.logger.Info("deleted the folder", zap.String("name", folder.Name), zap.Int("unassigned resumes", members))
}

func folderList() {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.close()

	folders := a.bank.Folders()
	if len(folders) == 0 {
		a.logger.Info("no folders yet")
		return
	}

	counts := make(map[string]int)
	for _, r := range a.bank.Resumes() {
		if r.FolderID != nil {
			counts[r.FolderID.String()]++
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRESUMES\tID")
	for _, f := range folders {
		fmt.Fprintf(w, "%s\t%d\t%s\n", f.Name, counts[f.ID.String()], f.ID)
	}
	w.Flush()
}
