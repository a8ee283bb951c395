package cmd

import (
	"fmt"
	"strings"

	"github.com/fmohsen/cvbank/internal/bank"

	"github.com/spf13/cobra"
)

// addViewFlags attaches the scope, filter and sort flags shared by the
// commands that operate on the visible candidate list.
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().String("folder", "all", "candidate scope: all, favorites, unassigned, or a folder name")
	cmd.Flags().String("job", "", "filter by applied-for job, substring match")
	cmd.Flags().Bool("exact", false, "make the --job filter an exact match")
	cmd.Flags().String("governorate", "", "filter by governorate, substring match")
	cmd.Flags().String("age", "", "filter by age, a number or an inclusive min-max range")
	cmd.Flags().String("skills", "", "filter by skills, comma-separated fragments that must all match")
	cmd.Flags().String("sort", "name", "sort key: name, age, governorate, skills, favorites or score")
	cmd.Flags().Bool("desc", false, "sort in descending order")
}

// viewFromFlags resolves the flags into the ordered visible list. The
// --folder value doubles as the scope selector; a value that is not one of
// the reserved scopes is looked up as a folder name.
func viewFromFlags(cmd *cobra.Command, b *bank.Bank) ([]*bank.Resume, error) {
	scope := bank.Scope{Kind: bank.ScopeAll}

	raw, _ := cmd.Flags().GetString("folder")
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
	case "favorites":
		scope.Kind = bank.ScopeFavorites
	case "unassigned":
		scope.Kind = bank.ScopeUnassigned
	default:
		folder := b.FindFolderByName(raw)
		if folder == nil {
			return nil, fmt.Errorf("folder %q not found", raw)
		}
		scope = bank.Scope{Kind: bank.ScopeFolder, FolderID: folder.ID}
	}

	job, _ := cmd.Flags().GetString("job")
	jobExact, _ := cmd.Flags().GetBool("exact")
	governorate, _ := cmd.Flags().GetString("governorate")
	age, _ := cmd.Flags().GetString("age")
	skills, _ := cmd.Flags().GetString("skills")

	filters := bank.Filters{
		Job:         job,
		JobExact:    jobExact,
		Governorate: governorate,
		Age:         age,
		Skills:      skills,
	}

	rawKey, _ := cmd.Flags().GetString("sort")
	key, ok := bank.ParseSortKey(rawKey)
	if !ok {
		return nil, fmt.Errorf("invalid sort key %q", rawKey)
	}

	descending, _ := cmd.Flags().GetBool("desc")

	return b.Visible(scope, filters, key, descending), nil
}
