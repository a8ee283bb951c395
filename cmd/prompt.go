package cmd

import (
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

// confirm asks for interactive confirmation unless the command carries an
// approving --yes flag.
func confirm(cmd *cobra.Command, label string) (bool, error) {
	if cmd.Flag("yes") != nil && cmd.Flag("yes").Value.String() == "true" {
		return true, nil
	}

	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false, err
	}

	return answer == PromptYes, nil
}
