package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buker/critic/internal/prompt"
	"github.com/buker/critic/internal/review"
)

func init() {
	promptCmd.Flags().Bool("staged", false, "Use the staged git diff as the source")
}

var promptCmd = &cobra.Command{
	Use:   "prompt [file|-]",
	Short: "Print the prompt that would be sent for a source",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := loadSource(cmd, args)
		if err != nil {
			return err
		}
		if review.IsBlank(source) {
			return review.ErrBlankInput
		}
		fmt.Fprintln(cmd.OutOrStdout(), prompt.Build(source))
		return nil
	},
}
