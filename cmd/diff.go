package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pointcov.dev/pkg/pointcov/internal/domain"
	m "pointcov.dev/pkg/pointcov/internal/model"
)

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Show a unified diff between two report directories",
		Long:  "Render the reports of two directories as text and print their unified diff.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Diff(cmd.Context(), domain.DiffArgs{
				Old:    m.Path(args[0]),
				New:    m.Path(args[1]),
				Detail: viper.GetBool(detailConfigKey),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
