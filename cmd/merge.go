package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pointcov.dev/pkg/pointcov/internal/domain"
	m "pointcov.dev/pkg/pointcov/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [report dirs...]",
		Short: "Merge reports from independent runs into a summary",
		Long: `Sum discovered and hit counts per category across report directories
(default: the --output directory) and write the summary into --output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := m.Path(viper.GetString(outputFlagName))

			inputs := parsePaths(args)
			if len(inputs) == 0 {
				inputs = []m.Path{output}
			}

			return workflow.Merge(cmd.Context(), domain.MergeArgs{Inputs: inputs, Output: output})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
