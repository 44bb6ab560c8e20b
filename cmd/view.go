package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pointcov.dev/pkg/pointcov/internal/domain"
	m "pointcov.dev/pkg/pointcov/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previously generated coverage point reports",
		Long:  "View previously generated coverage point reports from a reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.View(cmd.Context(), domain.ViewArgs{
				Reports: m.Path(viper.GetString(outputFlagName)),
				Detail:  viper.GetBool(detailConfigKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
