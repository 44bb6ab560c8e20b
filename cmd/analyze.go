package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pointcov.dev/pkg/pointcov/internal/domain"
	m "pointcov.dev/pkg/pointcov/internal/model"
)

var analyzeParallelFlag int
var analyzeHitsFlag string
var analyzeProfileFlag string
var analyzeSQLiteFlag string

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Catalog coverage points and report hits",
		Long:  analyzeLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := domain.ParseHitMode(viper.GetString(hitsModeConfigKey))
			if err != nil {
				return err
			}

			return workflow.Analyze(cmd.Context(), domain.AnalyzeArgs{
				Paths:   parsePaths(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Reports: m.Path(viper.GetString(outputFlagName)),
				SQLite:  m.Path(viper.GetString(sqliteConfigKey)),
				HitMode: mode,
				Profile: m.Path(viper.GetString(hitsProfileConfigKey)),
				Detail:  viper.GetBool(detailConfigKey),
				Threads: viper.GetInt(runParallelConfigKey),
			})
		},
	}

	configureAnalyzeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func configureAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&analyzeParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of files analyzed in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVar(&analyzeHitsFlag, hitsFlagName, viper.GetString(hitsModeConfigKey), "hit source: all, none or profile")
	bindFlagToConfig(cmd.Flags().Lookup(hitsFlagName), hitsModeConfigKey)

	cmd.Flags().StringVar(&analyzeProfileFlag, profileFlagName, viper.GetString(hitsProfileConfigKey), "Go coverage profile used by --hits=profile")
	bindFlagToConfig(cmd.Flags().Lookup(profileFlagName), hitsProfileConfigKey)

	cmd.Flags().StringVar(&analyzeSQLiteFlag, sqliteFlagName, viper.GetString(sqliteConfigKey), "also export reports to this SQLite database")
	bindFlagToConfig(cmd.Flags().Lookup(sqliteFlagName), sqliteConfigKey)
}
