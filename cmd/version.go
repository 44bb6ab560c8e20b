package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

const productName = "pointcov"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the pointcov version",
		Long:  "Displays the pointcov build version, VCS revision and the Go version used to build it.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			for _, line := range versionLines(info, ok) {
				cmd.Println(line)
			}
		},
	}
}

// versionLines formats build info; the revision line appears only for VCS builds.
func versionLines(info *debug.BuildInfo, ok bool) []string {
	if !ok || info == nil || info.Main.Version == "" {
		return []string{productName + " version unknown"}
	}

	lines := []string{productName + " " + info.Main.Version}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			lines = append(lines, "revision "+setting.Value)
		}
	}

	return append(lines, "built with "+info.GoVersion)
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
