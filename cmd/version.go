package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is overridden at release time with
// -ldflags "-X github.com/snowprep/snowprep/cmd.version=v1.2.3".
var version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the snowprep version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(buildVersion())
	},
}

// buildVersion combines the release version with whatever VCS metadata the
// Go build stamped into the binary.
func buildVersion() string {
	v := version

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}

	var commit string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit != "" {
		v += " (" + commit
		if dirty {
			v += ", modified"
		}
		v += ")"
	}
	return v
}
