package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kintrospect/kintrospect/internal/message"
	"github.com/kintrospect/kintrospect/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Kintrospect",
	Run: func(cmd *cobra.Command, args []string) {
		message.Info(version.FullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
