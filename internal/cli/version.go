package cli

import (
	"github.com/spf13/cobra"

	"github.com/pageza/pantrychef/internal/api"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("chef version %s\n", api.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
