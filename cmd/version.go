// file: cmd/version.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd shows the application version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("d64tools v0.1.0")
	},
}
