// ABOUTME: Version command for the duotone CLI
// ABOUTME: Prints product, version, and manufacturer identification
package cmd

import (
	"fmt"

	"github.com/duotone-audio/duotone-go/internal/version"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", version.String())
		fmt.Printf("%s\n", version.Manufacturer)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
