package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stratum"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stratum",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stratum version %s\n", strings.TrimSpace(stratum.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
