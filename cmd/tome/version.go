package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/tome"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tome",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tome version %s\n", strings.TrimSpace(tome.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
