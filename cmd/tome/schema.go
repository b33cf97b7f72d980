package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tome/internal/platform"
	"github.com/aretw0/tome/pkg/schema"
)

var schemaConfig bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the sidebars file (or of tome.yaml with --config-file)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !schemaConfig {
			_, err := os.Stdout.Write(schema.SidebarSchema())
			return err
		}
		data, err := platform.ConfigSchema()
		if err != nil {
			return fmt.Errorf("failed to generate config schema: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVar(&schemaConfig, "config-file", false, "Print the schema of tome.yaml")
}
