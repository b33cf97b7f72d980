package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pagerJSON bool

var pagerCmd = &cobra.Command{
	Use:   "pager <doc-id>",
	Short: "Show the previous and next pages of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sbs, err := loadSidebars()
		if err != nil {
			return err
		}
		svc, err := openService(false)
		if err != nil {
			return err
		}

		page, err := svc.Pager(commandContext(cmd), sbs, args[0])
		if err != nil {
			return err
		}

		if pagerJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(page)
		}
		fmt.Printf("sidebar: %s\n", page.Sidebar)
		if page.Prev != nil {
			fmt.Printf("prev:    %s (%s)\n", page.Prev.Title, page.Prev.ID)
		}
		if page.Next != nil {
			fmt.Printf("next:    %s (%s)\n", page.Next.Title, page.Next.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pagerCmd)
	pagerCmd.Flags().BoolVar(&pagerJSON, "json", false, "Output in JSON format")
}
