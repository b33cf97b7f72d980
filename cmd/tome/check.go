package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	checkJSON   bool
	checkStrict bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the sidebars and resolve every reference against the docs tree",
	Long: `Check validates the structure of the sidebars (empty labels, duplicate
references, empty categories) and reports references without a page.
Pages that no sidebar lists are reported as warnings, or as errors with --strict.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sbs, err := loadSidebars()
		if err != nil {
			return err
		}
		svc, err := openService(false)
		if err != nil {
			return err
		}

		report, err := svc.Check(commandContext(cmd), sbs)
		if err != nil {
			return err
		}

		if checkJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
		} else {
			if report.Validation != nil {
				fmt.Fprintln(os.Stderr, report.Validation)
			}
			for _, ref := range report.Dangling {
				fmt.Fprintf(os.Stderr, "missing page: %s (sidebar %s)\n", ref.ID, ref.Sidebar)
			}
			for _, id := range report.Unlisted {
				slog.Warn("page is not in any sidebar", "id", id)
			}
		}

		if !report.OK() || (checkStrict && len(report.Unlisted) > 0) {
			return errFailed
		}
		if !checkJSON {
			fmt.Fprintf(cmd.OutOrStdout(), "%d sidebars, %d pages: ok\n", len(sbs), report.Documents)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output the report in JSON format")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Fail when pages are missing from every sidebar")
}
