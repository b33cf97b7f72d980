package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listJSON bool

// pageRow is one line of `tome list`.
type pageRow struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Position *float64 `json:"sidebar_position,omitempty"`
	Sidebar  string   `json:"sidebar,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pages of the docs tree and the sidebar that shows them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(false)
		if err != nil {
			return err
		}
		docs, err := svc.ListDocuments(commandContext(cmd))
		if err != nil {
			return err
		}

		// A missing sidebars file only leaves the SIDEBAR column empty.
		sbs, err := loadSidebars()
		if err != nil && !os.IsNotExist(err) {
			return err
		}

		rows := make([]pageRow, 0, len(docs))
		for _, doc := range docs {
			fm, err := doc.FrontMatter()
			if err != nil {
				return err
			}
			row := pageRow{ID: doc.ID, Title: doc.Title(), Position: fm.SidebarPosition}
			if sb, ok := sbs.Locate(doc.ID); ok {
				row.Sidebar = sb.Name
			}
			rows = append(rows, row)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(rows)
		}
		renderPages(rows)
		return nil
	},
}

func renderPages(rows []pageRow) {
	if len(rows) == 0 {
		fmt.Println("(0 pages)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "TITLE", "POSITION", "SIDEBAR"})
	for _, r := range rows {
		pos := ""
		if r.Position != nil {
			pos = strconv.FormatFloat(*r.Position, 'f', -1, 64)
		}
		sidebar := r.Sidebar
		if sidebar == "" {
			sidebar = "-"
		}
		t.AppendRow(table.Row{r.ID, r.Title, pos, sidebar})
	}
	t.Render()
	fmt.Printf("(%d pages)\n", len(rows))
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}

