package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/aretw0/tome/pkg/core"
)

var (
	sidebarStyle  = lipgloss.NewStyle().Bold(true)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Faint(true)
)

var treeCmd = &cobra.Command{
	Use:   "tree [sidebar]",
	Short: "Print the sidebars as a tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sbs, err := loadSidebars()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			sb, ok := sbs.Get(args[0])
			if !ok {
				return fmt.Errorf("sidebar %q not found (have %v)", args[0], sbs.Names())
			}
			sbs = core.Sidebars{sb}
		}
		for _, sb := range sbs {
			fmt.Println(renderSidebar(sb))
		}
		return nil
	},
}

func renderSidebar(sb core.Sidebar) string {
	t := tree.Root(sidebarStyle.Render(sb.Name)).Enumerator(tree.RoundedEnumerator)
	addItems(t, sb.Items)
	return t.String()
}

func addItems(t *tree.Tree, items []core.Item) {
	for _, it := range items {
		if it.Category != nil {
			sub := tree.Root(categoryStyle.Render(it.Category.Label))
			addItems(sub, it.Category.Items)
			t.Child(sub)
			continue
		}
		name := it.DocID
		if it.Label != "" {
			name += " " + labelStyle.Render("("+it.Label+")")
		}
		t.Child(name)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
