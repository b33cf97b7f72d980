package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tome"
	"github.com/aretw0/tome/pkg/core"
)

var (
	generateName string
	generateTo   string
	generateOut  string
	generateSet  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build a sidebar from the layout of the docs tree",
	Long: `Generate builds a sidebar the way the site generator autogenerates one:
root pages first, one category per directory, ordered by sidebar_position and
_category_ position, then by ID. With --set the result replaces (or is
appended to) the sidebar of the same name in the sidebars file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(false)
		if err != nil {
			return err
		}
		sb, err := svc.Generate(commandContext(cmd), generateName)
		if err != nil {
			return err
		}

		if generateSet {
			sbs, err := tome.ReadSidebars(cfg.Sidebars)
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			return tome.WriteSidebars(cfg.Sidebars, sbs.Set(sb))
		}

		out := core.Sidebars{sb}
		if generateOut != "" {
			return tome.WriteSidebars(generateOut, out)
		}
		c, err := outputCodec(generateTo)
		if err != nil {
			return err
		}
		return c.Encode(os.Stdout, out)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateName, "name", "n", "docsSidebar", "Name of the generated sidebar")
	generateCmd.Flags().StringVar(&generateTo, "to", "", "Output format: json, yaml, ts, js (default: format of the sidebars file)")
	generateCmd.Flags().StringVarP(&generateOut, "output", "o", "", "Write to this file; the format follows its extension")
	generateCmd.Flags().BoolVar(&generateSet, "set", false, "Store the sidebar in the sidebars file")
}
