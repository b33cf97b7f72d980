package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tome"
	"github.com/aretw0/tome/pkg/codec"
)

var (
	fmtTo    string
	fmtWrite bool
	fmtOut   string
)

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Rewrite the sidebars file in canonical form, or convert it to another format",
	Example: `  tome fmt -w
  tome fmt --to yaml
  tome fmt -o sidebars.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sbs, err := loadSidebars()
		if err != nil {
			return err
		}
		if err := sbs.Validate(); err != nil {
			return err
		}

		switch {
		case fmtOut != "":
			return tome.WriteSidebars(fmtOut, sbs)
		case fmtWrite:
			if useGuide {
				return fmt.Errorf("--write needs a sidebars file, not --guide")
			}
			return tome.WriteSidebars(cfg.Sidebars, sbs)
		}

		c, err := outputCodec(fmtTo)
		if err != nil {
			return err
		}
		return c.Encode(os.Stdout, sbs)
	},
}

// outputCodec resolves a --to value; empty means the format of the sidebars file.
func outputCodec(name string) (codec.Codec, error) {
	if name != "" {
		return codec.ForName(name)
	}
	if useGuide {
		return codec.TypeScript{}, nil
	}
	return codec.ForPath(cfg.Sidebars)
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().StringVar(&fmtTo, "to", "", "Output format: json, yaml, ts, js (default: format of the sidebars file)")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Rewrite the sidebars file in place")
	fmtCmd.Flags().StringVarP(&fmtOut, "output", "o", "", "Write to this file; the format follows its extension")
}
