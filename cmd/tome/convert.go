package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/tome/internal/platform"
	"github.com/aretw0/tome/pkg/book"
	"github.com/aretw0/tome/pkg/transform"
)

var convertDryRun bool

var convertCmd = &cobra.Command{
	Use:   "convert [chapter...]",
	Short: "Convert raw chapter dumps into guide pages",
	Long: `Convert reads chapterN.md (or chapterN.html) dumps from the raw directory,
cleans them, numbers their sections, adds a table of contents and the
previous/next links, and writes the pages of the guide in one batch.
Without arguments every chapter with a dump is converted.`,
	Example: `  tome convert
  tome convert 6 7 --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		chapters := book.Chapters()
		if len(args) > 0 {
			chapters = nil
			for _, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid chapter number %q", arg)
				}
				ch, ok := book.ChapterByNumber(n)
				if !ok {
					return fmt.Errorf("no chapter %d in the guide", n)
				}
				chapters = append(chapters, ch)
			}
		}

		jobs := transform.JobsFromDir(cfg.RawDir, chapters)
		if len(jobs) == 0 {
			return fmt.Errorf("no chapter dumps found in %s", cfg.RawDir)
		}

		svc, err := openService(!cfg.ReadOnly)
		if err != nil {
			return err
		}
		conv := transform.NewConverter(svc, book.Sidebars(),
			transform.WithConverterLogger(slog.Default()),
			transform.WithConcurrency(cfg.Concurrency),
			transform.WithDryRun(convertDryRun || cfg.ReadOnly),
		)

		docs, err := conv.Run(commandContext(cmd), jobs)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			fmt.Printf("%s\t%s\n", doc.ID, doc.Title())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertDryRun, "dry-run", false, "Build the pages without writing them")
	convertCmd.Flags().Int("concurrency", platform.DefaultConcurrency, "Chapters converted in parallel")
}
