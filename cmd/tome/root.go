package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tome"
	"github.com/aretw0/tome/internal/platform"
	"github.com/aretw0/tome/pkg/core"
)

var (
	cfgFile   string
	useGuide  bool
	cfg       *platform.Config
	errFailed = errors.New("check failed")
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tome",
	Short: "Sidebar and docs tree toolkit for a Docusaurus book site",
	Long: `tome reads, checks and rewrites the sidebars of a Docusaurus site and
keeps the docs tree behind them in order. It also converts raw chapter
dumps into the numbered pages of the study guide.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := platform.LoadConfig("", cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		slog.Debug("configuration loaded", "root", cfg.Root, "file", cfg.File, "docs", cfg.DocsDir)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: tome.yaml in the project root)")
	flags.StringP("docs-dir", "d", "", "docs directory (default: docs)")
	flags.StringP("sidebars", "s", "", "sidebars file (default: sidebars.ts)")
	flags.Bool("read-only", false, "never write to the docs tree")
	flags.BoolVar(&useGuide, "guide", false, "use the built-in study guide sidebars instead of the sidebars file")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
}

// openService opens the configured docs tree.
func openService(autoInit bool) (*core.Service, error) {
	opts := append(cfg.Options(), tome.WithLogger(slog.Default()))
	if autoInit {
		opts = append(opts, tome.WithAutoInit(true))
	} else {
		opts = append(opts, tome.WithMustExist(true))
	}
	return tome.New(cfg.DocsDir, opts...)
}

// loadSidebars reads the configured sidebars file, or the built-in guide.
func loadSidebars() (core.Sidebars, error) {
	if useGuide {
		return tome.Guide(), nil
	}
	sbs, err := tome.ReadSidebars(cfg.Sidebars)
	if err != nil {
		return nil, err
	}
	slog.Debug("sidebars loaded", "path", cfg.Sidebars, "sidebars", len(sbs))
	return sbs, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
