package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/tome/pkg/adapters/lifecycle"
	"github.com/aretw0/tome/pkg/core"
)

var (
	watchCheck bool
	watchOnly  []string
)

// eventKinds parses the --only values (create, modify, delete).
func eventKinds(names []string) ([]core.EventType, error) {
	kinds := make([]core.EventType, 0, len(names))
	for _, n := range names {
		k := core.EventType(strings.ToUpper(strings.TrimSpace(n)))
		switch k {
		case core.EventCreate, core.EventModify, core.EventDelete:
			kinds = append(kinds, k)
		default:
			return nil, fmt.Errorf("unknown change kind %q (want create, modify or delete)", n)
		}
	}
	return kinds, nil
}

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print changes to the pages of the docs tree until interrupted",
	Long: `Watch reports page creations, modifications and deletions. The optional
pattern (doublestar syntax, relative to the docs directory) filters pages,
e.g. "part2/**". With --check the sidebars are checked again after each change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		kinds, err := eventKinds(watchOnly)
		if err != nil {
			return err
		}
		svc, err := openService(false)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := svc.Watch(ctx, pattern)
		if err != nil {
			return err
		}
		src := lifecycle.NewSource(events, kinds...)
		if err := src.Start(ctx); err != nil {
			return err
		}
		slog.Info("watching", "path", cfg.DocsDir, "pattern", pattern)

		for e := range src.Events() {
			fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), e)
			if watchCheck {
				recheck(ctx, svc)
				slog.Debug("service state", "state", svc.State())
			}
		}
		slog.Debug("watch stopped", "state", svc.State())
		return nil
	},
}

func recheck(ctx context.Context, svc *core.Service) {
	sbs, err := loadSidebars()
	if err != nil {
		slog.Error("failed to load sidebars", "error", err)
		return
	}
	report, err := svc.Check(ctx, sbs)
	if err != nil {
		slog.Error("check failed", "error", err)
		return
	}
	if err := report.Err(); err != nil {
		slog.Warn("sidebars out of date", "error", err)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchCheck, "check", false, "Check the sidebars after each change")
	watchCmd.Flags().StringSliceVar(&watchOnly, "only", nil, "Only report these changes: create, modify, delete")
}
