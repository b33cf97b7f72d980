package transform

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/tome/pkg/book"
	"github.com/aretw0/tome/pkg/core"
)

// Job converts one raw chapter dump. Source is a markdown/text dump or a
// saved HTML page (by extension).
type Job struct {
	Chapter book.Chapter
	Source  string
}

// JobsFromDir builds one job per catalogue chapter whose dump exists in dir.
// Missing dumps are skipped. An HTML page named like the dump
// (chapter6.html) is used when the markdown dump is absent.
func JobsFromDir(dir string, chapters []book.Chapter) []Job {
	var jobs []Job
	for _, ch := range chapters {
		base := strings.TrimSuffix(ch.Source, filepath.Ext(ch.Source))
		for _, name := range []string{ch.Source, base + ".html", base + ".htm"} {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				jobs = append(jobs, Job{Chapter: ch, Source: p})
				break
			}
		}
	}
	return jobs
}

// Converter runs chapter conversions against a docs store.
type Converter struct {
	svc         *core.Service
	sidebars    core.Sidebars
	logger      *slog.Logger
	concurrency int
	dryRun      bool
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithConverterLogger sets the logger.
func WithConverterLogger(l *slog.Logger) ConverterOption {
	return func(c *Converter) { c.logger = l }
}

// WithConcurrency bounds the number of chapters converted at once.
func WithConcurrency(n int) ConverterOption {
	return func(c *Converter) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithDryRun builds the pages without saving them.
func WithDryRun(dry bool) ConverterOption {
	return func(c *Converter) { c.dryRun = dry }
}

// NewConverter creates a converter that places pages according to sidebars.
func NewConverter(svc *core.Service, sidebars core.Sidebars, opts ...ConverterOption) *Converter {
	c := &Converter{
		svc:         svc,
		sidebars:    sidebars,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run converts every job concurrently, then saves all pages in a single
// transaction: either every page is written or none is.
func (c *Converter) Run(ctx context.Context, jobs []Job) ([]core.Document, error) {
	docs := make([]core.Document, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			doc, err := c.convert(gctx, job)
			if err != nil {
				return fmt.Errorf("chapter %d (%s): %w", job.Chapter.Number, job.Source, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if c.dryRun || len(docs) == 0 {
		return docs, nil
	}

	ctx = context.WithValue(ctx, core.ChangeReasonKey, fmt.Sprintf("convert %d chapters", len(docs)))
	err := c.svc.WithTransaction(ctx, func(tx core.Transaction) error {
		for _, d := range docs {
			if err := tx.Save(ctx, d); err != nil {
				return fmt.Errorf("failed to stage %s: %w", d.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("chapters converted", "count", len(docs))
	return docs, nil
}

func (c *Converter) convert(ctx context.Context, job Job) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return core.Document{}, err
	}
	data, err := os.ReadFile(job.Source)
	if err != nil {
		return core.Document{}, err
	}

	raw := string(data)
	switch strings.ToLower(filepath.Ext(job.Source)) {
	case ".html", ".htm":
		if raw, err = FromHTML(bytes.NewReader(data)); err != nil {
			return core.Document{}, err
		}
	}

	nav, err := c.nav(ctx, job.Chapter.DocID)
	if err != nil {
		return core.Document{}, err
	}
	doc := Build(job.Chapter, raw, nav)
	c.logger.Debug("chapter built", "id", doc.ID, "source", job.Source, "bytes", len(doc.Content))
	return doc, nil
}

// nav resolves the position and neighbours of id. Neighbouring chapters are
// titled from the catalogue since their pages may be written in this same run.
func (c *Converter) nav(ctx context.Context, id string) (Nav, error) {
	page, err := c.svc.Pager(ctx, c.sidebars, id)
	if err != nil {
		return Nav{}, err
	}
	sb, _ := c.sidebars.Locate(id)
	pos, _ := sb.Position(id)

	for _, l := range []*core.Link{page.Prev, page.Next} {
		if l == nil {
			continue
		}
		if ch, ok := book.ChapterByID(l.ID); ok {
			l.Title = ch.Heading()
		}
	}
	return Nav{Position: pos, Prev: page.Prev, Next: page.Next}, nil
}
