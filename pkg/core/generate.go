package core

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// genEntry is a document or a directory waiting to be placed in a generated sidebar.
type genEntry struct {
	key      string
	position *float64
	item     Item
}

type genDir struct {
	name     string
	docs     []genEntry
	children map[string]*genDir
}

func newGenDir(name string) *genDir {
	return &genDir{name: name, children: make(map[string]*genDir)}
}

func (d *genDir) dir(parts []string) *genDir {
	cur := d
	for _, p := range parts {
		next, ok := cur.children[p]
		if !ok {
			next = newGenDir(p)
			cur.children[p] = next
		}
		cur = next
	}
	return cur
}

// Generate builds a sidebar from the layout of the docs tree.
// Pages at the root stay top-level; every directory becomes a category.
// Entries are ordered by sidebar_position (or the category position),
// unpositioned entries follow in name order.
func (s *Service) Generate(ctx context.Context, name string) (Sidebar, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return Sidebar{}, fmt.Errorf("failed to list documents: %w", err)
	}

	metas := make(map[string]CategoryMeta)
	if cl, ok := s.repo.(CategoryLister); ok {
		list, err := cl.Categories(ctx)
		if err != nil {
			return Sidebar{}, fmt.Errorf("failed to list categories: %w", err)
		}
		for _, m := range list {
			metas[m.Dir] = m
		}
	}

	root := newGenDir("")
	for _, d := range docs {
		fm, err := d.FrontMatter()
		if err != nil {
			s.logger.Warn("ignoring unreadable frontmatter", "id", d.ID, "error", err)
		}
		dir := path.Dir(d.ID)
		var parts []string
		if dir != "." {
			parts = strings.Split(dir, "/")
		}
		node := root.dir(parts)
		node.docs = append(node.docs, genEntry{
			key:      baseName(d.ID),
			position: fm.SidebarPosition,
			item:     Doc(d.ID),
		})
	}

	sb := Sidebar{Name: name, Items: root.items("", metas)}
	if len(sb.Items) == 0 {
		return sb, fmt.Errorf("generate %s: %w", name, ErrEmptySidebar)
	}
	return sb, nil
}

func (d *genDir) items(prefix string, metas map[string]CategoryMeta) []Item {
	entries := append([]genEntry(nil), d.docs...)
	for name, child := range d.children {
		dir := name
		if prefix != "" {
			dir = prefix + "/" + name
		}
		items := child.items(dir, metas)
		if len(items) == 0 {
			continue
		}
		meta := metas[dir]
		cat := &Category{
			Label:       meta.Label,
			Collapsible: true,
			Collapsed:   false,
			Items:       items,
		}
		if cat.Label == "" {
			cat.Label = humanize(name)
		}
		if meta.Collapsible != nil {
			cat.Collapsible = *meta.Collapsible
		}
		if meta.Collapsed != nil {
			cat.Collapsed = *meta.Collapsed
		}
		entries = append(entries, genEntry{key: name, position: meta.Position, item: Item{Category: cat}})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.position != nil && b.position != nil:
			if *a.position != *b.position {
				return *a.position < *b.position
			}
		case a.position != nil:
			return true
		case b.position != nil:
			return false
		}
		return a.key < b.key
	})

	out := make([]Item, len(entries))
	for i, e := range entries {
		out[i] = e.item
	}
	return out
}

// humanize turns a directory name like "part-1_intro" into "Part 1 Intro".
func humanize(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}
