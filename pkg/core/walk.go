package core

import "errors"

// SkipCategory can be returned by a WalkFunc to skip the children of a category.
var SkipCategory = errors.New("skip this category")

// WalkFunc is called for every item. path holds the labels of the enclosing categories.
type WalkFunc func(path []string, item Item) error

// Walk visits the items depth-first in display order.
func Walk(items []Item, fn WalkFunc) error {
	return walk(nil, items, fn)
}

func walk(path []string, items []Item, fn WalkFunc) error {
	for _, it := range items {
		err := fn(path, it)
		if errors.Is(err, SkipCategory) {
			continue
		}
		if err != nil {
			return err
		}
		if it.Category != nil {
			sub := append(path[:len(path):len(path)], it.Category.Label)
			if err := walk(sub, it.Category.Items, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Walk visits every item of the sidebar.
func (s Sidebar) Walk(fn WalkFunc) error {
	return Walk(s.Items, fn)
}

// DocIDs returns the referenced documents in display order.
// Duplicates are kept as they appear.
func (s Sidebar) DocIDs() []string {
	var ids []string
	_ = s.Walk(func(_ []string, it Item) error {
		if it.IsDoc() {
			ids = append(ids, it.DocID)
		}
		return nil
	})
	return ids
}

// DocIDs returns the documents of every sidebar, sidebar by sidebar.
func (s Sidebars) DocIDs() []string {
	var ids []string
	for _, sb := range s {
		ids = append(ids, sb.DocIDs()...)
	}
	return ids
}

// Contains reports whether the sidebar references id.
func (s Sidebar) Contains(id string) bool {
	_, ok := s.Breadcrumbs(id)
	return ok
}

// Breadcrumbs returns the labels of the categories enclosing id.
func (s Sidebar) Breadcrumbs(id string) ([]string, bool) {
	var crumbs []string
	found := false
	errFound := errors.New("found")
	_ = s.Walk(func(path []string, it Item) error {
		if it.IsDoc() && it.DocID == id {
			crumbs = append([]string(nil), path...)
			found = true
			return errFound
		}
		return nil
	})
	return crumbs, found
}

// Neighbors returns the documents displayed before and after id.
// Empty strings mean id is first or last.
func (s Sidebar) Neighbors(id string) (prev, next string, ok bool) {
	ids := s.DocIDs()
	for i, cur := range ids {
		if cur != id {
			continue
		}
		if i > 0 {
			prev = ids[i-1]
		}
		if i+1 < len(ids) {
			next = ids[i+1]
		}
		return prev, next, true
	}
	return "", "", false
}

// Locate returns the first sidebar that references id.
func (s Sidebars) Locate(id string) (Sidebar, bool) {
	for _, sb := range s {
		if sb.Contains(id) {
			return sb, true
		}
	}
	return Sidebar{}, false
}

// Position returns the 1-based index of id among the items of its enclosing
// category, or of the sidebar root. It matches the sidebar_position a page
// needs to keep that order in an autogenerated sidebar.
func (s Sidebar) Position(id string) (int, bool) {
	return position(s.Items, id)
}

func position(items []Item, id string) (int, bool) {
	for i, it := range items {
		if it.IsDoc() && it.DocID == id {
			return i + 1, true
		}
		if it.Category != nil {
			if p, ok := position(it.Category.Items, id); ok {
				return p, true
			}
		}
	}
	return 0, false
}
