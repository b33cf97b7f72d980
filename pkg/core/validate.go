package core

import (
	"fmt"
	"strings"
)

// Validate checks the structural invariants of every sidebar and
// returns a *ValidationError listing all of the problems found.
func (s Sidebars) Validate() error {
	v := &validator{}
	seen := make(map[string]bool, len(s))
	for i, sb := range s {
		name := sb.Name
		if strings.TrimSpace(name) == "" {
			v.add(fmt.Sprintf("[%d]", i), ErrEmptySidebarName)
			name = fmt.Sprintf("[%d]", i)
		} else if seen[name] {
			v.add(name, ErrDuplicateSidebar)
		}
		seen[sb.Name] = true
		v.sidebar(name, sb.Items)
	}
	return v.err()
}

// Validate checks the structural invariants of a single sidebar.
func (s Sidebar) Validate() error {
	return Sidebars{s}.Validate()
}

type validator struct {
	problems []Problem
	ids      map[string]string
}

func (v *validator) add(path string, err error) {
	v.problems = append(v.problems, Problem{Path: path, Err: err})
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

func (v *validator) sidebar(name string, items []Item) {
	if len(items) == 0 {
		v.add(name, ErrEmptySidebar)
		return
	}
	// Identifiers are unique per sidebar, across every nesting level.
	v.ids = make(map[string]string)
	v.items(name, items)
}

func (v *validator) items(prefix string, items []Item) {
	for i, it := range items {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		switch {
		case it.Category != nil && it.DocID != "":
			v.add(path, ErrAmbiguousItem)
		case it.Category != nil:
			v.category(path, it.Category)
		default:
			v.doc(path, it)
		}
	}
}

func (v *validator) doc(path string, it Item) {
	if strings.TrimSpace(it.DocID) == "" {
		v.add(path, ErrEmptyID)
		return
	}
	if first, dup := v.ids[it.DocID]; dup {
		v.add(path, fmt.Errorf("%w: %q (first at %s)", ErrDuplicateID, it.DocID, first))
		return
	}
	v.ids[it.DocID] = path
}

func (v *validator) category(path string, c *Category) {
	if strings.TrimSpace(c.Label) == "" {
		v.add(path, ErrEmptyLabel)
	}
	if c.Collapsed && !c.Collapsible {
		v.add(path, ErrCollapsedNotCollapsible)
	}
	if len(c.Items) == 0 {
		v.add(path, ErrEmptyCategory)
		return
	}
	v.items(path+".items", c.Items)
}
