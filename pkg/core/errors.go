package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrReadOnly   = errors.New("repository is in read-only mode")
	ErrNotFound   = errors.New("document not found")
	ErrEmptyDocID = errors.New("document ID cannot be empty")
)

// Sidebar validation causes.
var (
	ErrEmptyID                 = errors.New("document reference has an empty id")
	ErrDuplicateID             = errors.New("document referenced more than once")
	ErrEmptyLabel              = errors.New("category has an empty label")
	ErrEmptyCategory           = errors.New("category has no items")
	ErrEmptySidebarName        = errors.New("sidebar has an empty name")
	ErrDuplicateSidebar        = errors.New("sidebar name declared more than once")
	ErrEmptySidebar            = errors.New("sidebar has no items")
	ErrCollapsedNotCollapsible = errors.New("category is collapsed but not collapsible")
	ErrAmbiguousItem           = errors.New("item is both a document reference and a category")
)

// Sidebar decoding causes.
var (
	ErrUnknownItemType = errors.New("unknown sidebar item type")
	ErrUnknownField    = errors.New("unknown sidebar item field")
	ErrInvalidItem     = errors.New("sidebar item must be a string or an object")
)

// Problem is a single validation failure located inside the sidebar configuration.
type Problem struct {
	// Path locates the item, e.g. "guideSidebar[1].items[3]".
	Path string
	Err  error
}

func (p Problem) Error() string {
	if p.Path == "" {
		return p.Err.Error()
	}
	return fmt.Sprintf("%s: %v", p.Path, p.Err)
}

func (p Problem) Unwrap() error {
	return p.Err
}

// MarshalJSON encodes the problem as its path and message.
func (p Problem) MarshalJSON() ([]byte, error) {
	msg := ""
	if p.Err != nil {
		msg = p.Err.Error()
	}
	return json.Marshal(struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	}{p.Path, msg})
}

// ValidationError collects every problem found in a sidebar configuration.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid sidebar: " + e.Problems[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid sidebar: %d problems", len(e.Problems))
	for _, p := range e.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p.Error())
	}
	return b.String()
}

// Unwrap exposes each problem to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Problems))
	for i, p := range e.Problems {
		errs[i] = p
	}
	return errs
}
