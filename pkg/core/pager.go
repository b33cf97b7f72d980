package core

import (
	"context"
	"errors"
	"fmt"
)

// Link points at a neighbouring page.
type Link struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Page is the pagination of a document: its neighbours in display order.
type Page struct {
	Sidebar string `json:"sidebar"`
	Prev    *Link  `json:"prev,omitempty"`
	Next    *Link  `json:"next,omitempty"`
}

// ErrNotInSidebar is returned when a document is not referenced by any sidebar.
var ErrNotInSidebar = errors.New("document is not in any sidebar")

// Pager returns the previous and next pages of id, following the first sidebar that lists it.
// Titles are resolved from the repository; missing pages fall back to their ID.
func (s *Service) Pager(ctx context.Context, sidebars Sidebars, id string) (Page, error) {
	sb, ok := sidebars.Locate(id)
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrNotInSidebar, id)
	}
	prev, next, _ := sb.Neighbors(id)
	page := Page{Sidebar: sb.Name}
	if prev != "" {
		page.Prev = s.link(ctx, prev)
	}
	if next != "" {
		page.Next = s.link(ctx, next)
	}
	return page, nil
}

func (s *Service) link(ctx context.Context, id string) *Link {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Debug("pager target not readable", "id", id, "error", err)
		return &Link{ID: id, Title: baseName(id)}
	}
	doc.ID = id
	return &Link{ID: id, Title: doc.Title()}
}
