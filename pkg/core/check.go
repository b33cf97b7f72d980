package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Reference locates a sidebar entry.
type Reference struct {
	Sidebar     string   `json:"sidebar"`
	ID          string   `json:"id"`
	Breadcrumbs []string `json:"breadcrumbs,omitempty"`
}

// ErrDanglingReference is reported for sidebar entries without a page.
var ErrDanglingReference = errors.New("sidebar references a missing document")

// Report is the outcome of checking sidebars against a docs tree.
type Report struct {
	// Validation holds the structural problems, if any (*ValidationError).
	Validation error `json:"-"`
	// Problems lists the entries of Validation for machine-readable output.
	Problems []Problem `json:"problems,omitempty"`
	// Dangling lists references that resolve to no page.
	Dangling []Reference `json:"dangling,omitempty"`
	// Unlisted lists pages that no sidebar references. Informational only.
	Unlisted []string `json:"unlisted,omitempty"`
	// Documents is the number of pages in the tree.
	Documents int `json:"documents"`
}

// Err returns the blocking problems of the report joined into one error.
func (r Report) Err() error {
	var errs []error
	if r.Validation != nil {
		errs = append(errs, r.Validation)
	}
	for _, ref := range r.Dangling {
		errs = append(errs, fmt.Errorf("%w: %s (sidebar %s)", ErrDanglingReference, ref.ID, ref.Sidebar))
	}
	return errors.Join(errs...)
}

// OK reports whether the sidebars passed every check.
func (r Report) OK() bool {
	return r.Err() == nil
}

// Check validates the sidebars and resolves every reference against the repository.
// The returned error is only set when the repository cannot be read.
func (s *Service) Check(ctx context.Context, sidebars Sidebars) (Report, error) {
	report := Report{Validation: sidebars.Validate()}
	var verr *ValidationError
	if errors.As(report.Validation, &verr) {
		report.Problems = verr.Problems
	}

	docs, err := s.repo.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list documents: %w", err)
	}
	report.Documents = len(docs)

	known := make(map[string]bool, len(docs))
	for _, d := range docs {
		known[d.ID] = true
	}

	referenced := make(map[string]bool)
	for _, sb := range sidebars {
		err := sb.Walk(func(path []string, it Item) error {
			if !it.IsDoc() {
				return nil
			}
			referenced[it.DocID] = true
			if !known[it.DocID] {
				report.Dangling = append(report.Dangling, Reference{
					Sidebar:     sb.Name,
					ID:          it.DocID,
					Breadcrumbs: append([]string(nil), path...),
				})
			}
			return nil
		})
		if err != nil {
			return report, err
		}
	}

	for id := range known {
		if !referenced[id] {
			report.Unlisted = append(report.Unlisted, id)
		}
	}
	sort.Strings(report.Unlisted)

	s.recordCheck(len(sidebars), report)
	s.logger.Debug("sidebars checked",
		"documents", report.Documents,
		"dangling", len(report.Dangling),
		"unlisted", len(report.Unlisted),
	)
	return report, nil
}
