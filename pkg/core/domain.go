package core

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Metadata represents the frontmatter key-value pairs of a document.
type Metadata map[string]any

// Document is a content page of the docs tree.
// Its ID is the identifier a sidebar references.
type Document struct {
	ID       string
	Content  string
	Metadata Metadata
}

// FrontMatter is the subset of page metadata the sidebar tooling understands.
type FrontMatter struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	SidebarLabel    string   `yaml:"sidebar_label"`
	SidebarPosition *float64 `yaml:"sidebar_position"`
	Description     string   `yaml:"description"`
}

// FrontMatter decodes the known keys of the document metadata.
// Unknown keys are ignored.
func (d Document) FrontMatter() (FrontMatter, error) {
	var fm FrontMatter
	if err := DecodeMetadata(d.Metadata, &fm); err != nil {
		return FrontMatter{}, fmt.Errorf("frontmatter of %s: %w", d.ID, err)
	}
	return fm, nil
}

// DecodeMetadata decodes a generic metadata map into a struct using its yaml tags.
func DecodeMetadata(meta map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create metadata decoder: %w", err)
	}
	return decoder.Decode(meta)
}

// Title returns the best display name of the document.
func (d Document) Title() string {
	if v, ok := d.Metadata["sidebar_label"].(string); ok && v != "" {
		return v
	}
	if v, ok := d.Metadata["title"].(string); ok && v != "" {
		return v
	}
	return baseName(d.ID)
}

// CategoryMeta describes a directory of the docs tree, as declared by its
// _category_ file. Dir is the slash path relative to the docs root.
type CategoryMeta struct {
	Dir         string   `yaml:"-"`
	Label       string   `yaml:"label"`
	Position    *float64 `yaml:"position"`
	Collapsible *bool    `yaml:"collapsible"`
	Collapsed   *bool    `yaml:"collapsed"`
}

// EventType represents the type of change in the docs tree.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the docs tree.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}

type contextKey string

// ChangeReasonKey is the context key for passing the reason of a batch of writes.
const ChangeReasonKey contextKey = "change_reason"

func baseName(id string) string {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '/' {
			return id[i+1:]
		}
	}
	return id
}
