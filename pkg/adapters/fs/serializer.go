package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tome/pkg/core"
)

// Serializer defines how a page format is read and written.
type Serializer interface {
	// Parse reads from r and returns a Document without ID.
	Parse(r io.Reader) (*core.Document, error)
	// Serialize converts the Document to bytes.
	Serialize(doc core.Document) ([]byte, error)
}

// DefaultSerializers returns the page formats understood by the site generator.
func DefaultSerializers() map[string]Serializer {
	md := NewMarkdownSerializer()
	return map[string]Serializer{
		".md":  md,
		".mdx": md,
	}
}

// frontMatterOrder lists the keys written first, in this order. Other keys follow sorted.
var frontMatterOrder = []string{"id", "title", "sidebar_label", "sidebar_position", "description"}

// MarkdownSerializer handles Markdown files with a YAML frontmatter block.
type MarkdownSerializer struct{}

// NewMarkdownSerializer creates a new Markdown serializer.
func NewMarkdownSerializer() *MarkdownSerializer {
	return &MarkdownSerializer{}
}

var errUnclosedFrontMatter = errors.New("frontmatter started but no closing delimiter found")

func (s *MarkdownSerializer) Parse(r io.Reader) (*core.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &core.Document{Metadata: make(core.Metadata)}

	var rest []byte
	switch {
	case bytes.HasPrefix(data, []byte("---\n")):
		rest = data[4:]
	case bytes.HasPrefix(data, []byte("---\r\n")):
		rest = data[5:]
	default:
		doc.Content = string(data)
		return doc, nil
	}

	// The block ends at the first line that is exactly "---".
	var yamlData, content []byte
	found := false
	for offset := 0; offset <= len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		next := len(rest) + 1
		if end >= 0 {
			line = rest[offset : offset+end]
			next = offset + end + 1
		}
		if string(bytes.TrimRight(line, "\r")) == "---" {
			yamlData = rest[:offset]
			if next <= len(rest) {
				content = rest[next:]
			}
			found = true
			break
		}
		offset = next
	}
	if !found {
		return nil, errUnclosedFrontMatter
	}

	if err := yaml.Unmarshal(yamlData, &doc.Metadata); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if doc.Metadata == nil {
		doc.Metadata = make(core.Metadata)
	}
	doc.Content = string(content)
	return doc, nil
}

func (s *MarkdownSerializer) Serialize(doc core.Document) ([]byte, error) {
	var buf bytes.Buffer
	if len(doc.Metadata) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(orderedMetadata(doc.Metadata)); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	}
	buf.WriteString(doc.Content)
	return buf.Bytes(), nil
}

// orderedMetadata builds a mapping node with the well-known keys first.
func orderedMetadata(meta core.Metadata) *yaml.Node {
	keys := make([]string, 0, len(meta))
	rank := make(map[string]int, len(frontMatterOrder))
	for i, k := range frontMatterOrder {
		rank[k] = i
	}
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return keys[i] < keys[j]
	})

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var val yaml.Node
		if err := val.Encode(meta[k]); err != nil {
			val = yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(meta[k])}
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node
}

// parseCategoryFile reads a _category_.json or _category_.yml file.
func parseCategoryFile(ext string, data []byte) (core.CategoryMeta, error) {
	raw := make(map[string]any)
	var err error
	switch ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = fmt.Errorf("unsupported category file extension %q", ext)
	}
	if err != nil {
		return core.CategoryMeta{}, err
	}

	var meta core.CategoryMeta
	if err := core.DecodeMetadata(raw, &meta); err != nil {
		return core.CategoryMeta{}, err
	}
	return meta, nil
}
