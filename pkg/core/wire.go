package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Item types of the long object form.
const (
	TypeCategory = "category"
	TypeDoc      = "doc"
)

// categoryWire fixes the key order of an encoded category.
type categoryWire struct {
	Type        string `json:"type" yaml:"type"`
	Label       string `json:"label" yaml:"label"`
	Collapsible bool   `json:"collapsible" yaml:"collapsible"`
	Collapsed   bool   `json:"collapsed" yaml:"collapsed"`
	Items       []Item `json:"items" yaml:"items"`
}

type docWire struct {
	Type  string `json:"type" yaml:"type"`
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// wireValue returns the value encoded for an item: a bare string for plain
// references, an object otherwise.
func (i Item) wireValue() any {
	switch {
	case i.Category != nil:
		items := i.Category.Items
		if items == nil {
			items = []Item{}
		}
		return categoryWire{
			Type:        TypeCategory,
			Label:       i.Category.Label,
			Collapsible: i.Category.Collapsible,
			Collapsed:   i.Category.Collapsed,
			Items:       items,
		}
	case i.Label != "":
		return docWire{Type: TypeDoc, ID: i.DocID, Label: i.Label}
	default:
		return i.DocID
	}
}

// MarshalJSON implements json.Marshaler.
func (i Item) MarshalJSON() ([]byte, error) {
	return marshalJSON(i.wireValue())
}

// marshalJSON is json.Marshal without HTML escaping, so labels such as
// "Q&A" stay readable in the emitted file.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalYAML implements yaml.Marshaler.
func (i Item) MarshalYAML() (any, error) {
	return i.wireValue(), nil
}

// objectFields holds the decoded keys of an item object. Missing booleans
// fall back to the site generator defaults: collapsible, and collapsed
// unless the category cannot collapse.
type objectFields struct {
	typ         string
	id          string
	label       string
	collapsible *bool
	collapsed   *bool
	items       []Item
	hasItems    bool
}

func (f objectFields) item() (Item, error) {
	switch f.typ {
	case TypeCategory:
		if f.id != "" {
			return Item{}, fmt.Errorf("%w: \"id\" on a category", ErrUnknownField)
		}
		c := &Category{Label: f.label, Collapsible: true, Collapsed: true, Items: f.items}
		if f.collapsible != nil {
			c.Collapsible = *f.collapsible
		}
		switch {
		case f.collapsed != nil:
			c.Collapsed = *f.collapsed
		case !c.Collapsible:
			c.Collapsed = false
		}
		return Item{Category: c}, nil
	case TypeDoc:
		if f.hasItems || f.collapsible != nil || f.collapsed != nil {
			return Item{}, fmt.Errorf("%w: category keys on a doc item", ErrUnknownField)
		}
		return Item{DocID: f.id, Label: f.label}, nil
	default:
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownItemType, f.typ)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Item) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidItem
	}
	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*i = Item{DocID: id}
		return nil
	case '{':
	default:
		return fmt.Errorf("%w: got %s", ErrInvalidItem, truncate(data))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var f objectFields
	for key, val := range raw {
		var err error
		switch key {
		case "type":
			err = json.Unmarshal(val, &f.typ)
		case "id":
			err = json.Unmarshal(val, &f.id)
		case "label":
			err = json.Unmarshal(val, &f.label)
		case "collapsible":
			f.collapsible = new(bool)
			err = json.Unmarshal(val, f.collapsible)
		case "collapsed":
			f.collapsed = new(bool)
			err = json.Unmarshal(val, f.collapsed)
		case "items":
			f.hasItems = true
			err = json.Unmarshal(val, &f.items)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	item, err := f.item()
	if err != nil {
		return err
	}
	*i = item
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Item) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*i = Item{DocID: node.Value}
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("%w (line %d)", ErrInvalidItem, node.Line)
	}

	var f objectFields
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		key, val := node.Content[idx].Value, node.Content[idx+1]
		var err error
		switch key {
		case "type":
			err = val.Decode(&f.typ)
		case "id":
			err = val.Decode(&f.id)
		case "label":
			err = val.Decode(&f.label)
		case "collapsible":
			f.collapsible = new(bool)
			err = val.Decode(f.collapsible)
		case "collapsed":
			f.collapsed = new(bool)
			err = val.Decode(f.collapsed)
		case "items":
			f.hasItems = true
			err = val.Decode(&f.items)
		default:
			return fmt.Errorf("%w: %q (line %d)", ErrUnknownField, key, node.Content[idx].Line)
		}
		if err != nil {
			return fmt.Errorf("field %q (line %d): %w", key, val.Line, err)
		}
	}
	item, err := f.item()
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*i = item
	return nil
}

// MarshalJSON encodes the configuration as an object whose key order
// follows the slice order.
func (s Sidebars) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, sb := range s {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(sb.Name)
		if err != nil {
			return nil, err
		}
		items := sb.Items
		if items == nil {
			items = []Item{}
		}
		val, err := marshalJSON(items)
		if err != nil {
			return nil, fmt.Errorf("sidebar %q: %w", sb.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the configuration object keeping the key order.
func (s *Sidebars) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("sidebars must be an object, got %v", tok)
	}

	var out Sidebars
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var items []Item
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("sidebar %q: %w", name, err)
		}
		out = append(out, Sidebar{Name: name, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalYAML encodes the configuration as an ordered mapping node.
func (s Sidebars) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, sb := range s {
		items := sb.Items
		if items == nil {
			items = []Item{}
		}
		var val yaml.Node
		if err := val.Encode(items); err != nil {
			return nil, fmt.Errorf("sidebar %q: %w", sb.Name, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sb.Name}
		node.Content = append(node.Content, key, &val)
	}
	return node, nil
}

// UnmarshalYAML decodes a mapping node keeping the key order.
func (s *Sidebars) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("sidebars must be a mapping (line %d)", node.Line)
	}
	var out Sidebars
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		name := node.Content[idx].Value
		var items []Item
		if err := node.Content[idx+1].Decode(&items); err != nil {
			return fmt.Errorf("sidebar %q: %w", name, err)
		}
		out = append(out, Sidebar{Name: name, Items: items})
	}
	*s = out
	return nil
}

func truncate(b []byte) string {
	const max = 32
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
