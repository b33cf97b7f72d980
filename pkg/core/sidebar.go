package core

// Item is a single entry of a sidebar.
// It is either a document reference (DocID set) or a category (Category set), never both.
type Item struct {
	// DocID is the opaque identifier of the referenced page.
	DocID string
	// Label overrides the page title in the navigation panel.
	// Only meaningful for document references.
	Label string
	// Category is set when the item is a collapsible group.
	Category *Category
}

// Category is a labeled group of sidebar items.
type Category struct {
	Label       string
	Collapsible bool
	Collapsed   bool
	Items       []Item
}

// Sidebar is a named, ordered navigation tree.
type Sidebar struct {
	Name  string
	Items []Item
}

// Sidebars is the full sidebar configuration of a docs site.
// The slice order is the key order of the exported object.
type Sidebars []Sidebar

// Doc returns a document reference item.
func Doc(id string) Item {
	return Item{DocID: id}
}

// LabeledDoc returns a document reference with an explicit navigation label.
func LabeledDoc(id, label string) Item {
	return Item{DocID: id, Label: label}
}

// Cat returns a collapsible, expanded category.
func Cat(label string, items ...Item) Item {
	return Item{Category: &Category{
		Label:       label,
		Collapsible: true,
		Collapsed:   false,
		Items:       items,
	}}
}

// Docs is a shorthand for a run of document references.
func Docs(ids ...string) []Item {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Doc(id))
	}
	return items
}

// IsDoc reports whether the item references a document.
func (i Item) IsDoc() bool {
	return i.Category == nil && i.DocID != ""
}

// IsCategory reports whether the item is a category.
func (i Item) IsCategory() bool {
	return i.Category != nil
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := Item{DocID: i.DocID, Label: i.Label}
	if i.Category != nil {
		c := *i.Category
		c.Items = cloneItems(i.Category.Items)
		out.Category = &c
	}
	return out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for idx, it := range items {
		out[idx] = it.Clone()
	}
	return out
}

// Clone returns a deep copy of the sidebar.
func (s Sidebar) Clone() Sidebar {
	return Sidebar{Name: s.Name, Items: cloneItems(s.Items)}
}

// Clone returns a deep copy of the configuration.
func (s Sidebars) Clone() Sidebars {
	if s == nil {
		return nil
	}
	out := make(Sidebars, len(s))
	for i, sb := range s {
		out[i] = sb.Clone()
	}
	return out
}

// Get returns the sidebar with the given name.
func (s Sidebars) Get(name string) (Sidebar, bool) {
	for _, sb := range s {
		if sb.Name == name {
			return sb, true
		}
	}
	return Sidebar{}, false
}

// Names returns the sidebar names in declaration order.
func (s Sidebars) Names() []string {
	names := make([]string, 0, len(s))
	for _, sb := range s {
		names = append(names, sb.Name)
	}
	return names
}

// Set replaces the sidebar with the same name, or appends it.
func (s Sidebars) Set(sb Sidebar) Sidebars {
	for i := range s {
		if s[i].Name == sb.Name {
			s[i] = sb
			return s
		}
	}
	return append(s, sb)
}
