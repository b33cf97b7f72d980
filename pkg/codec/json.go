package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/tome/pkg/core"
	"github.com/aretw0/tome/pkg/schema"
)

// JSON reads and writes sidebars.json files. Input is checked against the
// sidebar schema before it is decoded.
type JSON struct{}

// Name returns "json".
func (JSON) Name() string { return "json" }

// Extensions returns ".json".
func (JSON) Extensions() []string { return []string{".json"} }

// Decode validates r against the sidebar schema and decodes it.
func (JSON) Decode(r io.Reader) (core.Sidebars, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) (core.Sidebars, error) {
	if err := schema.ValidateSidebars(data); err != nil {
		return nil, err
	}
	var sbs core.Sidebars
	if err := json.Unmarshal(data, &sbs); err != nil {
		return nil, fmt.Errorf("failed to decode sidebars: %w", err)
	}
	return sbs, nil
}

// Encode writes indented JSON without HTML escaping.
func (JSON) Encode(w io.Writer, sbs core.Sidebars) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(sbs)
}
