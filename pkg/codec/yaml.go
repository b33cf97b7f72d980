package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tome/pkg/core"
	"github.com/aretw0/tome/pkg/schema"
)

// YAML reads and writes sidebars in YAML, with the same shape as JSON.
type YAML struct{}

// Name returns "yaml".
func (YAML) Name() string { return "yaml" }

// Extensions returns ".yaml" and ".yml".
func (YAML) Extensions() []string { return []string{".yaml", ".yml"} }

// Decode validates r against the sidebar schema and decodes it.
func (YAML) Decode(r io.Reader) (core.Sidebars, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty sidebars document")
		}
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	var generic any
	if err := node.Decode(&generic); err != nil {
		return nil, err
	}
	if err := schema.ValidateSidebars(generic); err != nil {
		return nil, err
	}

	var sbs core.Sidebars
	if err := node.Decode(&sbs); err != nil {
		return nil, fmt.Errorf("failed to decode sidebars: %w", err)
	}
	return sbs, nil
}

// Encode writes block-style YAML.
func (YAML) Encode(w io.Writer, sbs core.Sidebars) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sbs); err != nil {
		return err
	}
	return enc.Close()
}
