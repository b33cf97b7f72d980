// Package codec reads and writes sidebar files in the formats the site
// generator accepts: JSON, YAML and JavaScript/TypeScript modules.
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/tome/pkg/core"
)

// ErrUnknownFormat is returned when no codec matches a name or file extension.
var ErrUnknownFormat = errors.New("unknown sidebar format")

// Codec converts sidebars to and from one file format.
type Codec interface {
	Name() string
	// Extensions lists the file extensions handled by the codec, with the dot.
	Extensions() []string
	Decode(r io.Reader) (core.Sidebars, error)
	Encode(w io.Writer, sbs core.Sidebars) error
}

var registry = []Codec{
	JSON{},
	YAML{},
	TypeScript{},
	JavaScript{},
}

// All returns the registered codecs.
func All() []Codec {
	return append([]Codec(nil), registry...)
}

// ForName returns the codec registered under name ("json", "yaml", "ts", ...).
func ForName(name string) (Codec, error) {
	n := strings.ToLower(strings.TrimPrefix(name, "."))
	for _, c := range registry {
		if c.Name() == n {
			return c, nil
		}
		for _, ext := range c.Extensions() {
			if ext[1:] == n {
				return c, nil
			}
		}
	}
	switch n {
	case "typescript":
		return TypeScript{}, nil
	case "javascript":
		return JavaScript{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ForPath picks the codec from the file extension of path.
func ForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	for _, c := range registry {
		for _, e := range c.Extensions() {
			if e == ext {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// Marshal encodes sidebars with the named codec into memory.
func Marshal(c Codec, sbs core.Sidebars) ([]byte, error) {
	var sb strings.Builder
	if err := c.Encode(&sb, sbs); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// Unmarshal decodes data with the given codec.
func Unmarshal(c Codec, data []byte) (core.Sidebars, error) {
	return c.Decode(strings.NewReader(string(data)))
}
