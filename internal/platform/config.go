package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names, in lookup order.
var configFiles = []string{"tome.yaml", "tome.yml"}

// EnvPrefix prefixes the environment overrides (TOME_DOCS_DIR -> docs_dir).
const EnvPrefix = "TOME_"

// Defaults of a Docusaurus site layout.
const (
	DefaultDocsDir     = "docs"
	DefaultSidebars    = "sidebars.ts"
	DefaultRawDir      = "raw"
	DefaultSystemDir   = ".tome"
	DefaultConcurrency = 4
)

// Config is the tome.yaml project configuration.
type Config struct {
	DocsDir     string   `koanf:"docs_dir" yaml:"docs_dir,omitempty" jsonschema:"description=Docs directory relative to the project root,default=docs"`
	Sidebars    string   `koanf:"sidebars" yaml:"sidebars,omitempty" jsonschema:"description=Sidebars file (.ts .js .json .yaml),default=sidebars.ts"`
	RawDir      string   `koanf:"raw_dir" yaml:"raw_dir,omitempty" jsonschema:"description=Directory of raw chapter dumps,default=raw"`
	SystemDir   string   `koanf:"system_dir" yaml:"system_dir,omitempty" jsonschema:"description=Cache directory inside the docs tree,default=.tome"`
	Exclude     []string `koanf:"exclude" yaml:"exclude,omitempty" jsonschema:"description=Doublestar patterns of files that are not pages"`
	ReadOnly    bool     `koanf:"read_only" yaml:"read_only,omitempty" jsonschema:"description=Never write to the docs tree"`
	Concurrency int      `koanf:"concurrency" yaml:"concurrency,omitempty" jsonschema:"description=Chapters converted in parallel,minimum=1,default=4"`
	Verbose     bool     `koanf:"verbose" yaml:"verbose,omitempty" jsonschema:"description=Debug logging"`

	// Root is the project root the relative paths were resolved against.
	Root string `koanf:"-" yaml:"-"`
	// File is the config file that was loaded, if any.
	File string `koanf:"-" yaml:"-"`
}

// Options maps the configuration to service options.
func (c *Config) Options() []Option {
	opts := []Option{
		WithSystemDir(c.SystemDir),
		WithReadOnly(c.ReadOnly),
	}
	if len(c.Exclude) > 0 {
		opts = append(opts, WithExclude(c.Exclude))
	}
	return opts
}

// pathKeys are resolved against the project root unless set by a flag.
var pathKeys = map[string]bool{"docs_dir": true, "sidebars": true, "raw_dir": true}

// LoadConfig loads the configuration of the project containing dir.
// Precedence (highest to lowest): flags > TOME_ env vars > config file > defaults.
// An explicit cfgFile anchors the project root at its directory. Otherwise the
// root is found with FindRoot, falling back to dir itself. Only flags that
// were explicitly set override lower layers.
func LoadConfig(dir, cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	root := absDir
	if cfgFile != "" {
		abs, err := filepath.Abs(cfgFile)
		if err != nil {
			return nil, err
		}
		cfgFile = abs
		root = filepath.Dir(abs)
	} else if found, err := FindRoot(absDir); err == nil {
		root = found
	} else if !errors.Is(err, ErrRootNotFound) {
		return nil, err
	}

	if cfgFile == "" {
		for _, name := range configFiles {
			if candidate := filepath.Join(root, name); hasFile(root, name) {
				cfgFile = candidate
				break
			}
		}
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"docs_dir":    DefaultDocsDir,
		"sidebars":    DefaultSidebars,
		"raw_dir":     DefaultRawDir,
		"system_dir":  DefaultSystemDir,
		"concurrency": DefaultConcurrency,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Flag paths are relative to the working directory, not the project root.
	fromFlags := map[string]string{}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			val := posflag.FlagVal(flags, f)
			if s, ok := val.(string); ok && pathKeys[key] {
				if abs, err := filepath.Abs(s); err == nil {
					fromFlags[key] = abs
				}
			}
			return key, val
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Root = root
	cfg.File = cfgFile

	resolve := func(key, p string) string {
		if abs, ok := fromFlags[key]; ok {
			return abs
		}
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	cfg.DocsDir = resolve("docs_dir", cfg.DocsDir)
	cfg.Sidebars = resolve("sidebars", cfg.Sidebars)
	cfg.RawDir = resolve("raw_dir", cfg.RawDir)

	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	return &cfg, nil
}

// ConfigSchema returns the JSON Schema of tome.yaml.
func ConfigSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "tome configuration"
	schema.Description = "Schema of the tome.yaml project file."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
