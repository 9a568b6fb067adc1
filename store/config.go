package store

import (
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/pkg"
)

// Alias names a template together with variables to load it with.
type Alias struct {
	Template string    `yaml:"template"`
	Vars     lang.Vars `yaml:"vars,omitempty"`
}

// Config is the global configuration file.
//
//	vars:
//	  author: me
//	aliases:
//	  gocli:
//	    template: go
//	    vars: {kind: cli}
//	options:
//	  prompt: ask
//	  log-level: debug
type Config struct {
	// Vars are supplied to every load, below alias and command-line variables.
	Vars lang.Vars `yaml:"vars,omitempty"`
	// Aliases maps alias names to templates.
	Aliases map[string]Alias `yaml:"aliases,omitempty"`
	// Options holds default values of command-line flags, keyed by flag name.
	Options map[string]any `yaml:"options,omitempty"`
}

// LoadConfig reads the config file at path. A missing file is an empty
// config.
func LoadConfig(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, ErrReadConfig.Wrap(err).With(slog.String("path", path))
	}

	var c Config

	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return nil, ErrReadConfig.Wrap(err).With(slog.String("path", path))
	}

	return &c, nil
}

// Save writes c to path, creating its directory.
func (c *Config) Save(fsys afero.Fs, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return ErrWriteConfig.Wrap(err).With(slog.String("path", path))
	}

	err = fsys.MkdirAll(filepath.Dir(path), pkg.DirMode)
	if err != nil {
		return ErrWriteConfig.Wrap(err).With(slog.String("path", path))
	}

	err = afero.WriteFile(fsys, path, data, 0o600)
	if err != nil {
		return ErrWriteConfig.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

// SetAlias adds or replaces alias name.
func (c *Config) SetAlias(name string, a Alias) error {
	err := validName(name)
	if err != nil {
		return err
	}

	err = validName(a.Template)
	if err != nil {
		return err
	}

	if c.Aliases == nil {
		c.Aliases = map[string]Alias{}
	}

	c.Aliases[name] = a

	return nil
}

// RemoveAlias deletes alias name.
func (c *Config) RemoveAlias(name string) error {
	if _, ok := c.Aliases[name]; !ok {
		return ErrAliasNotFound.With(slog.String("alias", name))
	}

	delete(c.Aliases, name)

	return nil
}

// AliasNames returns the alias names in lexical order.
func (c *Config) AliasNames() []string {
	return slices.Sorted(maps.Keys(c.Aliases))
}

// Resolve returns the template that name refers to and the configured
// variables to load it with: the global variables, overridden by those of
// the alias if name is one. A name that is not an alias refers to the
// template of the same name.
func (c *Config) Resolve(name string) (string, lang.Vars) {
	vars := c.Vars.Clone()

	a, ok := c.Aliases[name]
	if !ok {
		return name, vars
	}

	return a.Template, vars.Merge(a.Vars)
}
