package main

// Config file support. Queries are configured from a TOML file — the
// `BIBQL_CONFIG` environment variable if set, otherwise "~/.bibql.toml" —
// holding scalar settings (`defaultField`, `color`) and an `[aliases]`
// sub-table of field-alias overrides.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/bibql/go-bibql/internal/lg"
)

type config struct {
	tree *toml.Tree
}

// get returns the item at `key` asserted to T. Absent keys and values of
// the wrong type report !ok; type mismatches are debug-logged rather than
// fatal, so a stray config line cannot break query parsing.
func get[T any](c *config, key string) (val T, ok bool) {
	if c.tree == nil {
		return val, false
	}
	item := c.tree.Get(key)
	if item == nil {
		return val, false
	}
	val, ok = item.(T)
	if !ok {
		lg.Debugf("ignore config value %s=%v: got %T, want %T", key, item, item, val)
	}
	return val, ok
}

// GetBool gets the value of the `key` from the config file if it is a bool
// value.
func (c *config) GetBool(key string) (bool, bool) {
	return get[bool](c, key)
}

// GetString gets the value of the `key` from the config file if it is a
// string value.
func (c *config) GetString(key string) (string, bool) {
	return get[string](c, key)
}

// GetTree gets the sub-table at `key` from the config file, or nil.
func (c *config) GetTree(key string) *toml.Tree {
	tree, _ := get[*toml.Tree](c, key)
	return tree
}

// configPath returns the config file to load: $BIBQL_CONFIG when set,
// otherwise ~/.bibql.toml, or "" when no home directory is known.
func configPath() string {
	if path := os.Getenv("BIBQL_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bibql.toml")
}

// loadConfig loads the config file. A missing file is not an error: it
// yields an empty config whose accessors all report !ok.
func loadConfig() (*config, error) {
	path := configPath()
	if path == "" {
		return &config{}, nil
	}
	tree, err := toml.LoadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &config{}, nil
		}
		return nil, fmt.Errorf("loading %s: %s", path, err)
	}
	return &config{tree: tree}, nil
}
