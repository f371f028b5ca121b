package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config describes where to load a YAML configuration file from. It is
// registered alongside the command flags so a file can override the
// defaults.
type Config struct {
	// Path is the YAML file to load. If empty no file is loaded.
	Path string

	// ExpandEnv enables expanding environment variables in the file.
	ExpandEnv bool
}

func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(
		&c.Path,
		"config.path",
		"",
		`
YAML config file path.`,
	)
	fs.BoolVar(
		&c.ExpandEnv,
		"config.expand-env",
		false,
		`
Whether to expand environment variables in the config file.

This will replaces references to ${VAR} or $VAR with the corresponding
environment variable. The replacement is case-sensitive.

References to undefined variables will be replaced with an empty string. A
default value can be given using form ${VAR:default}.`,
	)
}

// Load decodes the YAML file at path into conf. Fields not present in the
// file keep their existing values. An empty path is a no-op.
func Load(conf interface{}, path string, expandEnv bool) error {
	if path == "" {
		return nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %s: %w", path, err)
	}

	if expandEnv {
		buf = []byte(os.Expand(string(buf), expandVar))
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)

	if err := dec.Decode(conf); err != nil {
		return fmt.Errorf("parse config: %s: %w", path, err)
	}

	return nil
}

// expandVar looks up the environment variable s, where s may include a
// default value using the form 'VAR:default'.
func expandVar(s string) string {
	name, def, hasDefault := strings.Cut(s, ":")
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	if hasDefault {
		return def
	}
	return ""
}
