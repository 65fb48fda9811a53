package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// DefaultFilenames are the config file names probed by FindConfigFile, in
// precedence order.
var DefaultFilenames = []string{".gqlatlas.yml", "gqlatlas.yml", ".gqlatlas.yaml", "gqlatlas.yaml"}

// Config represents the config file: the registry of supported schemas and
// where their introspection artifacts are cached.
type Config struct {
	CacheDir string          `yaml:"cache_dir,omitempty"`
	Schemas  []*SchemaConfig `yaml:"schemas"`
}

// SchemaConfig declares one supported schema version. Endpoint is optional;
// without it the schema must already have a local artifact in the cache dir.
type SchemaConfig struct {
	Endpoint *EndpointConfig `yaml:"endpoint,omitempty"`
	Name     string          `yaml:"name"`
	Version  string          `yaml:"version"`
}

// EndpointConfig are the allowed options for a schema's 'endpoint'.
type EndpointConfig struct {
	Headers http.Header `yaml:"headers,omitempty"`
	URL     string      `yaml:"url"`
}

// FindConfigFile returns the first of filenames that exists in dir.
func FindConfigFile(dir string, filenames []string) (string, error) {
	for _, filename := range filenames {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no config file found in %s (looked for %v)", dir, filenames)
}

// Load loads and parses the config file. Environment variable references in
// the file are expanded before parsing.
func Load(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var c Config

	yamlDecoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(configContent)))), yaml.DisallowUnknownField())
	if err := yamlDecoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	// validation
	if len(c.Schemas) == 0 {
		return nil, errors.New("no schemas configured; at least one entry under 'schemas' is required")
	}

	seen := make(map[string]bool, len(c.Schemas))
	for _, sc := range c.Schemas {
		if sc.Name == "" || sc.Version == "" {
			return nil, errors.New("every schema needs both 'name' and 'version'")
		}
		if seen[sc.Name] {
			return nil, fmt.Errorf("duplicate schema name %q", sc.Name)
		}
		seen[sc.Name] = true

		if sc.Endpoint != nil && sc.Endpoint.URL == "" {
			return nil, fmt.Errorf("schema %q: 'endpoint' is set but has no 'url'", sc.Name)
		}
	}

	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir()
	}

	return &c, nil
}

// Schema returns the config entry for name, or nil when name is not a
// supported schema.
func (c *Config) Schema(name string) *SchemaConfig {
	for _, sc := range c.Schemas {
		if sc.Name == name {
			return sc
		}
	}

	return nil
}

// SchemaNames lists the supported schema names in config order.
func (c *Config) SchemaNames() []string {
	names := make([]string, 0, len(c.Schemas))
	for _, sc := range c.Schemas {
		names = append(names, sc.Name)
	}

	return names
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".gqlatlas"
	}

	return filepath.Join(base, "gqlatlas")
}
