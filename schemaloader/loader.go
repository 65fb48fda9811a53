// Package schemaloader obtains the raw introspection JSON for a schema
// version. Resolution order: uncompressed file, gzip sibling (decompressed
// and written back for next time), remote introspection fetch. Only when all
// three are unavailable does loading fail.
package schemaloader

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	json "github.com/go-json-experiment/json"

	"github.com/gqlatlas/gqlatlas/client"
	"github.com/gqlatlas/gqlatlas/introspection"
)

// Locator identifies one schema version and where its artifacts live. An
// empty Endpoint means the schema is disk-only.
type Locator struct {
	Headers  http.Header
	Name     string
	Version  string
	Dir      string
	Endpoint string
}

// Path is the deterministic location of the uncompressed artifact.
func (l Locator) Path() string {
	return filepath.Join(l.Dir, fmt.Sprintf("%s-%s.json", l.Name, l.Version))
}

// GzipPath is the compressed sibling of Path.
func (l Locator) GzipPath() string {
	return l.Path() + ".gz"
}

// LoadError means no artifact exists at the locator and no remote source is
// configured.
type LoadError struct {
	Err     error
	Name    string
	Version string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load schema %s-%s: %v", e.Name, e.Version, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type Loader struct {
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Loader)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(l *Loader) {
		l.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

func NewLoader(options ...Option) *Loader {
	loader := &Loader{
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(loader)
	}

	return loader
}

// LoadText returns the introspection JSON for the locator as a string.
func (l *Loader) LoadText(ctx context.Context, loc Locator) (string, error) {
	raw, err := os.ReadFile(loc.Path())
	if err == nil {
		return string(raw), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", &LoadError{Err: err, Name: loc.Name, Version: loc.Version}
	}

	raw, err = l.readGzip(loc.GzipPath())
	if err == nil {
		// Write-through so the next load skips decompression. Failure
		// here degrades, it never fails the load.
		l.persist(loc.Path(), raw)

		return string(raw), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", &LoadError{Err: err, Name: loc.Name, Version: loc.Version}
	}

	if loc.Endpoint == "" {
		return "", &LoadError{
			Err:     fmt.Errorf("no artifact at %s or %s and no endpoint configured", loc.Path(), loc.GzipPath()),
			Name:    loc.Name,
			Version: loc.Version,
		}
	}

	raw, err = l.fetch(ctx, loc)
	if err != nil {
		return "", &LoadError{Err: err, Name: loc.Name, Version: loc.Version}
	}
	l.persist(loc.Path(), raw)

	return string(raw), nil
}

func (l *Loader) readGzip(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open gzip artifact %s: %w", path, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress artifact %s: %w", path, err)
	}

	return raw, nil
}

func (l *Loader) fetch(ctx context.Context, loc Locator) ([]byte, error) {
	gqlClient := client.NewClient(loc.Endpoint, client.WithHTTPClient(l.httpClient), client.WithHTTPHeader(loc.Headers))

	var doc introspection.Document
	if err := gqlClient.Post(ctx, "IntrospectionQuery", introspection.Query, nil, &doc); err != nil {
		return nil, fmt.Errorf("introspection query failed: %w", err)
	}
	if doc.Schema.Types == nil {
		return nil, fmt.Errorf("introspection response from %s has no __schema.types", loc.Endpoint)
	}

	raw, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode introspection document: %w", err)
	}

	return raw, nil
}

// persist writes the uncompressed artifact, creating the directory when
// needed. Best effort: failures are logged and swallowed.
func (l *Loader) persist(path string, raw []byte) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.logger.Warn("failed to create schema cache dir", "path", filepath.Dir(path), "error", err)

		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		l.logger.Warn("failed to write schema cache file", "path", path, "error", err)
	}
}
