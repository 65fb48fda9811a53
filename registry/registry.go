// Package registry ties the configured schema set to the loader and the SDL
// compiler. It is the single shared owner of the compiled-schema cache, so
// concurrent searches and validations reuse one schema per (name, version).
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlatlas/gqlatlas/config"
	"github.com/gqlatlas/gqlatlas/schemaloader"
	"github.com/gqlatlas/gqlatlas/sdl"
)

type Registry struct {
	cfg    *config.Config
	loader *schemaloader.Loader
	cache  *sdl.Cache
}

// New builds a registry over cfg. loader may be nil, in which case a default
// loader is used.
func New(cfg *config.Config, loader *schemaloader.Loader) *Registry {
	if loader == nil {
		loader = schemaloader.NewLoader()
	}

	return &Registry{
		cfg:    cfg,
		loader: loader,
		cache:  sdl.NewCache(),
	}
}

// Supported lists the configured schema names.
func (r *Registry) Supported() []string {
	return r.cfg.SchemaNames()
}

// RawDocument loads the introspection JSON for the named schema.
func (r *Registry) RawDocument(ctx context.Context, name string) ([]byte, error) {
	sc := r.cfg.Schema(name)
	if sc == nil {
		return nil, r.unsupportedError(name)
	}

	text, err := r.loader.LoadText(ctx, r.locator(sc))
	if err != nil {
		return nil, err
	}

	return []byte(text), nil
}

// Schema returns the compiled schema for the named schema, compiling and
// caching it on first use.
func (r *Registry) Schema(ctx context.Context, name string) (*ast.Schema, error) {
	sc := r.cfg.Schema(name)
	if sc == nil {
		return nil, r.unsupportedError(name)
	}

	if schema, ok := r.cache.Get(sc.Name, sc.Version); ok {
		return schema, nil
	}

	raw, err := r.RawDocument(ctx, name)
	if err != nil {
		return nil, err
	}

	schema, err := sdl.Compile(raw)
	if err != nil {
		return nil, err
	}
	r.cache.Put(sc.Name, sc.Version, schema)

	return schema, nil
}

// Invalidate drops the cached compiled schema for name, forcing the next
// Schema call to reload and recompile.
func (r *Registry) Invalidate(name string) {
	if sc := r.cfg.Schema(name); sc != nil {
		r.cache.Invalidate(sc.Name, sc.Version)
	}
}

func (r *Registry) locator(sc *config.SchemaConfig) schemaloader.Locator {
	loc := schemaloader.Locator{
		Name:    sc.Name,
		Version: sc.Version,
		Dir:     r.cfg.CacheDir,
	}
	if sc.Endpoint != nil {
		loc.Endpoint = sc.Endpoint.URL
		loc.Headers = sc.Endpoint.Headers
	}

	return loc
}

func (r *Registry) unsupportedError(name string) error {
	return fmt.Errorf("unsupported schema %q; supported schemas: %s", name, strings.Join(r.Supported(), ", "))
}
