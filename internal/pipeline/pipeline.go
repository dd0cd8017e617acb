// Package pipeline chains per-record cleaning middleware applied to
// resolved fields before assembly.
package pipeline

import (
	"log/slog"

	"github.com/newshound/newshound/internal/types"
)

// FieldSet is the mutable set of resolved fields flowing through the
// pipeline, keyed by logical field name.
type FieldSet map[string]types.ExtractedField

// Get returns the value of a field, or "" when absent.
func (fs FieldSet) Get(name string) string {
	return fs[name].Value
}

// SetValue replaces a field's value, keeping its provenance.
func (fs FieldSet) SetValue(name, value string) {
	f := fs[name]
	f.Name = name
	f.Value = value
	fs[name] = f
}

// Middleware processes a field set and returns the (possibly modified)
// set.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms the field set.
	Process(fields FieldSet) (FieldSet, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the field set through all middleware in order.
func (p *Pipeline) Process(fields FieldSet) (FieldSet, error) {
	current := fields
	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, err
		}
		current = result
	}
	return current, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}
