package config

import (
	"context"
	"fmt"

	"github.com/specialistvlad/choregrapher/internal/ctxlog"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories and
	// translates it into the format-agnostic model. Files of other formats
	// are ignored.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Chain loads the same paths with every loader and merges the results in
// order.
type Chain []Loader

// Load implements Loader.
func (c Chain) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	out := &Model{}
	for i, l := range c {
		m, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		if err := out.Merge(m); err != nil {
			return nil, fmt.Errorf("loader %d: %w", i, err)
		}
	}
	logger.Debug("Configuration chain loaded.", "loaders", len(c), "models", len(out.Models))
	return out, nil
}
