package config

import "context"

// Loader is the interface for a format-specific job loader.
type Loader interface {
	// Load reads the job file at path, applies defaults and validates it.
	Load(ctx context.Context, path string) (*Job, error)
}
