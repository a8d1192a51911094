package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Image is one rendered keyframe handed to the generator.
type Image struct {
	Path string
	Data []byte
}

// Outputs is the generator's result for one image.
type Outputs struct {
	Asset       []byte
	ContentType string
}

// Runner runs the generator on a single image.
type Runner interface {
	Run(ctx context.Context, image Image, seed int64) (*Outputs, error)
}

// Exporter persists generator outputs to path.
type Exporter interface {
	Export(ctx context.Context, out *Outputs, path string) error
}

// Pipeline is a generator that can both run and export.
type Pipeline interface {
	Runner
	Exporter
}

// LoadImage reads a keyframe image from disk.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image '%s': %w", path, err)
	}
	return Image{Path: path, Data: data}, nil
}

// WriteAsset writes out.Asset to a temporary file next to path and renames
// it into place. Parent directories are created as needed.
func WriteAsset(out *Outputs, path string) error {
	if out == nil || len(out.Asset) == 0 {
		return fmt.Errorf("no asset to export to '%s'", path)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in '%s': %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out.Asset); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move asset into place at '%s': %w", path, err)
	}
	return nil
}
