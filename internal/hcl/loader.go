package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/vk/trellisbatch/internal/config"
	"github.com/vk/trellisbatch/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the job file at path and translates it into a config.Job.
// Relative paths in the file are resolved against the file's directory.
func (l *Loader) Load(ctx context.Context, path string) (*config.Job, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading job file.", "path", path)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve job path '%s': %w", path, err)
	}
	jobDir := filepath.Dir(absPath)

	var file jobFile
	if err := hclsimple.DecodeFile(absPath, newEvalContext(jobDir), &file); err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}

	job, err := translate(&file)
	if err != nil {
		return nil, fmt.Errorf("invalid job file %s: %w", path, err)
	}
	job.ResolvePaths(jobDir)

	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job file %s: %w", path, err)
	}

	logger.Debug("Job file loaded.", "uids", len(job.UIDs), "uid_lists", len(job.UIDLists), "cameras", job.Cameras, "keyframes", job.Keyframes)
	return job, nil
}

// translate converts the HCL schema into the agnostic model, applying
// defaults for omitted settings.
func translate(f *jobFile) (*config.Job, error) {
	job := config.NewJob()
	job.InputDir = f.InputDir
	job.OutputDir = f.OutputDir
	if f.Seed != nil {
		job.Seed = *f.Seed
	}
	if f.Keyframes != nil {
		job.Keyframes = *f.Keyframes
	}
	if f.Cameras != nil {
		job.Cameras = f.Cameras
	}

	job.UIDs = f.UIDs
	job.UIDLists = f.UIDLists
	job.ExcludeLists = f.ExcludeLists
	job.IntersectLists = f.IntersectLists
	job.MeshDirs = f.MeshDirs
	if f.LimitPerFile != nil {
		job.LimitPerFile = *f.LimitPerFile
	}
	job.Shuffle = f.Shuffle
	if f.ShuffleSeed != nil {
		seed := uint64(*f.ShuffleSeed)
		job.ShuffleSeed = &seed
	}

	job.MetadataDir = f.MetadataDir
	job.RequireMetadata = f.RequireMetadata

	if p := f.Pipeline; p != nil {
		job.Pipeline.Endpoint = p.Endpoint
		if p.Timeout != nil {
			d, err := time.ParseDuration(*p.Timeout)
			if err != nil {
				return nil, fmt.Errorf("pipeline timeout: %w", err)
			}
			job.Pipeline.Timeout = d
		}
		if p.AttnBackend != nil {
			job.Pipeline.AttnBackend = *p.AttnBackend
		}
		if p.SpconvAlgo != nil {
			job.Pipeline.SpconvAlgo = *p.SpconvAlgo
		}
		if p.Simplify != nil {
			job.Pipeline.Simplify = *p.Simplify
		}
		if p.TextureSize != nil {
			job.Pipeline.TextureSize = *p.TextureSize
		}
	}
	return job, nil
}
