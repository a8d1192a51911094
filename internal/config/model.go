package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Defaults used when the job file leaves a setting out.
const (
	DefaultSeed         int64   = 1
	DefaultKeyframes            = 8
	DefaultAttnBackend          = "xformers"
	DefaultSpconvAlgo           = "native"
	DefaultSimplify     float64 = 0.95
	DefaultTextureSize          = 1024
	DefaultTimeout              = 10 * time.Minute
)

// DefaultCameras are the camera ids rendered for every identifier.
var DefaultCameras = []string{"U000", "U004", "U008", "U012"}

// Job is the unified, format-agnostic representation of a batch job.
type Job struct {
	InputDir  string
	OutputDir string
	Seed      int64
	Keyframes int
	Cameras   []string

	UIDs           []string
	UIDLists       []string
	ExcludeLists   []string
	IntersectLists []string
	MeshDirs       []string
	LimitPerFile   int
	Shuffle        bool
	ShuffleSeed    *uint64 // nil means the process-wide source

	MetadataDir     string
	RequireMetadata bool

	Pipeline Pipeline
}

// Pipeline configures the external generator.
type Pipeline struct {
	Endpoint    string
	Timeout     time.Duration
	AttnBackend string
	SpconvAlgo  string
	Simplify    float64
	TextureSize int
}

// NewJob returns a Job populated with defaults.
func NewJob() *Job {
	return &Job{
		Seed:         DefaultSeed,
		Keyframes:    DefaultKeyframes,
		Cameras:      append([]string(nil), DefaultCameras...),
		LimitPerFile: -1,
		Pipeline: Pipeline{
			Timeout:     DefaultTimeout,
			AttnBackend: DefaultAttnBackend,
			SpconvAlgo:  DefaultSpconvAlgo,
			Simplify:    DefaultSimplify,
			TextureSize: DefaultTextureSize,
		},
	}
}

// Validate checks the job for missing or inconsistent settings.
func (j *Job) Validate() error {
	var errs []string
	if j.InputDir == "" {
		errs = append(errs, "input_dir is required")
	}
	if j.OutputDir == "" {
		errs = append(errs, "output_dir is required")
	}
	if j.Keyframes <= 0 {
		errs = append(errs, fmt.Sprintf("keyframes must be positive, got %d", j.Keyframes))
	}
	if len(j.Cameras) == 0 {
		errs = append(errs, "cameras must not be empty")
	}
	for _, c := range j.Cameras {
		if c == "" || strings.ContainsRune(c, filepath.Separator) {
			errs = append(errs, fmt.Sprintf("invalid camera id %q", c))
		}
	}
	if len(j.UIDs) == 0 && len(j.UIDLists) == 0 && len(j.MeshDirs) == 0 {
		errs = append(errs, "at least one of uids, uid_lists or mesh_dirs is required")
	}
	if j.RequireMetadata && j.MetadataDir == "" {
		errs = append(errs, "require_metadata needs metadata_dir")
	}
	if j.Pipeline.Timeout < 0 {
		errs = append(errs, "pipeline timeout must not be negative")
	}
	// An empty endpoint is allowed for dry runs; the client rejects it.
	if j.Pipeline.Endpoint != "" {
		if err := j.Pipeline.ValidateEndpoint(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return errors.New("job validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

// ValidateEndpoint checks that the endpoint is an absolute http or https URL.
func (p Pipeline) ValidateEndpoint() error {
	return ValidateEndpoint(p.Endpoint)
}

// ValidateEndpoint checks that endpoint is an absolute http or https URL
// with a host.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return errors.New("pipeline endpoint must not be empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid pipeline endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid pipeline endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid pipeline endpoint %q: missing host", endpoint)
	}
	return nil
}

// ResolvePaths makes every relative path in the job relative to baseDir.
func (j *Job) ResolvePaths(baseDir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	resolveAll := func(ps []string) {
		for i := range ps {
			ps[i] = resolve(ps[i])
		}
	}

	j.InputDir = resolve(j.InputDir)
	j.OutputDir = resolve(j.OutputDir)
	j.MetadataDir = resolve(j.MetadataDir)
	resolveAll(j.UIDLists)
	resolveAll(j.ExcludeLists)
	resolveAll(j.IntersectLists)
	resolveAll(j.MeshDirs)
}
