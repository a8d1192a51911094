package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/trellisbatch/internal/config"
)

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullJob(t *testing.T) {
	t.Setenv("TRELLIS_OUT", "/scratch/trellis")

	path := writeJob(t, `
input_dir  = "keyframes"
output_dir = env("TRELLIS_OUT")
seed       = 7
keyframes  = 4
cameras    = [for i in range(0, 8, 4) : format("U%03d", i)]
uids       = ["2073515_003", "2014741_002"]
uid_lists  = ["lists/sstk.txt"]
exclude_lists   = ["lists/done.txt"]
intersect_lists = ["lists/animated.txt"]
mesh_dirs       = ["/meshes"]
limit_per_file  = 100
shuffle         = true
shuffle_seed    = 42
metadata_dir     = "/meta"
require_metadata = true

pipeline {
  endpoint     = "http://gpu-01:8000"
  timeout      = "90s"
  attn_backend = upper("flash") == "FLASH" ? "flash-attn" : "xformers"
  spconv_algo  = "auto"
  simplify     = 0.9
  texture_size = 2048
}
`)
	dir := filepath.Dir(path)

	job, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	seed := uint64(42)
	expected := &config.Job{
		InputDir:        filepath.Join(dir, "keyframes"),
		OutputDir:       "/scratch/trellis",
		Seed:            7,
		Keyframes:       4,
		Cameras:         []string{"U000", "U004"},
		UIDs:            []string{"2073515_003", "2014741_002"},
		UIDLists:        []string{filepath.Join(dir, "lists", "sstk.txt")},
		ExcludeLists:    []string{filepath.Join(dir, "lists", "done.txt")},
		IntersectLists:  []string{filepath.Join(dir, "lists", "animated.txt")},
		MeshDirs:        []string{"/meshes"},
		LimitPerFile:    100,
		Shuffle:         true,
		ShuffleSeed:     &seed,
		MetadataDir:     "/meta",
		RequireMetadata: true,
		Pipeline: config.Pipeline{
			Endpoint:    "http://gpu-01:8000",
			Timeout:     90 * time.Second,
			AttnBackend: "flash-attn",
			SpconvAlgo:  "auto",
			Simplify:    0.9,
			TextureSize: 2048,
		},
	}
	if diff := cmp.Diff(expected, job); diff != "" {
		t.Errorf("job mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeJob(t, `
input_dir  = "/in"
output_dir = "/out"
uids       = ["2073515_003"]
`)

	job, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultSeed, job.Seed)
	assert.Equal(t, config.DefaultKeyframes, job.Keyframes)
	assert.Equal(t, config.DefaultCameras, job.Cameras)
	assert.Equal(t, -1, job.LimitPerFile)
	assert.Nil(t, job.ShuffleSeed)
	assert.Equal(t, "", job.Pipeline.Endpoint)
	assert.Equal(t, config.DefaultTimeout, job.Pipeline.Timeout)
	assert.Equal(t, config.DefaultSimplify, job.Pipeline.Simplify)
	assert.Equal(t, config.DefaultTextureSize, job.Pipeline.TextureSize)
}

func TestLoad_EnvDefault(t *testing.T) {
	path := writeJob(t, `
input_dir  = env("TRELLISBATCH_SURELY_UNSET_VAR", "/fallback")
output_dir = "${job_dir}/out"
uids       = ["2073515_003"]
`)

	job, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "/fallback", job.InputDir)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "out"), job.OutputDir)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expectedErr string
	}{
		{
			name:        "syntax error",
			content:     `input_dir = "x`,
			expectedErr: "failed to parse job file",
		},
		{
			name:        "missing required attribute",
			content:     `output_dir = "/out"`,
			expectedErr: "input_dir",
		},
		{
			name: "bad timeout",
			content: `
input_dir  = "/in"
output_dir = "/out"
uids       = ["1_000"]
pipeline {
  endpoint = "http://x"
  timeout  = "soon"
}`,
			expectedErr: "pipeline timeout",
		},
		{
			name: "validation failure",
			content: `
input_dir  = "/in"
output_dir = "/out"
keyframes  = 0
uids       = ["1_000"]`,
			expectedErr: "keyframes must be positive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().Load(context.Background(), writeJob(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}
