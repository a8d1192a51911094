package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/trellisbatch/internal/config"
	"github.com/vk/trellisbatch/internal/pipeline"
)

// fakePipeline records every run and writes a fixed asset on export.
type fakePipeline struct {
	mu      sync.Mutex
	runs    []string
	seeds   []int64
	failOn  string
	exports int
}

func (f *fakePipeline) Run(ctx context.Context, image pipeline.Image, seed int64) (*pipeline.Outputs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, filepath.Base(image.Path))
	f.seeds = append(f.seeds, seed)
	if f.failOn != "" && filepath.Base(image.Path) == f.failOn {
		return nil, errors.New("CUDA out of memory")
	}
	return &pipeline.Outputs{Asset: append([]byte("glb:"), image.Data...)}, nil
}

func (f *fakePipeline) Export(ctx context.Context, out *pipeline.Outputs, path string) error {
	f.mu.Lock()
	f.exports++
	f.mu.Unlock()
	return pipeline.WriteAsset(out, path)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newJob returns a small job rooted in a temp dir, with keyframe images
// rendered for each identifier.
func newJob(t *testing.T, uids ...string) *config.Job {
	t.Helper()
	root := t.TempDir()
	job := config.NewJob()
	job.InputDir = filepath.Join(root, "keyframes")
	job.OutputDir = filepath.Join(root, "out")
	job.Cameras = []string{"U000", "U004"}
	job.Keyframes = 2
	job.UIDs = uids
	require.NoError(t, os.MkdirAll(job.InputDir, 0o755))
	return job
}

func renderKeyframes(t *testing.T, job *config.Job, tasks []Task) {
	t.Helper()
	for _, task := range tasks {
		writeFile(t, task.ImagePath, "png:"+filepath.Base(task.ImagePath))
	}
}
