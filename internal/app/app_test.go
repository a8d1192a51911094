package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/trellisbatch/internal/batch"
	"github.com/vk/trellisbatch/internal/hcl"
	"github.com/vk/trellisbatch/internal/pipeline"
	"github.com/vk/trellisbatch/internal/testutil"
)

type echoPipeline struct{}

func (echoPipeline) Run(ctx context.Context, image pipeline.Image, seed int64) (*pipeline.Outputs, error) {
	return &pipeline.Outputs{Asset: image.Data}, nil
}

func (echoPipeline) Export(ctx context.Context, out *pipeline.Outputs, path string) error {
	return pipeline.WriteAsset(out, path)
}

// writeJobTree creates a job file with one identifier and its keyframes.
func writeJobTree(t *testing.T, endpoint string) string {
	t.Helper()
	job := `
input_dir  = "keyframes"
output_dir = "out"
keyframes  = 2
cameras    = ["U000"]
uids       = ["2073515_003"]
pipeline {
  endpoint = "` + endpoint + `"
}
`
	root := testutil.WriteTree(t, map[string]string{
		"job.hcl": job,
		"keyframes/uid_2073515_003_kf_0_camid_U000.png": "png",
		"keyframes/uid_2073515_003_kf_1_camid_U000.png": "png",
	})
	return filepath.Join(root, "job.hcl")
}

func TestApp_Run(t *testing.T) {
	jobPath := writeJobTree(t, "http://unused")
	logs := &testutil.SafeBuffer{}

	a, err := NewApp(logs, &Config{JobPath: jobPath, LogFormat: "json", LogLevel: "debug", WorkerCount: 1}, hcl.NewLoader(), echoPipeline{})
	require.NoError(t, err)

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &batch.Report{Identifiers: 1, Planned: 2, Generated: 2}, report)

	out := filepath.Join(filepath.Dir(jobPath), "out", "15", "2073515_003", "U000", "2073515_003_U000_001.glb")
	assert.FileExists(t, out)
	assert.Contains(t, logs.String(), "Batch finished.")
}

func TestApp_RunAgainstHTTPPipeline(t *testing.T) {
	var calls int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.Write([]byte("glTF"))
	}))
	defer server.Close()

	jobPath := writeJobTree(t, server.URL)
	a, err := NewApp(&testutil.SafeBuffer{}, &Config{JobPath: jobPath, LogFormat: "text", LogLevel: "info", WorkerCount: 2}, hcl.NewLoader(), nil)
	require.NoError(t, err)

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Generated)
	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
}

func TestNewApp_Errors(t *testing.T) {
	t.Run("missing job file", func(t *testing.T) {
		_, err := NewApp(&testutil.SafeBuffer{}, &Config{JobPath: filepath.Join(t.TempDir(), "nope.hcl"), WorkerCount: 1}, hcl.NewLoader(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load job")
	})

	t.Run("no endpoint and no pipeline", func(t *testing.T) {
		_, err := NewApp(&testutil.SafeBuffer{}, &Config{JobPath: writeJobTree(t, ""), WorkerCount: 1}, hcl.NewLoader(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create pipeline client")
	})

	t.Run("endpoint without scheme", func(t *testing.T) {
		_, err := NewApp(&testutil.SafeBuffer{}, &Config{JobPath: writeJobTree(t, "localhost:8000"), WorkerCount: 1}, hcl.NewLoader(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheme must be http or https")
	})

	t.Run("dry run needs no endpoint", func(t *testing.T) {
		a, err := NewApp(&testutil.SafeBuffer{}, &Config{JobPath: writeJobTree(t, ""), WorkerCount: 1, DryRun: true}, hcl.NewLoader(), nil)
		require.NoError(t, err)
		report, err := a.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, report.Generated)
		assert.Equal(t, 2, report.Planned)
	})
}

func TestHealthcheckMux(t *testing.T) {
	a, err := NewApp(&testutil.SafeBuffer{}, &Config{JobPath: writeJobTree(t, "http://unused"), WorkerCount: 1}, hcl.NewLoader(), echoPipeline{})
	require.NoError(t, err)
	_, err = a.Run(context.Background())
	require.NoError(t, err)

	server := httptest.NewServer(a.newHealthcheckMux())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `trellisbatch_tasks_total{result="generated"} 2`)
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{WorkerCount: 1})
	require.Error(t, err)

	_, err = NewConfig(Config{JobPath: "job.hcl"})
	require.Error(t, err)

	_, err = NewConfig(Config{JobPath: "job.hcl", WorkerCount: 1, HealthcheckPort: 70000})
	require.Error(t, err)

	cfg, err := NewConfig(Config{JobPath: "job.hcl", WorkerCount: 1})
	require.NoError(t, err)
	assert.Equal(t, "job.hcl", cfg.JobPath)
}
