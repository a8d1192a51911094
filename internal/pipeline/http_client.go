package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vk/trellisbatch/internal/config"
	"github.com/vk/trellisbatch/internal/ctxlog"
)

// Header names used to forward backend selection to the inference service.
const (
	HeaderAttnBackend = "X-Attn-Backend"
	HeaderSpconvAlgo  = "X-Spconv-Algo"
)

// HTTPConfig configures HTTPClient.
type HTTPConfig struct {
	Endpoint    string
	Timeout     time.Duration
	AttnBackend string
	SpconvAlgo  string
	Simplify    float64
	TextureSize int
}

// HTTPClient runs the generator on a remote inference service. Run POSTs
// the image to `<endpoint>/run` and the response body is the exported asset.
type HTTPClient struct {
	cfg    HTTPConfig
	client *http.Client
}

var _ Pipeline = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient. A nil httpClient gets a default one
// using cfg.Timeout.
func NewHTTPClient(cfg HTTPConfig, httpClient *http.Client) (*HTTPClient, error) {
	if err := config.ValidateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPClient{cfg: cfg, client: httpClient}, nil
}

func (c *HTTPClient) runURL(seed int64) (string, error) {
	u, err := url.JoinPath(c.cfg.Endpoint, "run")
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("seed", strconv.FormatInt(seed, 10))
	if c.cfg.Simplify > 0 {
		q.Set("simplify", strconv.FormatFloat(c.cfg.Simplify, 'f', -1, 64))
	}
	if c.cfg.TextureSize > 0 {
		q.Set("texture_size", strconv.Itoa(c.cfg.TextureSize))
	}
	return u + "?" + q.Encode(), nil
}

// Run sends the image to the inference service and returns its asset.
func (c *HTTPClient) Run(ctx context.Context, image Image, seed int64) (*Outputs, error) {
	logger := ctxlog.FromContext(ctx).With("image", image.Path)

	target, err := c.runURL(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to build run URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(image.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to create run request: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(image.Path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	if c.cfg.AttnBackend != "" {
		req.Header.Set(HeaderAttnBackend, c.cfg.AttnBackend)
	}
	if c.cfg.SpconvAlgo != "" {
		req.Header.Set(HeaderSpconvAlgo, c.cfg.SpconvAlgo)
	}

	logger.Debug("Sending image to pipeline.", "url", target, "size", len(image.Data))
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute run request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read run response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pipeline run failed with status %s: %s", resp.Status, truncate(body, 256))
	}

	logger.Debug("Pipeline run finished.", "status", resp.Status, "bytes", len(body), "duration", time.Since(start))
	return &Outputs{Asset: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

// Export writes the asset returned by Run to path.
func (c *HTTPClient) Export(ctx context.Context, out *Outputs, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteAsset(out, path)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
