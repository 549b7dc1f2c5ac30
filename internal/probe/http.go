package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient performs GET requests. Cluster endpoints typically carry
// self-signed certificates during installation, so verification can be
// disabled for the probe.
type HTTPClient struct {
	client *http.Client
}

func NewHTTPClient(insecureSkipVerify bool) *HTTPClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &HTTPClient{client: &http.Client{Transport: transport}}
}

func (h *HTTPClient) Get(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return 0, fmt.Errorf("get %s: %w", url, ErrTimeout)
		}
		return 0, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
