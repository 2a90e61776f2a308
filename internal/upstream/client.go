// Package upstream talks to the collaborator intel services. One GET per
// call: no retries, no caching, no timeout beyond the transport's own.
package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"threatscope/internal/common"
	"threatscope/internal/config"
	"threatscope/internal/metrics"
)

const maxErrorBody = 512

// Client fetches host and vulnerability intel for a single address.
type Client struct {
	baseURL  string
	hostPath string
	vulnPath string
	http     *http.Client
	log      zerolog.Logger
}

// New returns a Client for the given upstream. A nil hc uses a default client.
func New(cfg config.Upstream, hc *http.Client, log zerolog.Logger) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		hostPath: cfg.HostInfoPath,
		vulnPath: cfg.VulnPath,
		http:     hc,
		log:      log,
	}
}

// HostInfo fetches geolocation and service fingerprints for ip.
func (c *Client) HostInfo(ctx context.Context, ip string) (*HostInfo, error) {
	var out HostInfo
	if err := c.get(ctx, common.SourceHostInfo, &out, c.hostPath, ip); err != nil {
		return nil, err
	}
	return &out, nil
}

// VulnSummary fetches the open ports and known vulnerabilities for ip.
func (c *Client) VulnSummary(ctx context.Context, ip string) (*VulnSummary, error) {
	var out VulnSummary
	if err := c.get(ctx, common.SourceVulnSummary, &out, c.vulnPath, "simple", ip); err != nil {
		return nil, err
	}
	return &out, nil
}

// VulnReport fetches the full vulnerability document for ip.
func (c *Client) VulnReport(ctx context.Context, ip string) (VulnReport, error) {
	var out json.RawMessage
	if err := c.get(ctx, common.SourceVulnReport, &out, c.vulnPath, ip); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, src common.Source, dst any, elem ...string) (err error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(string(src), metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	}()

	target, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return &TransportError{Source: src, Err: errors.Wrap(err, "build url")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return &TransportError{Source: src, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("source", string(src)).Str("url", target).Msg("upstream request")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Source: src, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			Source:     src,
			StatusCode: resp.StatusCode,
			Err:        errors.Errorf("unexpected response: %q", body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &TransportError{Source: src, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "decode response")}
	}
	return nil
}
