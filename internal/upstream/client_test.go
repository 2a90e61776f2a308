package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatscope/internal/common"
	"threatscope/internal/config"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := config.Default().Upstream
	cfg.BaseURL = srv.URL
	return New(cfg, srv.Client(), zerolog.Nop())
}

func TestClientPaths(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/shodan/1.1.1.1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"org":"ExampleOrg","data":[{"location":{"country_name":"US","city":"LA"},"product":"nginx","port":80}]}`))
	})
	mux.HandleFunc("/api/virustotal/simple/1.1.1.1", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ports":[22,80],"vulns":["CVE-2021-1"]}`))
	})
	mux.HandleFunc("/api/virustotal/1.1.1.1", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"detections":3}`))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	host, err := c.HostInfo(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, "ExampleOrg", host.Org)
	require.Len(t, host.Data, 1)
	require.NotNil(t, host.Data[0].Location)
	assert.Equal(t, "US", host.Data[0].Location.CountryName)
	assert.Equal(t, "LA", host.Data[0].Location.City)
	assert.Equal(t, "nginx", host.Data[0].Product)

	sum, err := c.VulnSummary(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, []int{22, 80}, sum.Ports)
	assert.Equal(t, []string{"CVE-2021-1"}, sum.Vulns)

	report, err := c.VulnReport(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"detections":3}`, string(report))
}

func TestClientNon2xx(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))

	_, err := c.HostInfo(context.Background(), "1.1.1.1")
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, common.SourceHostInfo, te.Source)
	assert.Equal(t, http.StatusTooManyRequests, te.StatusCode)
	assert.Contains(t, te.Error(), "quota exceeded")
}

func TestClientUndecodableBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>`))
	}))

	_, err := c.VulnSummary(context.Background(), "1.1.1.1")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, common.SourceVulnSummary, te.Source)
	assert.Equal(t, http.StatusOK, te.StatusCode)
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := config.Default().Upstream
	cfg.BaseURL = srv.URL
	srv.Close()

	c := New(cfg, nil, zerolog.Nop())
	_, err := c.VulnReport(context.Background(), "1.1.1.1")

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
}
