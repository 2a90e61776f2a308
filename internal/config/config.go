package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"threatscope/internal/logger"
)

// Upstream describes where the collaborator intel services live.
type Upstream struct {
	BaseURL      string `yaml:"base_url"`
	HostInfoPath string `yaml:"host_info_path"`
	VulnPath     string `yaml:"vuln_path"`
}

// Config holds process configuration
type Config struct {
	HTTPAddr    string        `yaml:"http_addr"`
	MetricsAddr string        `yaml:"metrics_addr"`
	GRPCAddr    string        `yaml:"grpc_addr"`
	GeoIPDB     string        `yaml:"geoip_db"`
	Upstream    Upstream      `yaml:"upstream"`
	Log         logger.Config `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		Upstream: Upstream{
			BaseURL:      "http://localhost:3000",
			HostInfoPath: "/api/shodan",
			VulnPath:     "/api/virustotal",
		},
		Log: logger.Config{Level: "info"},
	}
}

// Load builds a Config from defaults, then the YAML file at path (if any),
// then TS_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	cfg.applyEnv()
	if cfg.Upstream.BaseURL == "" {
		return nil, errors.New("upstream base url must not be empty")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = getEnv("TS_HTTP_ADDR", c.HTTPAddr)
	c.MetricsAddr = getEnv("TS_METRICS_ADDR", c.MetricsAddr)
	c.GRPCAddr = getEnv("TS_GRPC_ADDR", c.GRPCAddr)
	c.GeoIPDB = getEnv("TS_GEOIP_DB", c.GeoIPDB)
	c.Upstream.BaseURL = getEnv("TS_UPSTREAM_URL", c.Upstream.BaseURL)
	c.Upstream.HostInfoPath = getEnv("TS_HOST_INFO_PATH", c.Upstream.HostInfoPath)
	c.Upstream.VulnPath = getEnv("TS_VULN_PATH", c.Upstream.VulnPath)
	c.Log.Level = getEnv("TS_LOG_LEVEL", c.Log.Level)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
