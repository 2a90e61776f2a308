package threat

import (
	"context"
	"time"

	"threatscope/internal/common"
	"threatscope/internal/geo"
	"threatscope/internal/upstream"
)

// ThreatRecord is the normalized result of one successful lookup.
type ThreatRecord struct {
	ID              string           `json:"id"`
	IP              string           `json:"ip"`
	Country         string           `json:"country"`
	City            string           `json:"city"`
	Org             string           `json:"org"`
	Ports           []int            `json:"ports"`
	Vulnerabilities []string         `json:"vulnerabilities"`
	RiskLevel       common.RiskLevel `json:"riskLevel"`
	LastSeen        time.Time        `json:"lastSeen"`
	Services        []string         `json:"services"`
}

// clone returns a copy that shares no slices with r.
func (r ThreatRecord) clone() ThreatRecord {
	r.Ports = append([]int{}, r.Ports...)
	r.Vulnerabilities = append([]string{}, r.Vulnerabilities...)
	r.Services = append([]string{}, r.Services...)
	return r
}

// Sources fetches intel for a single address.
type Sources interface {
	HostInfo(ctx context.Context, ip string) (*upstream.HostInfo, error)
	VulnSummary(ctx context.Context, ip string) (*upstream.VulnSummary, error)
	VulnReport(ctx context.Context, ip string) (upstream.VulnReport, error)
}

// Locator fills in a location the host-info response did not carry.
type Locator interface {
	Lookup(ip string) (geo.Place, error)
}

// State is the shared transient view of the service.
type State struct {
	Loading     bool   `json:"loading"`
	Error       string `json:"error,omitempty"`
	HistorySize int    `json:"historySize"`
}

// Stats backs the dashboard stat cards.
type Stats struct {
	Total           int `json:"total"`
	HighRisk        int `json:"highRisk"`
	MediumRisk      int `json:"mediumRisk"`
	LowRisk         int `json:"lowRisk"`
	OpenPorts       int `json:"openPorts"`
	Vulnerabilities int `json:"vulnerabilities"`
	DistinctIPs     int `json:"distinctIps"`
}
