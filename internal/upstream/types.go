package upstream

import (
	"encoding/json"
	"fmt"

	"threatscope/internal/common"
)

// Location is the geolocation block attached to a host banner.
type Location struct {
	CountryName string `json:"country_name"`
	City        string `json:"city"`
}

// Banner is one service observation in a host-info response.
type Banner struct {
	Location *Location `json:"location,omitempty"`
	Product  string    `json:"product,omitempty"`
	Port     int       `json:"port,omitempty"`
}

// HostInfo is the geolocation/service-fingerprint response.
type HostInfo struct {
	Org  string   `json:"org"`
	Data []Banner `json:"data"`
}

// VulnSummary is the ports/vulnerability response.
type VulnSummary struct {
	Ports []int    `json:"ports"`
	Vulns []string `json:"vulns"`
}

// VulnReport is the full-detail vulnerability document. Its shape belongs to
// the collaborator and is passed through untouched.
type VulnReport = json.RawMessage

// TransportError reports a failed collaborator request: the request could not
// be made, the status was not 2xx, or the body could not be decoded.
type TransportError struct {
	Source     common.Source
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
