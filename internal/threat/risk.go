package threat

import "threatscope/internal/common"

// mediumPortThreshold is the open-port count above which a clean host is medium risk.
const mediumPortThreshold = 5

// ClassifyRisk maps vulnerabilities and open ports to a risk level. Any
// vulnerability is high; otherwise more than five open ports is medium.
func ClassifyRisk(vulns []string, ports []int) common.RiskLevel {
	switch {
	case len(vulns) > 0:
		return common.RiskHigh
	case len(ports) > mediumPortThreshold:
		return common.RiskMedium
	default:
		return common.RiskLow
	}
}
