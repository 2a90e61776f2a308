package common

// RiskLevel is the coarse severity assigned to an analyzed address.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Source identifies a collaborator intel endpoint.
type Source string

const (
	SourceHostInfo    Source = "shodan"
	SourceVulnSummary Source = "virustotal_simple"
	SourceVulnReport  Source = "virustotal"
)
