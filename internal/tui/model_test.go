package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatscope/internal/common"
	"threatscope/internal/threat"
	"threatscope/internal/upstream"
)

type stubSources struct {
	failSummary bool
}

func (s *stubSources) HostInfo(context.Context, string) (*upstream.HostInfo, error) {
	return &upstream.HostInfo{
		Org:  "ExampleOrg",
		Data: []upstream.Banner{{Location: &upstream.Location{CountryName: "US", City: "LA"}, Product: "nginx"}},
	}, nil
}

func (s *stubSources) VulnSummary(context.Context, string) (*upstream.VulnSummary, error) {
	if s.failSummary {
		return nil, &upstream.TransportError{Source: common.SourceVulnSummary, StatusCode: 503}
	}
	return &upstream.VulnSummary{Ports: []int{22, 80}, Vulns: []string{"CVE-2024-3094"}}, nil
}

func (s *stubSources) VulnReport(context.Context, string) (upstream.VulnReport, error) {
	return upstream.VulnReport(`{}`), nil
}

func newTestModel(src *stubSources) (Model, *threat.Service) {
	svc := threat.NewService(src, threat.NewStore(), zerolog.Nop())
	return NewModel(context.Background(), svc), svc
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestSubmitValidAddress(t *testing.T) {
	m, svc := newTestModel(&stubSources{})
	m.input.SetValue("1.1.1.1")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.loading)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Analyzing...")

	// enter is ignored while an analysis runs
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	msg := analyzeCmd(context.Background(), svc, "1.1.1.1")()
	m, _ = press(t, m, msg)
	assert.False(t, m.loading)
	require.Len(t, m.records, 1)
	assert.Equal(t, common.RiskHigh, m.records[0].RiskLevel)
	assert.Equal(t, 1, m.stats.HighRisk)

	view := m.View()
	assert.Contains(t, view, "1.1.1.1")
	assert.Contains(t, view, "HIGH")
	assert.Contains(t, view, "ExampleOrg")
}

func TestSubmitInvalidAddress(t *testing.T) {
	m, _ := newTestModel(&stubSources{})
	m.input.SetValue("256.1.1.1")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.loading)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Please enter a valid IP address")
}

func TestEmptyInputIsNeutral(t *testing.T) {
	m, _ := newTestModel(&stubSources{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), "Please enter a valid IP address")
	assert.Contains(t, m.View(), "No lookups yet.")
}

func TestFailedAnalysisShowsBanner(t *testing.T) {
	m, svc := newTestModel(&stubSources{failSummary: true})
	m.input.SetValue("1.1.1.1")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, analyzeCmd(context.Background(), svc, "1.1.1.1")())

	assert.False(t, m.loading)
	assert.Empty(t, m.records)
	assert.Equal(t, "Failed to fetch VirusTotal simple data", m.errMsg)
	assert.Contains(t, m.View(), "Failed to fetch VirusTotal simple data")
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(&stubSources{})
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
