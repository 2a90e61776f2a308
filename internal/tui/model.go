// Package tui is a terminal rendition of the dashboard: the IP analyzer
// form, the stat cards and the recent-lookup table.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"threatscope/internal/threat"
	"threatscope/internal/validate"
)

// Backend is the part of threat.Service the dashboard drives.
type Backend interface {
	Analyze(ctx context.Context, ip string) (*threat.ThreatRecord, error)
	Store() *threat.Store
}

type analysisDoneMsg struct {
	rec *threat.ThreatRecord
	err error
}

type Model struct {
	ctx     context.Context
	backend Backend
	input   textinput.Model
	spinner spinner.Model

	loading bool
	errMsg  string
	records []threat.ThreatRecord
	stats   threat.Stats
}

func NewModel(ctx context.Context, backend Backend) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g., 1.1.1.1"
	ti.CharLimit = 15
	ti.Width = 20
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{ctx: ctx, backend: backend, input: ti, spinner: sp}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
		if m.loading {
			return m, nil
		}

	case analysisDoneMsg:
		m.loading = false
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts an analysis when the input holds a valid address and no
// analysis is running.
func (m Model) submit() (tea.Model, tea.Cmd) {
	ip := validate.Normalize(m.input.Value())
	if m.loading || ip == "" || !validate.IsIPv4(ip) {
		return m, nil
	}
	m.backend.Store().ClearError()
	m.errMsg = ""
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, analyzeCmd(m.ctx, m.backend, ip))
}

func analyzeCmd(ctx context.Context, backend Backend, ip string) tea.Cmd {
	return func() tea.Msg {
		rec, err := backend.Analyze(ctx, ip)
		return analysisDoneMsg{rec: rec, err: err}
	}
}

// refresh pulls error, history and stats from the shared store.
func (m *Model) refresh() {
	store := m.backend.Store()
	m.errMsg = store.State().Error
	m.records = store.History()
	m.stats = store.Stats()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("IP Address Analyzer"))
	b.WriteString("\n\n")

	value := m.input.Value()
	box := inputStyle
	if !validate.IsAcceptableInput(value) {
		box = invalidInputStyle
	}
	b.WriteString(box.Render(m.input.View()))
	b.WriteString("\n")
	if !validate.IsAcceptableInput(value) {
		b.WriteString(invalidTextStyle.Render("Please enter a valid IP address"))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorBannerStyle.Render("! " + m.errMsg))
		b.WriteString("\n")
	}

	if m.loading {
		b.WriteString(m.spinner.View() + " Analyzing...")
	} else {
		b.WriteString(hintStyle.Render("enter: analyze threat  esc: quit"))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total Lookups", m.stats.Total, "primary"),
		statCard("High Risk", m.stats.HighRisk, "danger"),
		statCard("Open Ports", m.stats.OpenPorts, "warning"),
		statCard("Vulnerabilities", m.stats.Vulnerabilities, "danger"),
		statCard("Distinct IPs", m.stats.DistinctIPs, "success"),
	))
	b.WriteString("\n\n")

	b.WriteString(renderHistory(m.records))
	return docStyle.Render(b.String())
}

func renderHistory(records []threat.ThreatRecord) string {
	if len(records) == 0 {
		return hintStyle.Render("No lookups yet.")
	}
	var b strings.Builder
	b.WriteString(hintStyle.Render(fmt.Sprintf("%-16s %-8s %-24s %-28s %6s %6s", "IP", "RISK", "LOCATION", "ORG", "PORTS", "VULNS")))
	for _, rec := range records {
		risk := string(rec.RiskLevel)
		style, ok := riskStyles[risk]
		if !ok {
			style = lipgloss.NewStyle()
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-16s %s %-24s %-28s %6d %6d",
			rec.IP,
			style.Render(fmt.Sprintf("%-8s", strings.ToUpper(risk))),
			truncate(rec.City+", "+rec.Country, 24),
			truncate(rec.Org, 28),
			len(rec.Ports),
			len(rec.Vulnerabilities),
		))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run starts the dashboard on the terminal and blocks until it exits.
func Run(ctx context.Context, backend Backend) error {
	p := tea.NewProgram(NewModel(ctx, backend), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
