package threat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"threatscope/internal/common"
	"threatscope/internal/metrics"
	"threatscope/internal/upstream"
)

const unknown = "Unknown"

// ErrAnalysisAbandoned is returned by Analyze when a sub-fetch failed and no
// record was produced.
var ErrAnalysisAbandoned = errors.New("analysis abandoned")

// failureMessages are the fixed messages written to shared state.
var failureMessages = map[common.Source]string{
	common.SourceHostInfo:    "Failed to fetch Shodan data",
	common.SourceVulnSummary: "Failed to fetch VirusTotal simple data",
	common.SourceVulnReport:  "Failed to fetch VirusTotal data",
}

// Service aggregates collaborator intel into threat records.
type Service struct {
	src     Sources
	store   *Store
	locator Locator
	now     func() time.Time
	log     zerolog.Logger
}

type Option func(*Service)

// WithLocator sets a fallback for addresses the host-info response did not locate.
func WithLocator(l Locator) Option {
	return func(s *Service) { s.locator = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(src Sources, store *Store, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		src:   src,
		store: store,
		now:   time.Now,
		log:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() *Store { return s.store }

// FetchHostInfo fetches geolocation and service data, updating shared state.
func (s *Service) FetchHostInfo(ctx context.Context, ip string) (*upstream.HostInfo, error) {
	s.store.begin()
	defer s.store.end()
	return s.hostInfo(ctx, ip)
}

// FetchVulnSummary fetches open ports and vulnerabilities, updating shared state.
func (s *Service) FetchVulnSummary(ctx context.Context, ip string) (*upstream.VulnSummary, error) {
	s.store.begin()
	defer s.store.end()
	return s.vulnSummary(ctx, ip)
}

// FetchVulnReport fetches the full vulnerability document, updating shared state.
func (s *Service) FetchVulnReport(ctx context.Context, ip string) (upstream.VulnReport, error) {
	s.store.begin()
	defer s.store.end()
	report, err := s.src.VulnReport(ctx, ip)
	if err != nil {
		s.fail(common.SourceVulnReport, ip, err)
		return nil, err
	}
	return report, nil
}

// Analyze fetches host info and the vulnerability summary for ip
// concurrently and, only if both succeed, records a new ThreatRecord at the
// head of the history. A failed sub-fetch leaves its message in shared
// state and Analyze returns ErrAnalysisAbandoned wrapping that failure.
func (s *Service) Analyze(ctx context.Context, ip string) (rec *ThreatRecord, err error) {
	s.store.begin()
	defer s.store.end()
	defer func() {
		metrics.Analyses.WithLabelValues(metrics.Outcome(err)).Inc()
	}()

	var (
		host *upstream.HostInfo
		sum  *upstream.VulnSummary
		g    errgroup.Group
	)
	// no shared context: a failure does not cancel the sibling request
	g.Go(func() error {
		var err error
		host, err = s.hostInfo(ctx, ip)
		return err
	})
	g.Go(func() error {
		var err error
		sum, err = s.vulnSummary(ctx, ip)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn().Str("ip", ip).Err(err).Msg("analysis abandoned")
		return nil, fmt.Errorf("%w: %w", ErrAnalysisAbandoned, err)
	}

	record := s.buildRecord(ip, host, sum)
	s.store.push(record)

	s.log.Info().
		Str("ip", ip).
		Str("id", record.ID).
		Str("risk", string(record.RiskLevel)).
		Int("ports", len(record.Ports)).
		Int("vulns", len(record.Vulnerabilities)).
		Msg("analysis recorded")

	out := record.clone()
	return &out, nil
}

func (s *Service) hostInfo(ctx context.Context, ip string) (*upstream.HostInfo, error) {
	host, err := s.src.HostInfo(ctx, ip)
	if err != nil {
		s.fail(common.SourceHostInfo, ip, err)
		return nil, err
	}
	return host, nil
}

func (s *Service) vulnSummary(ctx context.Context, ip string) (*upstream.VulnSummary, error) {
	sum, err := s.src.VulnSummary(ctx, ip)
	if err != nil {
		s.fail(common.SourceVulnSummary, ip, err)
		return nil, err
	}
	return sum, nil
}

// fail logs the detail and publishes only the generic message.
func (s *Service) fail(src common.Source, ip string, err error) {
	s.log.Error().Str("source", string(src)).Str("ip", ip).Err(err).Msg("upstream fetch failed")
	s.store.setError(failureMessages[src])
}

func (s *Service) buildRecord(ip string, host *upstream.HostInfo, sum *upstream.VulnSummary) ThreatRecord {
	country, city := unknown, unknown
	if len(host.Data) > 0 && host.Data[0].Location != nil {
		loc := host.Data[0].Location
		if loc.CountryName != "" {
			country = loc.CountryName
		}
		if loc.City != "" {
			city = loc.City
		}
	}
	if s.locator != nil && (country == unknown || city == unknown) {
		country, city = s.locate(ip, country, city)
	}

	services := make([]string, 0, len(host.Data))
	for _, b := range host.Data {
		if b.Product != "" {
			services = append(services, b.Product)
		}
	}

	ports := append([]int{}, sum.Ports...)
	vulns := append([]string{}, sum.Vulns...)

	return ThreatRecord{
		ID:              newRecordID(),
		IP:              ip,
		Country:         country,
		City:            city,
		Org:             host.Org,
		Ports:           ports,
		Vulnerabilities: vulns,
		RiskLevel:       ClassifyRisk(vulns, ports),
		LastSeen:        s.now(),
		Services:        services,
	}
}

func (s *Service) locate(ip, country, city string) (string, string) {
	place, err := s.locator.Lookup(ip)
	if err != nil {
		s.log.Debug().Str("ip", ip).Err(err).Msg("geoip fallback failed")
		return country, city
	}
	if country == unknown && place.Country != "" {
		country = place.Country
	}
	if city == unknown && place.City != "" {
		city = place.City
	}
	return country, city
}

// newRecordID returns a time-ordered unique identifier.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("threat-%d", time.Now().UnixNano())
	}
	return "threat-" + id.String()
}
