package threat

import (
	"sync"

	"threatscope/internal/common"
	"threatscope/internal/metrics"
)

// Store is the shared state consumed by every front end: the in-flight
// flag, the last error message and the recent-lookup history.
type Store struct {
	mu       sync.Mutex
	inFlight int
	errMsg   string
	history  *History
	seen     *SeenSet
}

func NewStore() *Store {
	return &Store{
		history: NewHistory(HistoryLimit),
		seen:    NewSeenSet(10000, 0.01),
	}
}

// begin marks an operation in flight and clears the error. Loading stays
// true until every begun operation has ended.
func (s *Store) begin() {
	s.mu.Lock()
	s.inFlight++
	s.errMsg = ""
	s.mu.Unlock()
	metrics.InFlight.Inc()
}

func (s *Store) end() {
	s.mu.Lock()
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.mu.Unlock()
	metrics.InFlight.Dec()
}

// setError overwrites the error message; the last writer wins.
func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Store) ClearError() {
	s.setError("")
}

func (s *Store) push(rec ThreatRecord) {
	s.mu.Lock()
	s.history.Add(rec)
	size := s.history.Len()
	s.mu.Unlock()

	s.seen.Observe(rec.IP)
	metrics.HistorySize.Set(float64(size))
	metrics.DistinctIPs.Set(float64(s.seen.Distinct()))
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Loading:     s.inFlight > 0,
		Error:       s.errMsg,
		HistorySize: s.history.Len(),
	}
}

// History returns the recent records, newest first.
func (s *Store) History() []ThreatRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.List()
}

func (s *Store) Record(id string) (ThreatRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Get(id)
}

// Stats summarizes the current history for the dashboard cards.
func (s *Store) Stats() Stats {
	st := Stats{DistinctIPs: s.seen.Distinct()}
	for _, rec := range s.History() {
		st.Total++
		st.OpenPorts += len(rec.Ports)
		st.Vulnerabilities += len(rec.Vulnerabilities)
		switch rec.RiskLevel {
		case common.RiskHigh:
			st.HighRisk++
		case common.RiskMedium:
			st.MediumRisk++
		default:
			st.LowRisk++
		}
	}
	return st
}
