package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"threatscope/internal/validate"
)

const (
	invalidIPMessage = "Please enter a valid IP address"
	analyzeFailed    = "Failed to analyze threat"
)

type analyzeRequest struct {
	IP string `json:"ip"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// failureMessage is the message shown to the user after a failed fetch: the
// one published in shared state, or a generic fallback.
func (s *Server) failureMessage() string {
	if msg := s.store.State().Error; msg != "" {
		return msg
	}
	return analyzeFailed
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ip := validate.Normalize(req.IP)
	if !validate.IsIPv4(ip) {
		writeError(w, http.StatusBadRequest, invalidIPMessage)
		return
	}

	rec, err := s.svc.Analyze(r.Context(), ip)
	if err != nil {
		writeError(w, http.StatusBadGateway, s.failureMessage())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleThreats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.History())
}

func (s *Server) handleThreat(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.store.Record(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "threat not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) handleClearError(w http.ResponseWriter, _ *http.Request) {
	s.store.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

// lookupIP extracts and checks the {ip} path variable, answering 400 itself.
func lookupIP(w http.ResponseWriter, r *http.Request) (string, bool) {
	ip := mux.Vars(r)["ip"]
	if !validate.IsIPv4(ip) {
		writeError(w, http.StatusBadRequest, invalidIPMessage)
		return "", false
	}
	return ip, true
}

func (s *Server) handleLookupHost(w http.ResponseWriter, r *http.Request) {
	ip, ok := lookupIP(w, r)
	if !ok {
		return
	}
	host, err := s.svc.FetchHostInfo(r.Context(), ip)
	if err != nil {
		writeError(w, http.StatusBadGateway, s.failureMessage())
		return
	}
	writeJSON(w, http.StatusOK, host)
}

func (s *Server) handleLookupVulnSummary(w http.ResponseWriter, r *http.Request) {
	ip, ok := lookupIP(w, r)
	if !ok {
		return
	}
	sum, err := s.svc.FetchVulnSummary(r.Context(), ip)
	if err != nil {
		writeError(w, http.StatusBadGateway, s.failureMessage())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleLookupVulnReport(w http.ResponseWriter, r *http.Request) {
	ip, ok := lookupIP(w, r)
	if !ok {
		return
	}
	report, err := s.svc.FetchVulnReport(r.Context(), ip)
	if err != nil {
		writeError(w, http.StatusBadGateway, s.failureMessage())
		return
	}
	writeJSON(w, http.StatusOK, report)
}
