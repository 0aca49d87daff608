// Package api exposes the host's HTTP surface: the latest telemetry
// snapshot, the live simulation targets, and the diagnostic log store.
// The simulation core itself has no network surface; this server only
// reads snapshots and swaps target inputs.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/veloforge/ridesim/internal/monitoring"
	"github.com/veloforge/ridesim/internal/sim"
	"github.com/veloforge/ridesim/internal/units"
)

// Simulation is the narrow view of the host's driving loop the API needs:
// the latest output snapshot and the current target input.
type Simulation interface {
	Snapshot() sim.SimulationState
	Input() sim.SimulationInput
	SetInput(sim.SimulationInput)
}

type Server struct {
	sim Simulation
	rec *monitoring.Recorder
}

func NewServer(s Simulation, rec *monitoring.Recorder) *Server {
	return &Server{
		sim: s,
		rec: rec,
	}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/input", s.handleInput)
	mux.HandleFunc("/logs", s.handleLogs)
	mux.HandleFunc("/logs/clear", s.handleLogsClear)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to the ridesim host!"))
}

// stateResponse wraps the raw snapshot with the speed converted to the
// requested display units.
type stateResponse struct {
	sim.SimulationState
	Speed float64 `json:"speed"`
	Units string  `json:"units"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	unit := r.URL.Query().Get("units")
	if unit == "" {
		unit = units.MPS
	}
	if !units.IsValid(unit) {
		msg := fmt.Sprintf("invalid units %q: valid values are %s", unit, units.GetValidUnitsString())
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	st := s.sim.Snapshot()
	writeJSON(w, stateResponse{
		SimulationState: st,
		Speed:           units.ConvertSpeed(st.SpeedMps, unit),
		Units:           unit,
	})
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.sim.Input())
	case http.MethodPost:
		var input sim.SimulationInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, fmt.Sprintf("invalid input JSON: %v", err), http.StatusBadRequest)
			return
		}
		// Range enforcement happens inside the engine: out-of-range values
		// are clamped and logged, never rejected.
		s.sim.SetInput(input)
		writeJSON(w, input)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := monitoring.EventFilter{
		Severity: monitoring.Severity(r.URL.Query().Get("severity")),
		Category: monitoring.Category(r.URL.Query().Get("category")),
	}
	events := s.rec.Events(filter)
	writeJSON(w, map[string]any{
		"events":  events,
		"dropped": s.rec.Dropped(),
	})
}

func (s *Server) handleLogsClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.rec.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
