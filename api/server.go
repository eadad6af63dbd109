package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/maxringtail/2019-Worms/game/rounds"
	"github.com/maxringtail/2019-Worms/game/service"
	"github.com/maxringtail/2019-Worms/game/state"
	"github.com/maxringtail/2019-Worms/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.StateService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(stateService service.StateService, hub *websocket.Hub) *Server {
	s := &Server{
		service: stateService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// API routes with clean REST patterns
	api := s.router.PathPrefix("/api").Subrouter()

	// Snapshot loading and inspection
	api.HandleFunc("/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/state/load", s.handleLoadState).Methods("POST")
	api.HandleFunc("/state/summary", s.handleGetSummary).Methods("GET")
	api.HandleFunc("/state/render", s.handleRenderMap).Methods("GET")
	api.HandleFunc("/state/active-worm", s.handleGetActiveWorm).Methods("GET")
	api.HandleFunc("/state/cells/{x:[0-9]+}/{y:[0-9]+}", s.handleDescribeCell).Methods("GET")

	// Round discovery
	api.HandleFunc("/rounds", s.handleListRounds).Methods("GET")

	// Health check
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the service and loader sentinels to HTTP status codes.
// Unknown errors are treated as internal failures.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNoState),
		errors.Is(err, service.ErrNoRoundsDir),
		errors.Is(err, rounds.ErrNoRounds),
		errors.Is(err, rounds.ErrRoundNotFound),
		errors.Is(err, state.ErrStateUnreadable):
		return http.StatusNotFound
	case errors.Is(err, state.ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Snapshot Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.GameState(r.Context())
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleLoadState(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path   string `json:"path,omitempty"`
		Round  *uint  `json:"round,omitempty"`
		Latest bool   `json:"latest,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var info *service.StateInfo
	var err error
	switch {
	case req.Path != "":
		info, err = s.service.LoadFromFile(r.Context(), req.Path)
	case req.Round != nil:
		info, err = s.service.LoadRound(r.Context(), *req.Round)
	case req.Latest:
		info, err = s.service.LoadLatest(r.Context())
	default:
		respondError(w, http.StatusBadRequest, "Specify one of: path, round, latest")
		return
	}
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	// Broadcast the fresh snapshot to WebSocket clients
	if s.hub != nil {
		if doc, err := s.service.GameState(r.Context()); err == nil {
			s.hub.BroadcastState(doc)
		}
	}

	// Compact server log for observability
	fmt.Printf("[LOAD] source=%s round=%d/%d map=%dx%d activeWorm=%d\n",
		info.Source, info.Round, info.MaxRounds, info.MapSize, info.MapSize, info.ActiveWormID)

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary(r.Context())
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRenderMap(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.RenderMap(r.Context())
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rows": rows,
	})
}

func (s *Server) handleGetActiveWorm(w http.ResponseWriter, r *http.Request) {
	worm, err := s.service.ActiveWorm(r.Context())
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, worm)
}

func (s *Server) handleDescribeCell(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	x, err := strconv.ParseUint(vars["x"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	y, err := strconv.ParseUint(vars["y"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	cell, err := s.service.DescribeCell(r.Context(), uint(x), uint(y))
	if err != nil {
		if errors.Is(err, service.ErrNoState) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		// Out-of-bounds coordinates are a caller mistake, not a server fault
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cell)
}

// Round Discovery Handler

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	numbers, err := s.service.ListRounds(r.Context())
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	if numbers == nil {
		numbers = []uint{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(numbers),
		"rounds": numbers,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
