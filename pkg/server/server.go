// Package server exposes the search driver over HTTP: a small JSON API for
// driving a game and a websocket feed of live search statistics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/TR-Jackson/Chess/pkg/chess"
	"github.com/TR-Jackson/Chess/pkg/mcts"
)

// Config configures the HTTP server around an existing driver.
type Config struct {
	Logger zerolog.Logger

	// StatsInterval throttles the websocket feed to one payload every N
	// search cycles. Defaults to 100.
	StatsInterval int
}

type Server struct {
	log    zerolog.Logger
	driver *mcts.SearchDriver
	hub    *StatsHub
	router chi.Router
}

func New(driver *mcts.SearchDriver, cfg Config) *Server {
	if cfg.StatsInterval <= 0 {
		cfg.StatsInterval = 100
	}

	s := &Server{
		log:    cfg.Logger,
		driver: driver,
		hub:    NewStatsHub(cfg.Logger),
	}

	driver.Tree().Listener.
		OnCycle(func(stats mcts.TreeStats) { s.hub.Publish("stats", stats) }).
		SetCycleInterval(cfg.StatsInterval).
		OnStop(func(stats mcts.TreeStats) { s.hub.Publish("stop", stats) })

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/move", s.handleMove)
		r.Post("/reset", s.handleReset)
		r.Route("/search", func(r chi.Router) {
			r.Post("/start", s.handleSearchStart)
			r.Post("/cancel", s.handleSearchCancel)
			r.Get("/result", s.handleSearchResult)
		})
	})
	r.Get("/ws/stats", s.hub.serveWS)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RunHub pumps the websocket broadcast loop until done is closed.
func (s *Server) RunHub(done <-chan struct{}) {
	s.hub.Run(done)
}

// Hub exposes the stats hub, mainly for diagnostics.
func (s *Server) Hub() *StatsHub {
	return s.hub
}

type stateResponse struct {
	FEN         string       `json:"fen"`
	WhiteToMove bool         `json:"whiteToMove"`
	LegalMoves  []chess.Move `json:"legalMoves"`
	Terminal    bool         `json:"terminal"`
	Result      int8         `json:"result"`
	SearchState string       `json:"searchState"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	pos := s.driver.Position()
	terminal, result := pos.IsTerminal()
	writeJSON(w, http.StatusOK, stateResponse{
		FEN:         pos.FEN(),
		WhiteToMove: pos.WhiteToMove,
		LegalMoves:  pos.GenerateLegalMoves(),
		Terminal:    terminal,
		Result:      int8(result),
		SearchState: s.driver.State().String(),
	})
}

type moveRequest struct {
	Move string `json:"move"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	move, ok := chess.ParseMove(req.Move)
	if !ok {
		writeError(w, http.StatusBadRequest, "malformed move notation")
		return
	}

	err := s.driver.PlayMove(move)
	switch {
	case errors.Is(err, mcts.ErrSearchRunning):
		writeError(w, http.StatusConflict, "search in progress")
		return
	case errors.Is(err, mcts.ErrIllegalMove):
		writeError(w, http.StatusUnprocessableEntity, "illegal move "+req.Move)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.log.Info().Str("move", req.Move).Msg("move played")
	s.handleState(w, r)
}

type resetRequest struct {
	FEN string `json:"fen"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	req := resetRequest{FEN: chess.StartposFEN}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.FEN == "" {
			req.FEN = chess.StartposFEN
		}
	}

	pos, err := chess.ParseFEN(req.FEN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.driver.SetPosition(pos); err != nil {
		writeError(w, http.StatusConflict, "search in progress")
		return
	}
	s.handleState(w, r)
}

type searchStartRequest struct {
	Movetime int    `json:"movetime"` // milliseconds
	Cycles   uint32 `json:"cycles"`
}

func (s *Server) handleSearchStart(w http.ResponseWriter, r *http.Request) {
	var req searchStartRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	limits := s.driver.NewLimits()
	if req.Movetime > 0 {
		limits.SetMovetime(req.Movetime)
	}
	if req.Cycles > 0 {
		limits.SetCycles(req.Cycles)
	}

	// The driver applies the limits only once admission succeeds, so a
	// concurrent start cannot swap limits under a running search.
	if err := s.driver.Start(context.Background(), limits); err != nil {
		writeError(w, http.StatusConflict, "search already running")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"state": s.driver.State().String()})
}

func (s *Server) handleSearchCancel(w http.ResponseWriter, r *http.Request) {
	s.driver.Cancel()
	writeJSON(w, http.StatusOK, map[string]string{"state": s.driver.State().String()})
}

func (s *Server) handleSearchResult(w http.ResponseWriter, r *http.Request) {
	res, ok := s.driver.TakeResult()
	if !ok {
		writeError(w, http.StatusNotFound, "no search result available")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
