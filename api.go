package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/walterschell/personal-chess/chessanalysis"
	"github.com/walterschell/personal-chess/engine"
	"github.com/walterschell/personal-chess/notation"
)

const (
	maxJSONBodyBytes   int64 = 1 << 16
	invalidMoveMessage       = "Invalid move"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Warn("error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

// session resolves the game addressed by the request, writing a 404 when it
// does not exist.
func (app *Application) session(w http.ResponseWriter, r *http.Request) (string, *engine.Session, bool) {
	key, s, err := app.games.get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", nil, false
	}
	return key, s, true
}

type moveRequest struct {
	From engine.Position `json:"from"`
	To   engine.Position `json:"to"`
}

type moveResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Board   *engine.Snapshot `json:"board,omitempty"`
}

func (app *Application) createGameHandler(w http.ResponseWriter, r *http.Request) {
	id, s := app.games.create()
	log.Info("game created", "game", id, "games", app.games.count())
	snap := s.Snapshot()
	writeJSON(w, http.StatusCreated, struct {
		ID    string          `json:"id"`
		Board engine.Snapshot `json:"board"`
	}{id, snap})
}

func (app *Application) boardHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := app.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (app *Application) moveHandler(w http.ResponseWriter, r *http.Request) {
	key, s, ok := app.session(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	snap, accepted := s.Move(req.From, req.To)
	if !accepted {
		writeError(w, http.StatusBadRequest, invalidMoveMessage)
		return
	}
	app.hub.broadcast(key, boardEvent(snap))
	writeJSON(w, http.StatusOK, moveResponse{Success: true, Board: &snap})
}

func (app *Application) resetHandler(w http.ResponseWriter, r *http.Request) {
	key, s, ok := app.session(w, r)
	if !ok {
		return
	}
	snap := s.Reset()
	log.Info("game reset", "game", key)
	app.hub.broadcast(key, boardEvent(snap))
	writeJSON(w, http.StatusOK, moveResponse{Success: true, Message: "Game reset", Board: &snap})
}

// destinationsHandler backs move-preview highlighting.
func (app *Application) destinationsHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := app.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	rank, err1 := strconv.Atoi(q.Get("rank"))
	file, err2 := strconv.Atoi(q.Get("file"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "rank and file are required integers")
		return
	}
	from := engine.NewPosition(rank, file)
	dests := s.LegalDestinations(from)
	if dests == nil {
		dests = []engine.Position{}
	}
	writeJSON(w, http.StatusOK, struct {
		From         engine.Position   `json:"from"`
		Destinations []engine.Position `json:"destinations"`
	}{from, dests})
}

type historyEntry struct {
	Ply  int           `json:"ply"`
	UCI  string        `json:"uci"`
	SAN  string        `json:"san,omitempty"`
	Move engine.Played `json:"move"`
}

func (app *Application) historyHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := app.session(w, r)
	if !ok {
		return
	}
	history := s.History()
	// SAN is best effort: plies after one standard chess cannot express
	// are listed without it.
	_, sans, err := notation.Replay(history)
	if err != nil {
		log.Debug("history SAN truncated", "plies", len(sans), "error", err)
	}
	out := make([]historyEntry, 0, len(history))
	for i, played := range history {
		uci, _ := notation.UCI(played.Move)
		entry := historyEntry{Ply: i + 1, UCI: uci, Move: played}
		if i < len(sans) {
			entry.SAN = sans[i]
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

func (app *Application) fenHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := app.session(w, r)
	if !ok {
		return
	}
	snap, history := s.State()
	writeJSON(w, http.StatusOK, map[string]string{
		"fen": notation.FEN(snap, notation.FullmoveNumber(len(history))),
	})
}

func (app *Application) pgnHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := app.session(w, r)
	if !ok {
		return
	}
	snap, history := s.State()
	pgn, err := notation.PGN(history, snap.Status)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn")
	w.Write([]byte(pgn))
}

func (app *Application) analysisHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := app.session(w, r)
	if !ok {
		return
	}
	results, err := chessanalysis.AnalyzeMoves(s.History(),
		chessanalysis.WithDepth(app.cfg.AnalysisDepth),
		chessanalysis.WithEnginePath(app.cfg.StockfishPath),
	)
	switch {
	case errors.Is(err, chessanalysis.ErrEmptyHistory):
		results = []chessanalysis.MoveAnalysis{}
	case errors.Is(err, chessanalysis.ErrEngineUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, notation.ErrNotRepresentable):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		log.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	out := make([]*chessanalysis.MoveAnalysis, len(results))
	for i := range results {
		out[i] = &results[i]
	}
	writeJSON(w, http.StatusOK, out)
}
