package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dicetray/internal/dice"
	"dicetray/internal/tray"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tb, _ := s.getOrCreateTable(r.Context(), w, r)
	vm := newPageViewModel(tb.View())
	w.Header().Set("Cache-Control", "no-store")
	if err := s.Tmpl.ExecuteTemplate(w, "tray.html", vm); err != nil {
		s.Logger.Error().Err(err).Msg("render tray")
		http.Error(w, "failed to render template", 500)
	}
}

// GET /state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	tb, _ := s.getOrCreateTable(r.Context(), w, r)
	writeView(w, tb.View())
}

// POST /select/{kind}, /deselect/{kind}, /instant/{kind}
func (s *Server) kindGesture(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.apply(w, r, Gesture{Type: kind, Kind: chi.URLParam(r, "kind")})
	}
}

// POST /roll
func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, Gesture{Type: GestureRoll})
}

// POST /reroll/{index}
func (s *Server) handleReroll(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "bad index", 400)
		return
	}
	s.apply(w, r, Gesture{Type: GestureReroll, Index: idx})
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, g Gesture) {
	tb, _ := s.getOrCreateTable(r.Context(), w, r)
	v, err := tb.Apply(g)
	switch {
	case err == nil:
	case errors.Is(err, dice.ErrUnknownKind):
		http.NotFound(w, r)
		return
	case errors.Is(err, tray.ErrIndexOutOfRange),
		errors.Is(err, tray.ErrRerollInFlight),
		errors.Is(err, tray.ErrRollInFlight):
		// Nothing visibly happens; the unchanged view goes back.
		s.Logger.Debug().Err(err).Str("gesture", g.Type).Msg("gesture ignored")
	default:
		s.Logger.Error().Err(err).Str("gesture", g.Type).Msg("gesture failed")
		http.Error(w, err.Error(), 500)
		return
	}
	writeView(w, v)
}

func writeView(w http.ResponseWriter, v tray.View) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(v)
}
