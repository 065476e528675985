package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"dicetray/internal/config"
	"dicetray/internal/dice"
	"dicetray/internal/session"
)

type Server struct {
	Store     session.Store[*Table]
	Tmpl      *template.Template
	ImagesDir string
	AudioFile string
	Animation config.Animation
	Logger    zerolog.Logger
	// Dice overrides the random source for every new tray; nil means
	// crypto/rand.
	Dice dice.Source
}

const cookieName = "dicetray_sid"

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(s.Logger))

	r.Get("/", s.handleIndex)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/state", s.handleState)
	r.Post("/select/{kind}", s.kindGesture(GestureSelect))
	r.Post("/deselect/{kind}", s.kindGesture(GestureDeselect))
	r.Post("/instant/{kind}", s.kindGesture(GestureInstant))
	r.Post("/roll", s.handleRoll)
	r.Post("/reroll/{index}", s.handleReroll)
	r.Get("/ws", s.handleWS)

	r.Get("/faces/{file}", s.handleFace)
	r.Get("/audio/roll", s.handleAudio)
	r.Get("/sheet.pdf", s.handleSheet)
	return r
}

// Close stops every session's loop.
func (s *Server) Close() {
	if s.Store == nil {
		return
	}
	s.Store.Range(func(_ string, tb *Table) bool {
		tb.Close()
		return true
	})
}

func (s *Server) anim() config.Animation {
	if s.Animation == (config.Animation{}) {
		return config.Default().Animation
	}
	return s.Animation
}

func (s *Server) getOrCreateTable(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Table, string) {
	id := s.sessionID(r)
	if id != "" {
		tb, ok, err := s.Store.Get(ctx, id)
		if err == nil && ok {
			return tb, id
		}
	} else {
		id = s.Store.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	tb := newTable(s.anim(), s.Dice, s.Logger.With().Str("session", id[:min(8, len(id))]).Logger())
	if err := s.Store.Put(ctx, id, tb); err != nil {
		s.Logger.Error().Err(err).Msg("store session")
	}
	return tb, id
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// requestLogger logs one line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
