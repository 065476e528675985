package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"dicetray/internal/tray"
)

const (
	wsWriteWait = 5 * time.Second
	wsReadLimit = 4096
)

// The default origin check applies: the page is served from this host.
var upgrader = websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096}

// GET /ws streams the session's views and sound cues, and takes gestures.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	tb, id := s.getOrCreateTable(r.Context(), w, r)
	log := s.Logger.With().Str("session", id[:min(8, len(id))]).Logger()

	// Pass through the session cookie if one was just issued.
	conn, err := upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		log.Debug().Err(err).Msg("ws upgrade")
		return
	}
	defer conn.Close()

	sub, err := tb.watch()
	if err != nil {
		log.Debug().Err(err).Msg("ws watch")
		return
	}
	defer tb.unsubscribe(sub)
	log.Debug().Str("from", r.RemoteAddr).Msg("ws: connect")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.ch {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug().Err(err).Msg("ws: write")
				return
			}
		}
	}()

	conn.SetReadLimit(wsReadLimit)
	for {
		var g Gesture
		if err := conn.ReadJSON(&g); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("ws: read")
			}
			break
		}
		if _, err := tb.Apply(g); err != nil {
			switch {
			case errors.Is(err, tray.ErrIndexOutOfRange):
				log.Info().Err(err).Int("index", g.Index).Msg("ws: reroll ignored")
			default:
				log.Debug().Err(err).Str("gesture", g.Type).Msg("ws: gesture ignored")
			}
		}
	}
	tb.unsubscribe(sub)
	<-done
	log.Debug().Msg("ws: closed")
}
