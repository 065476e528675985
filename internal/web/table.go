package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"dicetray/internal/config"
	"dicetray/internal/dice"
	"dicetray/internal/loop"
	"dicetray/internal/tray"
)

// Gesture names as sent by the page.
const (
	GestureSelect   = "select"
	GestureDeselect = "deselect"
	GestureInstant  = "instant"
	GestureRoll     = "roll"
	GestureReroll   = "reroll"
)

var (
	// ErrUnknownGesture is returned for a gesture type the tray does not know.
	ErrUnknownGesture = errors.New("unknown gesture")
	// ErrCueDropped is returned when a subscriber is too far behind to take
	// the sound cue.
	ErrCueDropped = errors.New("sound cue dropped")
)

const subscriberBuffer = 64

// Gesture is one user input, from a form post or a WebSocket message.
type Gesture struct {
	Type  string `json:"type"`
	Kind  string `json:"kind,omitempty"`
	Index int    `json:"index,omitempty"`
}

type wsMsg struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type subscriber struct {
	ch chan []byte
}

// Table is one session's dice tray together with the loop that owns it and
// the WebSocket clients watching it.
type Table struct {
	loop *loop.Loop
	tray *tray.Tray
	log  zerolog.Logger

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func newTable(anim config.Animation, src dice.Source, log zerolog.Logger) *Table {
	tb := &Table{
		loop: loop.New(),
		log:  log,
		subs: map[*subscriber]struct{}{},
	}
	tb.tray = tray.New(tray.Options{
		Scheduler: tb.loop.Timers(),
		Source:    src,
		Cue:       tb,
		Logger:    &tb.log,
		Batch:     anim.Batch,
		Instant:   anim.Instant,
	})
	tb.tray.OnChange(tb.publish)
	return tb
}

// Apply runs g against the tray and returns the view afterwards.
func (tb *Table) Apply(g Gesture) (tray.View, error) {
	var kind dice.Kind
	switch g.Type {
	case GestureSelect, GestureDeselect, GestureInstant:
		k, err := dice.ParseKind(g.Kind)
		if err != nil {
			return tb.View(), fmt.Errorf("%s %q: %w", g.Type, g.Kind, err)
		}
		kind = k
	case GestureRoll, GestureReroll:
	default:
		return tb.View(), fmt.Errorf("%w: %q", ErrUnknownGesture, g.Type)
	}

	var (
		v        tray.View
		applyErr error
	)
	err := tb.loop.Do(func() {
		applyErr = dispatch(tb.tray, g, kind)
		v = tb.tray.View()
	})
	if err != nil {
		return v, err
	}
	return v, applyErr
}

func dispatch(c tray.Controller, g Gesture, kind dice.Kind) error {
	switch g.Type {
	case GestureSelect:
		c.SelectKind(kind)
	case GestureDeselect:
		c.DeselectKind(kind)
	case GestureInstant:
		c.InstantRoll(kind)
	case GestureRoll:
		c.BatchRoll()
	case GestureReroll:
		return c.RerollIndex(g.Index)
	}
	return nil
}

// View returns the current view.
func (tb *Table) View() tray.View {
	var v tray.View
	_ = tb.loop.Do(func() { v = tb.tray.View() })
	return v
}

// Snapshot returns the committed result and the stored configuration.
func (tb *Table) Snapshot() (tray.Result, tray.Configuration) {
	var (
		res tray.Result
		cfg tray.Configuration
	)
	_ = tb.loop.Do(func() {
		res = tb.tray.Result()
		cfg = tb.tray.Configuration()
	})
	return res, cfg
}

// Play implements tray.Cue by telling every watching page to play the roll
// sound. It never blocks.
func (tb *Table) Play(_ context.Context) error {
	b, err := json.Marshal(wsMsg{Type: "sound"})
	if err != nil {
		return err
	}
	if dropped := tb.broadcast(b); dropped > 0 {
		return fmt.Errorf("%w for %d client(s)", ErrCueDropped, dropped)
	}
	return nil
}

// publish runs on the loop after every tray change.
func (tb *Table) publish(v tray.View) {
	b, err := json.Marshal(wsMsg{Type: "view", Data: v})
	if err != nil {
		tb.log.Error().Err(err).Msg("encode view")
		return
	}
	if dropped := tb.broadcast(b); dropped > 0 {
		tb.log.Debug().Int("clients", dropped).Msg("slow client missed a frame")
	}
}

func (tb *Table) broadcast(msg []byte) int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	dropped := 0
	for s := range tb.subs {
		select {
		case s.ch <- msg:
		default:
			dropped++
		}
	}
	return dropped
}

func (tb *Table) subscribe() *subscriber {
	s := &subscriber{ch: make(chan []byte, subscriberBuffer)}
	tb.mu.Lock()
	tb.subs[s] = struct{}{}
	tb.mu.Unlock()
	return s
}

// watch subscribes and queues the current view as the first message. Both
// happen on the loop so no change can slip in between.
func (tb *Table) watch() (*subscriber, error) {
	var s *subscriber
	err := tb.loop.Do(func() {
		s = tb.subscribe()
		b, err := json.Marshal(wsMsg{Type: "view", Data: tb.tray.View()})
		if err != nil {
			tb.log.Error().Err(err).Msg("encode view")
			return
		}
		s.ch <- b
	})
	return s, err
}

func (tb *Table) unsubscribe(s *subscriber) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, ok := tb.subs[s]; ok {
		delete(tb.subs, s)
		close(s.ch)
	}
}

// Close stops the table's loop. Animations still in flight are abandoned.
func (tb *Table) Close() {
	tb.loop.Close()
	tb.mu.Lock()
	defer tb.mu.Unlock()
	for s := range tb.subs {
		delete(tb.subs, s)
		close(s.ch)
	}
}
