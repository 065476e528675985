// Package tray holds one user's dice session: the pending selection, the
// configuration of the last roll, the committed results, and the dice
// currently on display while they animate.
//
// A Tray is not safe for concurrent use. The server drives each tray from a
// single event loop, so every mutation and every animation callback runs to
// completion before the next one observes state.
package tray

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"dicetray/internal/animate"
	"dicetray/internal/dice"
)

var (
	// ErrIndexOutOfRange is returned for a re-roll outside the current result.
	ErrIndexOutOfRange = errors.New("re-roll index out of range")
	// ErrRerollInFlight is returned when the addressed die is still animating.
	ErrRerollInFlight = errors.New("die is already re-rolling")
	// ErrRollInFlight is returned for a re-roll while a full roll is animating.
	ErrRollInFlight = errors.New("roll in progress")
)

// Cue plays the roll sound. Play must not block; tray logs and ignores any
// error it returns.
type Cue interface {
	Play(ctx context.Context) error
}

// Controller is the set of user gestures a tray responds to.
type Controller interface {
	SelectKind(kind dice.Kind)
	DeselectKind(kind dice.Kind)
	InstantRoll(kind dice.Kind)
	BatchRoll()
	RerollIndex(index int) error
}

// Options configures a Tray. Scheduler is required.
type Options struct {
	Scheduler animate.Scheduler
	Source    dice.Source
	Cue       Cue
	Logger    *zerolog.Logger
	Batch     animate.Params
	Instant   animate.Params
}

type shownDie struct {
	kind    dice.Kind
	face    int
	rolling bool
}

type Tray struct {
	sched   animate.Scheduler
	src     dice.Source
	cue     Cue
	log     zerolog.Logger
	batch   animate.Params
	instant animate.Params

	selection *Selection
	config    Configuration
	result    Result

	// shown mirrors result index for index unless a roll is pending, in
	// which case it holds the pending roll's dice.
	shown []shownDie

	gen     int
	pending int
	staged  Result

	listeners []func(View)
}

var _ Controller = (*Tray)(nil)

// New returns an empty tray.
func New(opts Options) *Tray {
	t := &Tray{
		sched:     opts.Scheduler,
		src:       opts.Source,
		cue:       opts.Cue,
		batch:     opts.Batch,
		instant:   opts.Instant,
		selection: NewSelection(),
		config:    Configuration{},
	}
	if t.src == nil {
		t.src = dice.NewCryptoSource()
	}
	if opts.Logger != nil {
		t.log = *opts.Logger
	} else {
		t.log = zerolog.Nop()
	}
	if t.batch == (animate.Params{}) {
		t.batch = animate.BatchParams
	}
	if t.instant == (animate.Params{}) {
		t.instant = animate.InstantParams
	}
	return t
}

// OnChange registers f to receive the derived view after every mutation and
// every animation frame.
func (t *Tray) OnChange(f func(View)) {
	t.listeners = append(t.listeners, f)
}

// AddDie queues one die of kind and forgets the stored configuration.
func (t *Tray) AddDie(kind dice.Kind) {
	t.selection.Add(kind)
	t.config = Configuration{}
	t.notify()
}

// RemoveDie drops one queued die of kind. The stored configuration is
// forgotten even when nothing was queued.
func (t *Tray) RemoveDie(kind dice.Kind) {
	t.selection.Remove(kind)
	t.config = Configuration{}
	t.notify()
}

func (t *Tray) SelectKind(kind dice.Kind)   { t.AddDie(kind) }
func (t *Tray) DeselectKind(kind dice.Kind) { t.RemoveDie(kind) }

// BatchRoll rolls the selection, or repeats the stored configuration when
// nothing is selected. With neither it does nothing.
func (t *Tray) BatchRoll() {
	var cfg Configuration
	switch {
	case !t.selection.IsEmpty():
		cfg = t.selection.SnapshotAndClear()
	case !t.config.IsEmpty():
		cfg = t.config.Clone()
	default:
		t.log.Debug().Msg("roll requested with no dice selected")
		return
	}
	t.config = cfg.Clone()
	t.playCue("roll")
	t.start(cfg.Expand(), t.batch, nil)
}

// InstantRoll rolls a single die of kind without touching the selection.
// On completion it becomes the whole result and the stored configuration.
func (t *Tray) InstantRoll(kind dice.Kind) {
	t.playCue("instant")
	t.start([]dice.Kind{kind}, t.instant, func() {
		t.config = Configuration{kind: 1}
	})
}

// RerollIndex re-rolls one committed entry in place.
func (t *Tray) RerollIndex(index int) error {
	if t.pending > 0 {
		t.log.Debug().Int("index", index).Msg("re-roll ignored while a roll is in progress")
		return ErrRollInFlight
	}
	if index < 0 || index >= len(t.result) {
		err := fmt.Errorf("%w: %d (result has %d)", ErrIndexOutOfRange, index, len(t.result))
		t.log.Error().Err(err).Msg("re-roll failed")
		return err
	}
	if t.shown[index].rolling {
		return ErrRerollInFlight
	}

	t.playCue("reroll")
	gen := t.gen
	kind := t.result[index].Kind
	final := dice.RollFace(t.src, kind)
	t.shown[index].rolling = true

	a := animate.New(t.src, kind, final, t.batch)
	a.Start(t.sched, animate.Handlers{
		OnFace: func(face int) {
			if gen != t.gen {
				return
			}
			t.shown[index].face = face
			t.notify()
		},
		OnResolved: func(face int) {
			if gen != t.gen {
				t.log.Debug().Int("index", index).Msg("discarding re-roll of a replaced result")
				return
			}
			t.result[index].Value = face
			t.shown[index] = shownDie{kind: kind, face: face}
			t.notify()
		},
	})
	t.notify()
	return nil
}

// start animates one die per kind. When the last one resolves the staged
// values replace the result and commit runs. A later start supersedes this
// one; its animations still finish but their values are dropped.
func (t *Tray) start(kinds []dice.Kind, p animate.Params, commit func()) {
	t.gen++
	gen := t.gen
	t.pending = len(kinds)
	t.staged = make(Result, len(kinds))
	t.shown = make([]shownDie, len(kinds))

	anims := make([]*animate.Animation, len(kinds))
	for i, k := range kinds {
		final := dice.RollFace(t.src, k)
		t.staged[i] = Entry{Kind: k, Value: final}
		t.shown[i] = shownDie{kind: k, face: k.Faces(), rolling: true}
		anims[i] = animate.New(t.src, k, final, p)
	}
	t.notify()

	for i, a := range anims {
		i := i
		a.Start(t.sched, animate.Handlers{
			OnFace: func(face int) {
				if gen != t.gen {
					return
				}
				t.shown[i].face = face
				t.notify()
			},
			OnResolved: func(face int) {
				t.settle(gen, i, face, commit)
			},
		})
	}
}

func (t *Tray) settle(gen, i, face int, commit func()) {
	if gen != t.gen {
		t.log.Debug().Int("index", i).Msg("discarding die from a superseded roll")
		return
	}
	t.shown[i].face = face
	t.shown[i].rolling = false
	t.pending--
	if t.pending == 0 {
		t.result = t.staged
		t.staged = nil
		if commit != nil {
			commit()
		}
		t.log.Debug().Int("dice", len(t.result)).Int("sum", t.result.Sum()).Msg("roll complete")
	}
	t.notify()
}

func (t *Tray) playCue(action string) {
	if t.cue == nil {
		return
	}
	if err := t.cue.Play(context.Background()); err != nil {
		t.log.Warn().Err(err).Str("action", action).Msg("roll sound failed")
	}
}

func (t *Tray) notify() {
	if len(t.listeners) == 0 {
		return
	}
	v := t.View()
	for _, f := range t.listeners {
		f(v)
	}
}

// Selection returns a copy of the queued counts.
func (t *Tray) Selection() Configuration { return t.selection.Configuration() }

// Configuration returns a copy of the stored configuration.
func (t *Tray) Configuration() Configuration { return t.config.Clone() }

// Result returns a copy of the committed result.
func (t *Tray) Result() Result { return t.result.Clone() }

// Rolling reports whether a batch or instant roll is still animating.
func (t *Tray) Rolling() bool { return t.pending > 0 }
