// Package animate drives the face-cycling effect shown while a die settles.
//
// An Animation redraws random faces at a decelerating cadence for a
// randomized duration, then reports the final face exactly once. Animations
// are not safe for concurrent use; callers drive them from one goroutine
// (see package loop) or from a ManualClock in tests.
package animate

import (
	"time"

	"dicetray/internal/dice"
)

// State is the lifecycle stage of an Animation.
type State int

const (
	Pending State = iota
	Animating
	Resolved
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Animating:
		return "animating"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Scheduler is the timer primitive animations run on.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func())
}

// Params bounds the randomized duration and the redraw interval.
type Params struct {
	MinDuration time.Duration `yaml:"min_duration" env:"MIN_DURATION"`
	MaxDuration time.Duration `yaml:"max_duration" env:"MAX_DURATION"`
	MinInterval time.Duration `yaml:"min_interval" env:"MIN_INTERVAL"`
	MaxInterval time.Duration `yaml:"max_interval" env:"MAX_INTERVAL"`
}

// BatchParams apply to batch rolls and single-die re-rolls.
var BatchParams = Params{
	MinDuration: 250 * time.Millisecond,
	MaxDuration: 1000 * time.Millisecond,
	MinInterval: 50 * time.Millisecond,
	MaxInterval: 300 * time.Millisecond,
}

// InstantParams apply to the instant single roll; the ceiling is shorter.
var InstantParams = Params{
	MinDuration: 250 * time.Millisecond,
	MaxDuration: 800 * time.Millisecond,
	MinInterval: 50 * time.Millisecond,
	MaxInterval: 300 * time.Millisecond,
}

// Duration draws a whole-millisecond duration uniformly from
// [MinDuration, MaxDuration], both ends inclusive.
func (p Params) Duration(src dice.Source) time.Duration {
	lo := p.MinDuration.Milliseconds()
	hi := p.MaxDuration.Milliseconds()
	if hi <= lo {
		return time.Duration(lo) * time.Millisecond
	}
	return time.Duration(lo+int64(src.Intn(int(hi-lo+1)))) * time.Millisecond
}

// Interval returns the wait before the next redraw. It grows linearly from
// MinInterval to MaxInterval with elapsed/duration and never exceeds
// MaxInterval.
func Interval(p Params, elapsed, duration time.Duration) time.Duration {
	if duration <= 0 {
		return p.MaxInterval
	}
	progress := float64(elapsed) / float64(duration)
	d := p.MinInterval + time.Duration(progress*float64(p.MaxInterval-p.MinInterval))
	if d > p.MaxInterval {
		d = p.MaxInterval
	}
	return d
}

// Handlers receive the animation's output. OnFace gets every intermediate
// face; OnResolved gets the final face once.
type Handlers struct {
	OnFace     func(face int)
	OnResolved func(final int)
}

// Animation is one die instance being resolved.
type Animation struct {
	kind     dice.Kind
	final    int
	params   Params
	duration time.Duration
	src      dice.Source

	sched    Scheduler
	handlers Handlers
	started  time.Time

	state   State
	elapsed time.Duration
	next    time.Duration
	frames  int
}

// New prepares a Pending animation that will settle on final. The duration
// is drawn here so it is fixed before the first frame.
func New(src dice.Source, kind dice.Kind, final int, p Params) *Animation {
	return &Animation{
		kind:     kind,
		final:    final,
		params:   p,
		duration: p.Duration(src),
		src:      src,
		state:    Pending,
	}
}

// Start runs the animation on sched. The first frame is drawn synchronously.
// Calling Start on an animation that is not Pending does nothing.
func (a *Animation) Start(sched Scheduler, h Handlers) {
	if a.state != Pending {
		return
	}
	a.sched = sched
	a.handlers = h
	a.started = sched.Now()
	a.state = Animating
	a.step()
}

func (a *Animation) step() {
	a.elapsed = a.sched.Now().Sub(a.started)
	if a.elapsed < a.duration {
		a.frames++
		if a.handlers.OnFace != nil {
			a.handlers.OnFace(dice.RollFace(a.src, a.kind))
		}
		a.next = Interval(a.params, a.elapsed, a.duration)
		a.sched.AfterFunc(a.next, a.step)
		return
	}
	a.state = Resolved
	a.next = 0
	if a.handlers.OnResolved != nil {
		a.handlers.OnResolved(a.final)
	}
}

func (a *Animation) Kind() dice.Kind             { return a.kind }
func (a *Animation) Final() int                  { return a.final }
func (a *Animation) State() State                { return a.state }
func (a *Animation) Duration() time.Duration     { return a.duration }
func (a *Animation) Elapsed() time.Duration      { return a.elapsed }
func (a *Animation) NextInterval() time.Duration { return a.next }

// Frames is the number of intermediate faces drawn so far.
func (a *Animation) Frames() int { return a.frames }
