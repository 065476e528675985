// Package loop runs functions one at a time on a dedicated goroutine.
//
// Each dice tray owns a Loop. HTTP handlers, WebSocket readers and
// animation timers all hand their work to the loop, so tray state is only
// ever touched from one goroutine.
package loop

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("loop closed")

const queueSize = 256

type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// New starts a loop.
func New() *Loop {
	l := &Loop{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		select {
		case f := <-l.queue:
			f()
		case <-l.done:
			return
		}
	}
}

// Post enqueues f without waiting. It reports false once the loop is closed.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- f:
		return true
	case <-l.done:
		return false
	}
}

// Do runs f on the loop and waits for it to return.
func (l *Loop) Do(f func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		f()
	}) {
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Close stops the loop. Queued work that has not started is dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

// Timers returns a scheduler whose callbacks run on the loop.
func (l *Loop) Timers() *Timers {
	return &Timers{loop: l}
}

// Timers implements animate.Scheduler on wall-clock time.
type Timers struct {
	loop *Loop
}

func (t *Timers) Now() time.Time { return time.Now() }

func (t *Timers) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, func() { t.loop.Post(f) })
}
