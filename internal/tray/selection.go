package tray

import (
	"strconv"
	"strings"

	"dicetray/internal/dice"
)

// Selection counts the dice queued for the next roll. Counts never go
// negative; a zero count is the same as an absent kind.
type Selection struct {
	counts map[dice.Kind]int
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{counts: map[dice.Kind]int{}}
}

// Add queues one more die of kind.
func (s *Selection) Add(kind dice.Kind) {
	s.counts[kind]++
}

// Remove drops one die of kind. Removing from a zero count does nothing and
// reports false.
func (s *Selection) Remove(kind dice.Kind) bool {
	if s.counts[kind] <= 0 {
		return false
	}
	s.counts[kind]--
	if s.counts[kind] == 0 {
		delete(s.counts, kind)
	}
	return true
}

func (s *Selection) Count(kind dice.Kind) int { return s.counts[kind] }

func (s *Selection) IsEmpty() bool { return s.Total() == 0 }

func (s *Selection) Total() int {
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Configuration copies the current counts without clearing them.
func (s *Selection) Configuration() Configuration {
	out := Configuration{}
	for k, c := range s.counts {
		if c > 0 {
			out[k] = c
		}
	}
	return out
}

// SnapshotAndClear returns the current counts and resets the selection.
func (s *Selection) SnapshotAndClear() Configuration {
	out := s.Configuration()
	s.counts = map[dice.Kind]int{}
	return out
}

// Configuration maps die kinds to how many of each are rolled together.
type Configuration map[dice.Kind]int

func (c Configuration) IsEmpty() bool { return c.Total() == 0 }

func (c Configuration) Total() int {
	n := 0
	for _, v := range c {
		if v > 0 {
			n += v
		}
	}
	return n
}

// Notation renders the non-zero kinds as "2d6 + 1d20", smallest die first.
func (c Configuration) Notation() string {
	parts := make([]string, 0, len(c))
	for _, k := range dice.Kinds {
		if n := c[k]; n > 0 {
			parts = append(parts, strconv.Itoa(n)+k.String())
		}
	}
	return strings.Join(parts, " + ")
}

// Expand flattens the configuration into one kind per die, grouped by kind
// in dice.Kinds order. The position of each die is its result index.
func (c Configuration) Expand() []dice.Kind {
	out := make([]dice.Kind, 0, c.Total())
	for _, k := range dice.Kinds {
		for i := 0; i < c[k]; i++ {
			out = append(out, k)
		}
	}
	return out
}

// Clone returns an independent copy.
func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	for k, v := range c {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}
