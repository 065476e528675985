package tray

import "dicetray/internal/dice"

// Entry is one resolved die.
type Entry struct {
	Kind  dice.Kind `json:"kind"`
	Value int       `json:"value"`
}

// Result is the ordered outcome of the last completed roll. Indexes are
// stable for the lifetime of the result.
type Result []Entry

// Sum adds every entry, counting a d10 zero as ten.
func (r Result) Sum() int {
	total := 0
	for _, e := range r {
		total += dice.Normalize(e.Kind, e.Value)
	}
	return total
}

func (r Result) Clone() Result {
	if r == nil {
		return nil
	}
	out := make(Result, len(r))
	copy(out, r)
	return out
}
