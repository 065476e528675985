package tray

import (
	"dicetray/internal/assets"
	"dicetray/internal/dice"
)

const (
	labelEmpty     = "Select dice"
	labelRoll      = "Roll: "
	labelRollAgain = "Roll Again: "
)

// SelectedView is one queued die shown before the roll. Activating it
// removes one die of that kind.
type SelectedView struct {
	Kind  dice.Kind `json:"kind"`
	Asset string    `json:"asset"`
}

// DieView is one die on display. Rolling dice are not interactive.
type DieView struct {
	Index   int       `json:"index"`
	Kind    dice.Kind `json:"kind"`
	Face    int       `json:"face"`
	Asset   string    `json:"asset"`
	Rolling bool      `json:"rolling"`
}

// View is everything the user sees, derived from tray state.
type View struct {
	Label     string         `json:"label"`
	Enabled   bool           `json:"enabled"`
	Selection []SelectedView `json:"selection"`
	Dice      []DieView      `json:"dice"`
	Sum       int            `json:"sum"`
	ShowSum   bool           `json:"show_sum"`
	Rolling   bool           `json:"rolling"`
}

// Label derives the action control text and whether it is enabled.
func Label(selection, stored Configuration) (string, bool) {
	switch {
	case !selection.IsEmpty():
		return labelRoll + selection.Notation(), true
	case !stored.IsEmpty():
		return labelRollAgain + stored.Notation(), true
	default:
		return labelEmpty, false
	}
}

// View derives the current presentation.
func (t *Tray) View() View {
	sel := t.selection.Configuration()
	label, enabled := Label(sel, t.config)

	v := View{
		Label:     label,
		Enabled:   enabled,
		Selection: make([]SelectedView, 0, sel.Total()),
		Dice:      make([]DieView, 0, len(t.shown)),
		Rolling:   t.pending > 0,
	}
	for _, k := range sel.Expand() {
		v.Selection = append(v.Selection, SelectedView{Kind: k, Asset: assets.FaceFile(k, k.Faces())})
	}
	for i, d := range t.shown {
		face := dice.Normalize(d.kind, d.face)
		v.Dice = append(v.Dice, DieView{
			Index:   i,
			Kind:    d.kind,
			Face:    face,
			Asset:   assets.FaceFile(d.kind, face),
			Rolling: d.rolling || t.pending > 0,
		})
	}
	if len(t.result) > 0 && t.pending == 0 {
		v.Sum = t.result.Sum()
		v.ShowSum = true
	}
	return v
}
