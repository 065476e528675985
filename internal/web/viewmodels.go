package web

import (
	"dicetray/internal/assets"
	"dicetray/internal/dice"
	"dicetray/internal/tray"
)

// KindOption is one selector icon.
type KindOption struct {
	Kind  string
	Asset string
}

// PageViewModel contains data for rendering the tray page.
type PageViewModel struct {
	Kinds []KindOption
	View  tray.View
}

func newPageViewModel(v tray.View) PageViewModel {
	kinds := make([]KindOption, 0, len(dice.Kinds))
	for _, k := range dice.Kinds {
		kinds = append(kinds, KindOption{Kind: k.String(), Asset: assets.FaceFile(k, k.Faces())})
	}
	return PageViewModel{Kinds: kinds, View: v}
}
