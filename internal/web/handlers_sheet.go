package web

import (
	"net/http"

	"dicetray/internal/sheet"
)

// GET /sheet.pdf
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	tb, _ := s.getOrCreateTable(r.Context(), w, r)
	res, cfg := tb.Snapshot()
	pdf, err := sheet.Generate(sheet.Sheet{
		Title:     "Dice Tray",
		Notation:  cfg.Notation(),
		Result:    res,
		ImagesDir: s.ImagesDir,
	})
	if err != nil {
		s.Logger.Error().Err(err).Msg("generate sheet")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="dice-roll.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		s.Logger.Debug().Err(err).Msg("write sheet")
	}
}
