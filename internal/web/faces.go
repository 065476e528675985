package web

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"dicetray/internal/assets"
)

// handleFace serves /faces/{file}. Only canonical face names are accepted,
// so the name can be joined onto ImagesDir without further checks. When the
// directory has no such image a placeholder is drawn.
func (s *Server) handleFace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	kind, face, err := assets.ParseFaceFile(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", assetCacheControl)

	if s.ImagesDir != "" {
		p := filepath.Join(s.ImagesDir, assets.FaceFile(kind, face))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			w.Header().Set("Content-Type", "image/png")
			http.ServeFile(w, r, p)
			return
		}
	}

	b, err := assets.PlaceholderPNG(kind, face)
	if err != nil {
		s.Logger.Error().Err(err).Str("file", name).Msg("placeholder face")
		http.Error(w, "failed to draw face", 500)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(b)
}
