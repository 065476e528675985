package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// audioExtensions lists file extensions to try when AudioFile has no extension.
var audioExtensions = []string{".mp3", ".ogg", ".wav", ".m4a"}

const (
	contentTypeMP3 = "audio/mpeg"
	contentTypeOGG = "audio/ogg"
	contentTypeWAV = "audio/wav"
	contentTypeM4A = "audio/mp4"
)

const assetCacheControl = "public, max-age=3600"

// handleAudio serves the roll sound. AudioFile may name the file exactly or
// leave the extension off, in which case .mp3, .ogg, .wav and .m4a are tried.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	if s.AudioFile == "" {
		http.NotFound(w, r)
		return
	}
	candidates := []string{s.AudioFile}
	if filepath.Ext(s.AudioFile) == "" {
		for _, ext := range audioExtensions {
			candidates = append(candidates, s.AudioFile+ext)
		}
	}

	for _, p := range candidates {
		f, err := os.Open(p) // #nosec G304 -- p comes from operator config
		if err != nil {
			continue
		}
		info, err := f.Stat()
		if err != nil || info.IsDir() {
			_ = f.Close()
			continue
		}
		defer f.Close()
		w.Header().Set("Content-Type", audioContentType(p))
		w.Header().Set("Cache-Control", assetCacheControl)
		http.ServeContent(w, r, filepath.Base(p), info.ModTime(), f)
		return
	}
	s.Logger.Warn().Str("file", s.AudioFile).Msg("roll sound not found")
	http.NotFound(w, r)
}

func audioContentType(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".ogg":
		return contentTypeOGG
	case ".wav":
		return contentTypeWAV
	case ".m4a":
		return contentTypeM4A
	default:
		return contentTypeMP3
	}
}
