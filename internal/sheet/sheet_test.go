package sheet

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dicetray/internal/assets"
	"dicetray/internal/dice"
	"dicetray/internal/tray"
)

func TestGenerate_EmptyResult(t *testing.T) {
	b, err := Generate(Sheet{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_EveryKind(t *testing.T) {
	res := tray.Result{}
	for _, k := range dice.Kinds {
		res = append(res, tray.Entry{Kind: k, Value: k.Faces()})
	}
	// Two rows' worth so wrapping is exercised.
	res = append(res, tray.Entry{Kind: dice.D10, Value: 0}, tray.Entry{Kind: dice.D6, Value: 1})

	b, err := Generate(Sheet{Title: "Test", Notation: "1d4 + 1d6 + 1d8 + 2d10 + 1d12 + 1d20", Result: res})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(b) < 500 {
		t.Errorf("PDF too short: %d bytes", len(b))
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_EmbedsFaceImage(t *testing.T) {
	dir := t.TempDir()
	png, err := assets.PlaceholderPNG(dice.D8, 5)
	if err != nil {
		t.Fatalf("PlaceholderPNG: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, assets.FaceFile(dice.D8, 5)), png, 0o600); err != nil {
		t.Fatalf("write face: %v", err)
	}

	without, err := Generate(Sheet{Result: tray.Result{{Kind: dice.D8, Value: 5}}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	with, err := Generate(Sheet{Result: tray.Result{{Kind: dice.D8, Value: 5}}, ImagesDir: dir})
	if err != nil {
		t.Fatalf("Generate with images: %v", err)
	}
	if len(with) <= len(without) {
		t.Errorf("Expected embedded image to grow the PDF: %d <= %d", len(with), len(without))
	}
}

func TestGenerate_CorruptImageFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "d4_face2.png"), []byte("not a png"), 0o600); err != nil {
		t.Fatal(err)
	}
	b, err := Generate(Sheet{Result: tray.Result{{Kind: dice.D4, Value: 2}}, ImagesDir: dir})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}
