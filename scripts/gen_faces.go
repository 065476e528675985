// gen_faces writes a placeholder PNG for every face of every die kind, named
// the way the tray looks them up (d6_face3.png and so on).
// Usage: go run scripts/gen_faces.go [outdir]
// Output defaults to static/images. Existing files are left alone.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dicetray/internal/assets"
	"dicetray/internal/dice"
)

func main() {
	code := run()
	if code != 0 {
		os.Exit(code)
	}
}

func run() int {
	outDir := filepath.Join("static", "images")
	switch len(os.Args) {
	case 1:
	case 2:
		outDir = filepath.Clean(os.Args[1])
	default:
		fmt.Fprintf(os.Stderr, "usage: go run scripts/gen_faces.go [outdir]\n")
		return 1
	}
	if strings.Contains(outDir, "..") {
		fmt.Fprintf(os.Stderr, "path must not escape current directory\n")
		return 1
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", outDir, err)
		return 1
	}

	written := 0
	for _, k := range dice.Kinds {
		for face := 1; face <= k.Faces(); face++ {
			path := filepath.Join(outDir, assets.FaceFile(k, face))
			if _, err := os.Stat(path); err == nil {
				continue
			}
			if err := writeFace(path, k, face); err != nil {
				fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
				return 1
			}
			written++
		}
	}
	fmt.Printf("%d face(s) written to %s\n", written, outDir)
	return 0
}

func writeFace(path string, k dice.Kind, face int) error {
	b, err := assets.PlaceholderPNG(k, face)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
