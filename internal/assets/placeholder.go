package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"dicetray/internal/dice"
)

// Placeholder faces are 64×64, drawn in 4×4 blocks (pixel-art style).
const (
	blockPx    = 4
	faceSize   = 64
	faceBlocks = faceSize / blockPx
)

var (
	pixelBack    = color.RGBA{0x32, 0x32, 0x32, 255} // dark grey background
	pixelOutline = color.RGBA{0x0a, 0x0a, 0x0a, 255}
	pixelNumber  = color.RGBA{0xf5, 0xf5, 0xf5, 255}
)

// One body colour per kind so equal numbers on different dice differ.
var kindColors = map[dice.Kind]color.RGBA{
	dice.D4:  {0xc4, 0x4c, 0x3c, 255}, // red
	dice.D6:  {0x3c, 0x7a, 0xc4, 255}, // blue
	dice.D8:  {0x4c, 0xa0, 0x5a, 255}, // green
	dice.D10: {0xc4, 0x8c, 0x2c, 255}, // amber
	dice.D12: {0x8a, 0x4c, 0xc4, 255}, // purple
	dice.D20: {0x96, 0x96, 0x96, 255}, // grey
}

// 3×5 block digits, '#' filled.
var digitGlyphs = [10][5]string{
	{"###", "#.#", "#.#", "#.#", "###"},
	{".#.", "##.", ".#.", ".#.", "###"},
	{"###", "..#", "###", "#..", "###"},
	{"###", "..#", "###", "..#", "###"},
	{"#.#", "#.#", "###", "..#", "..#"},
	{"###", "#..", "###", "..#", "###"},
	{"###", "#..", "###", "#.#", "###"},
	{"###", "..#", ".#.", ".#.", ".#."},
	{"###", "#.#", "###", "#.#", "###"},
	{"###", "#.#", "###", "..#", "###"},
}

// fillBlock fills one block at block coords (bx, by) with clr.
func fillBlock(img *image.RGBA, bx, by int, clr color.RGBA) {
	for dy := 0; dy < blockPx; dy++ {
		for dx := 0; dx < blockPx; dx++ {
			x := bx*blockPx + dx
			y := by*blockPx + dy
			if x < faceSize && y < faceSize {
				img.SetRGBA(x, y, clr)
			}
		}
	}
}

// inside reports whether block (bx, by) lies within the silhouette of kind.
func inside(kind dice.Kind, bx, by int) bool {
	cx := float64(bx) + 0.5 - faceBlocks/2
	cy := float64(by) + 0.5 - faceBlocks/2
	ax, ay := math.Abs(cx), math.Abs(cy)
	switch kind {
	case dice.D4: // triangle
		return cy >= -6.5 && cy <= 6.5 && ax <= (cy+6.5)*7.5/13
	case dice.D6: // square
		return ax <= 6 && ay <= 6
	case dice.D8: // diamond
		return ax+ay <= 7.5
	case dice.D10: // kite, widest above centre
		if cy < -2 {
			return cy >= -7.5 && ax <= (cy+7.5)*7/5.5
		}
		return cy <= 7.5 && ax <= (7.5-cy)*7/9.5
	case dice.D12: // disc
		return cx*cx+cy*cy <= 56
	case dice.D20: // hexagon
		return ay <= 7 && ax <= 7 && ax*0.5+ay <= 8
	default:
		return ax <= 6 && ay <= 6
	}
}

// Placeholder draws a stand-in image for face of kind: the die's outline in
// its kind colour with the number in block digits.
func Placeholder(kind dice.Kind, face int) image.Image {
	face = dice.Normalize(kind, face)
	img := image.NewRGBA(image.Rect(0, 0, faceSize, faceSize))
	body, ok := kindColors[kind]
	if !ok {
		body = pixelOutline
	}

	for by := 0; by < faceBlocks; by++ {
		for bx := 0; bx < faceBlocks; bx++ {
			switch {
			case !inside(kind, bx, by):
				fillBlock(img, bx, by, pixelBack)
			case !inside(kind, bx-1, by) || !inside(kind, bx+1, by) ||
				!inside(kind, bx, by-1) || !inside(kind, bx, by+1):
				fillBlock(img, bx, by, pixelOutline)
			default:
				fillBlock(img, bx, by, body)
			}
		}
	}

	digits := []int{face % 10}
	if face >= 10 {
		digits = []int{face / 10, face % 10}
	}
	width := len(digits)*3 + len(digits) - 1
	x0 := (faceBlocks - width) / 2
	y0 := (faceBlocks-5)/2 + 1
	for i, d := range digits {
		for row, line := range digitGlyphs[d] {
			for col, c := range line {
				if c == '#' {
					fillBlock(img, x0+i*4+col, y0+row, pixelNumber)
				}
			}
		}
	}
	return img
}

// PlaceholderPNG encodes Placeholder as PNG bytes.
func PlaceholderPNG(kind dice.Kind, face int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Placeholder(kind, face)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
