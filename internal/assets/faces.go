// Package assets names and draws the per-face die images.
package assets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dicetray/internal/dice"
)

// ErrBadFaceFile is returned for names that are not a known face image.
var ErrBadFaceFile = errors.New("not a die face image")

// d10MaxFile is the image for the d10 "10" face. Packs that name it
// d10_face0.png are not supported.
const d10MaxFile = "d10_face10.png"

const faceExt = ".png"

// FaceFile names the image for face of kind, e.g. "d6_face3.png". A d10
// zero is the ten face.
func FaceFile(kind dice.Kind, face int) string {
	face = dice.Normalize(kind, face)
	if kind == dice.D10 && face == 10 {
		return d10MaxFile
	}
	return fmt.Sprintf("%s_face%d%s", kind, face, faceExt)
}

// ParseFaceFile is the inverse of FaceFile.
func ParseFaceFile(name string) (dice.Kind, int, error) {
	base, ok := strings.CutSuffix(name, faceExt)
	if !ok {
		return 0, 0, ErrBadFaceFile
	}
	kindName, faceStr, ok := strings.Cut(base, "_face")
	if !ok {
		return 0, 0, ErrBadFaceFile
	}
	kind, err := dice.ParseKind(kindName)
	if err != nil || kindName != kind.String() {
		return 0, 0, ErrBadFaceFile
	}
	face, err := strconv.Atoi(faceStr)
	if err != nil || strconv.Itoa(face) != faceStr {
		return 0, 0, ErrBadFaceFile
	}
	if face < 1 || face > kind.Faces() {
		return 0, 0, fmt.Errorf("%w: %s has no face %d", ErrBadFaceFile, kind, face)
	}
	return kind, face, nil
}
