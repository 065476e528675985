// Package sheet renders the last roll as a printable one-page PDF: the
// notation, one die per entry with its value, and the total.
package sheet

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jung-kurt/gofpdf/v2"

	"dicetray/internal/assets"
	"dicetray/internal/dice"
	"dicetray/internal/tray"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	dieSize   = 56.0
	cellStep  = 80.0
	perRow    = 6
	fontSize  = 9
	titleSize = 18
	totalSize = 14
)

// Sheet is the content of one roll sheet.
type Sheet struct {
	Title    string
	Notation string
	Result   tray.Result
	// ImagesDir, when set, is searched for face images to embed. Faces
	// without an image are drawn as outlines.
	ImagesDir string
}

// Generate returns PDF bytes for s.
func Generate(s Sheet) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Felt-green header band
	pdf.SetFillColor(38, 84, 60)
	pdf.Rect(0, 0, pageW, margin+50, "F")

	title := s.Title
	if title == "" {
		title = "Dice Roll"
	}
	pdf.SetTextColor(245, 245, 245)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin, margin-10)
	pdf.CellFormat(pageW-2*margin, 20, title, "", 0, "L", false, 0, "")
	if s.Notation != "" {
		pdf.SetFont("Helvetica", "", fontSize+2)
		pdf.SetXY(margin, margin+14)
		pdf.CellFormat(pageW-2*margin, 14, s.Notation, "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(30, 30, 30)
	if len(s.Result) == 0 {
		pdf.SetFont("Helvetica", "I", totalSize)
		pdf.SetXY(margin, margin+90)
		pdf.CellFormat(pageW-2*margin, 20, "No dice rolled yet.", "", 0, "C", false, 0, "")
		return output(pdf)
	}

	x0 := float64(margin) + dieSize/2 + 8
	y0 := float64(margin) + 110
	var lastY float64
	for i, e := range s.Result {
		x := x0 + float64(i%perRow)*cellStep
		y := y0 + float64(i/perRow)*(cellStep+16)
		lastY = y
		face := dice.Normalize(e.Kind, e.Value)
		if !embedFace(pdf, s.ImagesDir, e.Kind, face, x, y) {
			drawDie(pdf, e.Kind, x, y, dieSize/2)
			pdf.SetFont("Helvetica", "B", totalSize)
			pdf.SetXY(x-dieSize/2, y-7)
			pdf.CellFormat(dieSize, 14, strconv.Itoa(face), "", 0, "C", false, 0, "")
		}
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.SetXY(x-dieSize/2, y+dieSize/2+4)
		pdf.CellFormat(dieSize, 10, "#"+strconv.Itoa(i+1)+" "+e.Kind.String(), "", 0, "C", false, 0, "")
	}

	pdf.SetDrawColor(38, 84, 60)
	pdf.SetLineWidth(1)
	ruleY := lastY + dieSize/2 + 30
	pdf.Line(margin, ruleY, pageW-margin, ruleY)
	pdf.SetFont("Helvetica", "B", totalSize)
	pdf.SetXY(margin, ruleY+8)
	pdf.CellFormat(pageW-2*margin, 18, "Total: "+strconv.Itoa(s.Result.Sum()), "", 0, "R", false, 0, "")

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// embedFace places the face image from dir at (x, y) if one exists.
func embedFace(pdf *gofpdf.Fpdf, dir string, kind dice.Kind, face int, x, y float64) bool {
	if dir == "" {
		return false
	}
	name := assets.FaceFile(kind, face)
	b, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // name comes from FaceFile
	if err != nil {
		return false
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(b))
	if pdf.Err() {
		pdf.ClearError()
		return false
	}
	pdf.ImageOptions(name, x-dieSize/2, y-dieSize/2, dieSize, dieSize, false, opts, 0, "")
	return true
}

// drawDie outlines a silhouette for kind centred on (x, y) with radius r.
func drawDie(pdf *gofpdf.Fpdf, kind dice.Kind, x, y, r float64) {
	pdf.SetDrawColor(20, 20, 20)
	pdf.SetFillColor(235, 235, 225)
	pdf.SetLineWidth(1.5)
	switch kind {
	case dice.D4:
		pdf.Polygon(regular(x, y, r, 3, -90), "FD")
	case dice.D6:
		pdf.Rect(x-r*0.8, y-r*0.8, r*1.6, r*1.6, "FD")
	case dice.D8:
		pdf.Polygon(regular(x, y, r, 4, -90), "FD")
	case dice.D10:
		pdf.Polygon([]gofpdf.PointType{
			{X: x, Y: y - r},
			{X: x + r*0.9, Y: y - r*0.15},
			{X: x, Y: y + r},
			{X: x - r*0.9, Y: y - r*0.15},
		}, "FD")
	case dice.D12:
		pdf.Polygon(regular(x, y, r, 5, -90), "FD")
	case dice.D20:
		pdf.Polygon(regular(x, y, r, 6, -90), "FD")
	default:
		pdf.Circle(x, y, r*0.8, "FD")
	}
	pdf.SetLineWidth(1)
}

// regular returns the vertices of a regular n-gon, first vertex at startDeg.
func regular(x, y, r float64, n int, startDeg float64) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, 0, n)
	for i := 0; i < n; i++ {
		a := (startDeg + float64(i)*360/float64(n)) * math.Pi / 180
		pts = append(pts, gofpdf.PointType{X: x + r*math.Cos(a), Y: y + r*math.Sin(a)})
	}
	return pts
}
