// Package sheetpdf renders a character sheet as a printable A4 PDF: header,
// abilities, a doll diagram shaded by damage, parts, skills, maneuvers by
// group, memory fragments and treasures.
package sheetpdf

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/jung-kurt/gofpdf/v2"

	"dollsheet/internal/nechronica"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	fontSize  = 9
	titleSize = 18
	smallSize = 7
	lineH     = 13
	dollSize  = 120.0
)

// ErrNoSheet is returned when there is nothing to render.
var ErrNoSheet = errors.New("no sheet to render")

type Options struct {
	// FontPath is a TrueType font with Japanese glyphs. Without one the
	// built-in Helvetica is used and non-Latin text degrades.
	FontPath string
	SheetID  string
}

type writer struct {
	pdf  *gofpdf.Fpdf
	font string
	tr   func(string) string
}

// Generate returns PDF bytes for s, which should already have any local
// overlay applied.
func Generate(s *nechronica.Sheet, opts Options) ([]byte, error) {
	if s == nil {
		return nil, ErrNoSheet
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	w := &writer{pdf: pdf, font: "Helvetica", tr: func(s string) string { return s }}
	if opts.FontPath != "" {
		if _, err := os.Stat(opts.FontPath); err != nil {
			return nil, fmt.Errorf("pdf font: %w", err)
		}
		pdf.AddUTF8Font("sheet", "", opts.FontPath)
		pdf.AddUTF8Font("sheet", "B", opts.FontPath)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("pdf font: %w", err)
		}
		w.font = "sheet"
	} else {
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.SetTitle(s.Name, opts.FontPath != "")
	pdf.SetCreator("dollsheet", false)

	w.newPage()
	w.header(s, opts.SheetID)
	top := pdf.GetY()
	drawDoll(pdf, pageW-margin-dollSize/2-10, top+dollSize/2+4, s.Regions())
	w.abilities(s.Abilities)
	w.parts(s.Parts)
	w.skills(s.Skills)
	if y := top + dollSize + 24; pdf.GetY() < y {
		pdf.SetY(y)
	}
	w.maneuvers(s.Groups())
	w.notes("記憶のカケラ", s.MemoryFragments)
	w.notes("たからもの", s.Treasures)
	if s.Notes != "" {
		w.section("メモ")
		w.paragraph(s.Notes)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *writer) newPage() {
	w.pdf.AddPage()
	w.pdf.SetFillColor(242, 238, 232)
	w.pdf.Rect(0, 0, pageW, pageH, "F")
	drawWavyBorder(w.pdf)
	w.pdf.SetTextColor(40, 30, 40)
	w.pdf.SetXY(margin+10, margin+12)
}

// ensure starts a new page when fewer than h points remain.
func (w *writer) ensure(h float64) {
	if w.pdf.GetY()+h > pageH-margin-12 {
		w.newPage()
	}
}

func (w *writer) setFont(style string, size float64) {
	w.pdf.SetFont(w.font, style, size)
}

func (w *writer) cell(width float64, txt, align string) {
	w.pdf.CellFormat(width, lineH, w.tr(txt), "", 0, align, false, 0, "")
}

func (w *writer) ln() {
	w.pdf.Ln(lineH)
	w.pdf.SetX(margin + 10)
}

func (w *writer) header(s *nechronica.Sheet, sheetID string) {
	w.setFont("B", titleSize)
	w.pdf.CellFormat(300, 22, w.tr(s.Name), "", 0, "L", false, 0, "")
	w.pdf.Ln(24)
	w.pdf.SetX(margin + 10)

	w.setFont("", fontSize)
	for _, line := range []string{
		joinNonEmpty(" / ", s.Position, s.MainClass, s.SubClass),
		joinNonEmpty("  ", s.Age, s.Height, s.Weight),
	} {
		if line != "" {
			w.cell(300, line, "L")
			w.ln()
		}
	}
	if sheetID != "" {
		w.setFont("", smallSize)
		w.cell(300, "sheet "+sheetID, "L")
		w.ln()
	}
	w.pdf.Ln(4)
	w.pdf.SetX(margin + 10)
}

func (w *writer) section(title string) {
	w.ensure(lineH * 3)
	w.pdf.Ln(6)
	w.pdf.SetX(margin + 10)
	w.setFont("B", fontSize+2)
	w.pdf.SetTextColor(110, 20, 40)
	w.cell(200, title, "L")
	w.pdf.SetTextColor(40, 30, 40)
	w.ln()
	w.setFont("", fontSize)
}

func (w *writer) paragraph(txt string) {
	w.setFont("", fontSize)
	w.pdf.MultiCell(pageW-2*margin-20, lineH, w.tr(txt), "", "L", false)
	w.pdf.SetX(margin + 10)
}

func (w *writer) abilities(a nechronica.Abilities) {
	w.section("能力値")
	for _, def := range nechronica.AbilityTable {
		w.cell(34, def.Label, "L")
		w.cell(20, strconv.Itoa(a.Get(def.Key)), "R")
		w.pdf.SetX(w.pdf.GetX() + 10)
	}
	w.ln()
}

func (w *writer) parts(parts []nechronica.BodyPart) {
	w.section("パーツ")
	for _, pos := range nechronica.PositionOrder {
		w.cell(40, nechronica.PositionLabel(pos), "L")
		for _, p := range parts {
			if p.Position != pos {
				continue
			}
			mark := "o"
			if p.Damage > 0 {
				mark = "x"
			}
			w.cell(52, p.Name+" "+mark, "L")
		}
		w.ln()
	}
}

func (w *writer) skills(skills []nechronica.Skill) {
	w.section("スキル")
	for _, sk := range skills {
		w.cell(40, sk.Name, "L")
		w.cell(20, strconv.Itoa(sk.Level), "R")
		w.pdf.SetX(w.pdf.GetX() + 10)
	}
	w.ln()
}

var maneuverCols = []struct {
	title string
	width float64
}{
	{"名称", 150},
	{"コスト", 40},
	{"タイミング", 70},
	{"射程", 60},
	{"種別", 80},
	{"状態", 90},
}

func (w *writer) maneuvers(groups []nechronica.ManeuverGroup) {
	w.section("マニューバ")
	if len(groups) == 0 {
		w.cell(200, "なし", "L")
		w.ln()
		return
	}
	for _, g := range groups {
		w.ensure(lineH * 3)
		w.setFont("B", fontSize)
		w.cell(200, g.Label, "L")
		w.ln()
		w.setFont("", smallSize)
		for _, c := range maneuverCols {
			w.cell(c.width, c.title, "L")
		}
		w.ln()
		w.setFont("", fontSize)
		for _, m := range g.Items {
			w.ensure(lineH * 2)
			row := []string{m.Name, strconv.Itoa(m.Cost), m.Timing, m.Range, nechronica.PowerTypeLabel(m.PowerType), statusText(m.Maneuver)}
			if m.Damaged {
				w.pdf.SetTextColor(150, 30, 30)
			}
			for i, c := range maneuverCols {
				w.cell(c.width, row[i], "L")
			}
			w.pdf.SetTextColor(40, 30, 40)
			w.ln()
			if m.Description != "" {
				w.setFont("", smallSize)
				w.pdf.SetX(margin + 22)
				w.pdf.MultiCell(pageW-2*margin-40, lineH-3, w.tr(m.Description), "", "L", false)
				w.pdf.SetX(margin + 10)
				w.setFont("", fontSize)
			}
		}
	}
}

func statusText(m nechronica.Maneuver) string {
	switch {
	case m.Used && m.Damaged:
		return "使用済/損傷"
	case m.Damaged:
		return "損傷"
	case m.Used:
		return "使用済"
	}
	return ""
}

func (w *writer) notes(title string, notes []nechronica.NamedNote) {
	if len(notes) == 0 {
		return
	}
	w.section(title)
	for _, n := range notes {
		w.ensure(lineH * 2)
		w.setFont("B", fontSize)
		w.cell(pageW-2*margin-20, n.Name, "L")
		w.ln()
		if n.Description != "" {
			w.paragraph(n.Description)
		}
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}

// drawWavyBorder draws a slightly uneven frame around the page.
func drawWavyBorder(pdf *gofpdf.Fpdf) {
	pts := wavyRectPoints(margin-10, margin-10, pageW-2*margin+20, pageH-2*margin+20, 14, 2.5)
	pdf.SetDrawColor(60, 20, 40)
	pdf.SetLineWidth(1.5)
	pdf.Polygon(pts, "D")
	pdf.SetLineWidth(1)
}

// wavyRectPoints returns polygon points for a rectangle with sinusoidal
// wobble on each side, walking clockwise from (x, y).
func wavyRectPoints(x, y, w, h float64, steps int, amp float64) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, 0, steps*4+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, gofpdf.PointType{X: x + t*w, Y: y + amp*math.Sin(float64(i)*0.9)})
	}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, gofpdf.PointType{X: x + w + amp*math.Sin(float64(i)*0.7), Y: y + t*h})
	}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, gofpdf.PointType{X: x + w - t*w, Y: y + h + amp*math.Sin(float64(i)*0.8)})
	}
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, gofpdf.PointType{X: x + amp*math.Sin(float64(i)*0.6), Y: y + h - t*h})
	}
	return pts
}

// drawDoll draws a simple doll figure centered at (cx, cy). Each region is
// filled pale when intact, dark red when every part in it is damaged, and
// in between otherwise.
func drawDoll(pdf *gofpdf.Fpdf, cx, cy float64, regions []nechronica.RegionSummary) {
	shade := map[nechronica.Position][3]int{}
	for _, r := range regions {
		shade[r.Position] = regionColor(r)
	}
	fill := func(p nechronica.Position) {
		c := shade[p]
		pdf.SetFillColor(c[0], c[1], c[2])
	}
	u := dollSize / 8

	pdf.SetDrawColor(40, 30, 40)
	pdf.SetLineWidth(1)

	fill(nechronica.PositionHead)
	pdf.Circle(cx, cy-3*u, u, "FD")

	fill(nechronica.PositionBody)
	pdf.Rect(cx-u, cy-2*u, 2*u, 3*u, "FD")

	fill(nechronica.PositionArm)
	pdf.Rect(cx-2*u, cy-2*u, 0.8*u, 2.6*u, "FD")
	pdf.Rect(cx+1.2*u, cy-2*u, 0.8*u, 2.6*u, "FD")

	fill(nechronica.PositionLeg)
	pdf.Rect(cx-u, cy+u, 0.8*u, 3*u, "FD")
	pdf.Rect(cx+0.2*u, cy+u, 0.8*u, 3*u, "FD")
}

func regionColor(r nechronica.RegionSummary) [3]int {
	total := r.IntactParts + r.DamagedParts
	if total == 0 || r.DamagedParts == 0 {
		return [3]int{250, 246, 240}
	}
	if r.IntactParts == 0 {
		return [3]int{140, 20, 30}
	}
	return [3]int{215, 140, 140}
}
