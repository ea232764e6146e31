package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"Deckwright/internal/calc/deck"
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

// PDF writes a design report for res.
func PDF(w io.Writer, res deck.Result, meta Meta, now time.Time) error {
	if meta.Title == "" {
		meta.Title = "Deck Framing Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	in := res.Input
	section(pdf, "Deck")
	line(pdf, "%.2f x %.2f ft, %.2f ft high, %s attachment, %s footings", in.WidthFt, in.LengthFt, in.HeightFt, in.Attachment, in.FootingType)
	line(pdf, "%s lumber, %s decking, optimized for %s", in.SpeciesGrade, in.DeckingType, res.OptimizationGoal)

	j := res.Joists
	section(pdf, "Joists")
	line(pdf, "%d x %s at %d in o.c., %s", j.Count, j.Size, j.SpacingIn, j.Orientation)
	line(pdf, "span %.2f ft, back-span %.2f ft of %.2f ft allowable, cantilever %.2f ft", j.SpanFt, j.BackSpanFt, j.AllowableFt, j.CantileverFt)

	section(pdf, "Beams")
	for _, b := range res.Beams {
		if b.IsLedger() {
			line(pdf, "%s: ledger, %.2f ft", b.Position, b.SpanFt)
			continue
		}
		line(pdf, "%s: %s %s, %.2f ft, %d posts at %.2f ft (allowable %.2f ft)",
			b.Position, b.Style, b.Size, b.SpanFt, b.PostCount, b.PostSpacingFt, b.AllowableFt)
	}

	section(pdf, "Posts")
	for _, p := range res.Posts {
		line(pdf, "%s beam: %s at (%.2f, %.2f) ft, %.2f ft tall", p.Beam, p.Size, p.XFt, p.YFt, p.HeightFt)
	}

	section(pdf, "Material takeoff")
	pdf.SetFont("Helvetica", "B", 9)
	widths := []float64{90, 18, 14, 24, 24}
	for i, h := range []string{"Item", "Qty", "Unit", "Unit cost", "Extended"} {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, it := range res.MaterialTakeoff {
		pdf.CellFormat(widths[0], 6, it.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, it.Unit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", it.UnitCost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%.2f", it.ExtendedCost), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 6, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 6, fmt.Sprintf("%.2f", res.TotalCost()), "1", 0, "R", false, 0, "")
	pdf.Ln(8)

	section(pdf, "Compliance")
	status := "PASS"
	if !res.Compliance.Passes {
		status = "REVIEW REQUIRED"
	}
	line(pdf, "Status: %s", status)
	for _, c := range res.Compliance.Citations {
		line(pdf, "Ref: %s", c)
	}
	for _, wn := range res.Compliance.Warnings {
		line(pdf, "Warning: %s", wn)
	}

	if meta.Notes != "" {
		section(pdf, "Notes")
		pdf.MultiCell(0, 6, meta.Notes, "", "L", false)
	}
	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
}

func line(pdf *gofpdf.Fpdf, format string, args ...any) {
	pdf.MultiCell(0, 5, fmt.Sprintf(format, args...), "", "L", false)
}
