package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"Deckwright/internal/calc/deck"
)

const (
	TakeoffSheet = "Takeoff"
	FramingSheet = "Framing"
)

// Workbook lays out the takeoff of res on one sheet and the framing summary
// on another. The caller closes the file.
func Workbook(res deck.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), TakeoffSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeTakeoff(f, res); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(FramingSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeFraming(f, res); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeTakeoff(f *excelize.File, res deck.Result) error {
	header := []any{"Description", "Quantity", "Unit", "Unit cost", "Extended cost", "Category", "Subcategory", "Key"}
	if err := f.SetSheetRow(TakeoffSheet, "A1", &header); err != nil {
		return err
	}
	row := 2
	for _, it := range res.MaterialTakeoff {
		vals := []any{it.Description, it.Quantity, it.Unit, it.UnitCost, it.ExtendedCost, string(it.Category), it.Subcategory, it.Key}
		if err := f.SetSheetRow(TakeoffSheet, fmt.Sprintf("A%d", row), &vals); err != nil {
			return err
		}
		row++
	}
	if err := f.SetCellValue(TakeoffSheet, fmt.Sprintf("D%d", row), "Total"); err != nil {
		return err
	}
	if err := f.SetCellFormula(TakeoffSheet, fmt.Sprintf("E%d", row), fmt.Sprintf("SUM(E2:E%d)", row-1)); err != nil {
		return err
	}
	return f.SetColWidth(TakeoffSheet, "A", "A", 42)
}

func writeFraming(f *excelize.File, res deck.Result) error {
	j := res.Joists
	rows := [][]any{
		{"Member", "Position", "Style", "Size", "Span ft", "Spacing", "Count", "Allowable ft"},
		{"joists", "", "", j.Size, j.SpanFt, fmt.Sprintf("%d in", j.SpacingIn), j.Count, j.AllowableFt},
	}
	for _, b := range res.Beams {
		if b.IsLedger() {
			rows = append(rows, []any{"ledger", string(b.Position), string(b.Style), "", b.SpanFt, "", 0, ""})
			continue
		}
		rows = append(rows, []any{"beam", string(b.Position), string(b.Style), b.Size, b.SpanFt,
			fmt.Sprintf("%.2f ft", b.PostSpacingFt), b.PostCount, b.AllowableFt})
	}
	for i, r := range rows {
		if err := f.SetSheetRow(FramingSheet, fmt.Sprintf("A%d", i+1), &r); err != nil {
			return err
		}
	}
	return nil
}
