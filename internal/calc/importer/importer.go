package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Deckwright/internal/calc/deck"
)

// Columns are the header names a request sheet may use, in template order.
var Columns = []string{
	"width_ft", "length_ft", "height_ft", "attachment", "footing_type", "species_grade",
	"decking_type", "optimization_goal", "forced_joist_spacing_in", "beam_style_outer", "beam_style_inner",
}

var required = []string{"width_ft", "length_ft", "height_ft"}

type RowError struct {
	Row     int    `json:"row"` // 1-based sheet row
	Message string `json:"message"`
}

type Sheet struct {
	Inputs []deck.Input `json:"-"`
	Rows   []int        `json:"rows"` // sheet row of each input
	Errors []RowError   `json:"row_errors"`
}

// Parse reads deck requests from the first sheet of a workbook: a header
// row, then one request per row. Blank rows are skipped. Rows whose numbers
// cannot be read are reported and left out; enum values are passed through
// for the validator to judge.
func Parse(r io.Reader) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Sheet{}, err
	}
	if len(rows) < 2 {
		return Sheet{}, fmt.Errorf("empty sheet")
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range required {
		if _, ok := index[c]; !ok {
			return Sheet{}, fmt.Errorf("missing column %q", c)
		}
	}

	out := Sheet{Errors: []RowError{}}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		in, err := parseRow(row, index)
		if err != nil {
			out.Errors = append(out.Errors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		out.Inputs = append(out.Inputs, in)
		out.Rows = append(out.Rows, i+1)
	}
	return out, nil
}

func parseRow(row []string, index map[string]int) (deck.Input, error) {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	number := func(name string) (*float64, error) {
		s := cell(name)
		if s == "" {
			return nil, nil
		}
		v, err := toFloat(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", name, s)
		}
		return &v, nil
	}

	var in deck.Input
	var err error
	if in.WidthFt, err = number("width_ft"); err != nil {
		return in, err
	}
	if in.LengthFt, err = number("length_ft"); err != nil {
		return in, err
	}
	if in.HeightFt, err = number("height_ft"); err != nil {
		return in, err
	}
	if in.ForcedJoistSpacingIn, err = number("forced_joist_spacing_in"); err != nil {
		return in, err
	}
	in.Attachment = cell("attachment")
	in.FootingType = cell("footing_type")
	in.SpeciesGrade = cell("species_grade")
	in.DeckingType = cell("decking_type")
	in.OptimizationGoal = cell("optimization_goal")
	in.BeamStyleOuter = cell("beam_style_outer")
	in.BeamStyleInner = cell("beam_style_inner")
	return in, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// Template returns an empty request workbook with the header row filled in.
func Template() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
