package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calc/engine"
)

func f(v float64) *float64 { return &v }

func ledgerDeck() deck.Input {
	return deck.Input{
		WidthFt:      f(12),
		LengthFt:     f(16),
		HeightFt:     f(2),
		Attachment:   "ledger",
		FootingType:  "concrete",
		SpeciesGrade: "SPF #2",
		DeckingType:  "composite_1in",
	}
}

func generate(t *testing.T) (*engine.Engine, deck.Result) {
	t.Helper()
	e, err := engine.New()
	require.NoError(t, err)
	res, err := e.Generate(ledgerDeck(), engine.Reference{})
	require.NoError(t, err)
	return e, res
}

func TestPDF(t *testing.T) {
	_, res := generate(t)
	var buf bytes.Buffer
	err := PDF(&buf, res, Meta{Project: "Back yard", Notes: "Verify ledger flashing on site."},
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWorkbook(t *testing.T) {
	_, res := generate(t)
	wb, err := Workbook(res)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(TakeoffSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(res.MaterialTakeoff)+2)
	assert.Equal(t, "Description", rows[0][0])
	assert.Equal(t, res.MaterialTakeoff[0].Description, rows[1][0])

	last := len(rows)
	total, err := wb.GetCellValue(TakeoffSheet, fmt.Sprintf("D%d", last))
	require.NoError(t, err)
	assert.Equal(t, "Total", total)
	formula, err := wb.GetCellFormula(TakeoffSheet, fmt.Sprintf("E%d", last))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("SUM(E2:E%d)", last-1), formula)

	framing, err := wb.GetRows(FramingSheet)
	require.NoError(t, err)
	require.Len(t, framing, 2+len(res.Beams))
	assert.Equal(t, "joists", framing[1][0])
	assert.Equal(t, "ledger", framing[2][0])
	assert.Equal(t, "beam", framing[3][0])
}

func post(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw)))
	return rec
}

func TestHandler(t *testing.T) {
	e, _ := generate(t)
	h := &Handler{Engine: e}

	rec := post(t, h.PDF, Input{Meta: Meta{Project: "Back yard"}, Deck: ledgerDeck()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = post(t, h.XLSX, Input{Deck: ledgerDeck()})
	require.Equal(t, http.StatusOK, rec.Code)
	wb, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{TakeoffSheet, FramingSheet}, wb.GetSheetList())
}

func TestHandlerErrors(t *testing.T) {
	e, _ := generate(t)
	h := &Handler{Engine: e}

	rec := httptest.NewRecorder()
	h.PDF(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bad := ledgerDeck()
	bad.WidthFt = f(-1)
	rec = post(t, h.XLSX, Input{Deck: bad})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}
