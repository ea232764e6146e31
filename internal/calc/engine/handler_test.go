package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calcerr"
	"Deckwright/internal/metrics"
)

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf)))
	return rec
}

func TestHandlerGenerate(t *testing.T) {
	_, m := metrics.NewRegistry()
	h := &Handler{Engine: newEngine(t), Metrics: m}

	rec := postJSON(t, h.Generate, ledgerInput())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res deck.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "2x8", res.Joists.Size)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues("ok", "")))
}

func TestHandlerGenerateErrors(t *testing.T) {
	h := &Handler{Engine: newEngine(t)}

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	in := ledgerInput()
	in.WidthFt = nil
	rec = postJSON(t, h.Generate, in)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, calcerr.CodeInvalidInput, body.Code)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "width_ft", body.Fields[0].Field)

	in = ledgerInput()
	in.WidthFt, in.LengthFt = f(30), f(30)
	rec = postJSON(t, h.Generate, in)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandlerValidate(t *testing.T) {
	h := &Handler{Engine: newEngine(t)}

	rec := postJSON(t, h.Validate, ledgerInput())
	require.Equal(t, http.StatusOK, rec.Code)
	var ok validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.True(t, ok.Valid)
	require.NotNil(t, ok.Request)
	assert.Equal(t, deck.GoalCost, ok.Request.OptimizationGoal)

	in := ledgerInput()
	in.Attachment = "floating"
	in.DeckingType = ""
	rec = postJSON(t, h.Validate, in)
	var bad validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bad))
	assert.False(t, bad.Valid)
	assert.Len(t, bad.Errors, 2)
}

func TestHandlerTables(t *testing.T) {
	h := &Handler{Engine: newEngine(t)}
	rec := httptest.NewRecorder()
	h.Tables(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tablesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 16, resp.DeckingSpacings[deck.DeckingComposite1])
	assert.Len(t, resp.Species, 4)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(calcerr.New(calcerr.CodeInvalidInput, "x")))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(calcerr.New(calcerr.CodeSpeciesUnknown, "x")))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(calcerr.New(calcerr.CodeSpanExceeded, "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("x")))
}
