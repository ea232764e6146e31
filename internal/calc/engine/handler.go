package engine

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calcerr"
	"Deckwright/internal/logging"
	"Deckwright/internal/metrics"
	"Deckwright/internal/spantable"
)

type Handler struct {
	Engine  *Engine
	Ref     Reference
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

func (h *Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input deck.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	start := time.Now()
	res, err := h.Engine.Generate(input, h.Ref)
	h.Metrics.ObserveGeneration(len(res.Compliance.Warnings), err, time.Since(start))
	if err != nil {
		h.logger().Info("generation failed",
			zap.String("request_id", logging.RequestID(r.Context())),
			zap.Error(err),
		)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

type validateResponse struct {
	Valid   bool                 `json:"valid"`
	Request *deck.Request        `json:"request,omitempty"`
	Errors  []calcerr.FieldError `json:"errors"`
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var input deck.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req, err := Validate(input)
	resp := validateResponse{Valid: err == nil, Errors: []calcerr.FieldError{}}
	var ce *calcerr.Error
	switch {
	case err == nil:
		resp.Request = &req
	case errors.As(err, &ce):
		resp.Errors = ce.Fields
	}
	WriteJSON(w, http.StatusOK, resp)
}

type tablesResponse struct {
	Citations       spantable.Citations  `json:"citations"`
	Species         []deck.Species       `json:"species"`
	DeckingSpacings map[deck.Decking]int `json:"decking_max_spacing_in"`
	JoistSpanLadder []float64            `json:"joist_span_ladder"`
}

func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	ref := h.Ref.withDefaults()
	resp := tablesResponse{
		Citations:       ref.Tables.Citations(),
		Species:         deck.AllSpecies,
		DeckingSpacings: map[deck.Decking]int{},
		JoistSpanLadder: spantable.JoistSpanLadder,
	}
	for _, d := range deck.Deckings {
		if max, err := ref.Tables.MaxDeckingSpacing(d); err == nil {
			resp.DeckingSpacings[d] = max
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

type errorBody struct {
	Code    calcerr.Code         `json:"code"`
	Message string               `json:"message"`
	Fields  []calcerr.FieldError `json:"fields,omitempty"`
}

// StatusOf maps an engine error to its HTTP status.
func StatusOf(err error) int {
	switch calcerr.CodeOf(err) {
	case calcerr.CodeInvalidInput:
		return http.StatusBadRequest
	case calcerr.CodeSpeciesUnknown, calcerr.CodeSpanExceeded:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func WriteError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	body := errorBody{Code: calcerr.CodeOf(err), Message: err.Error()}
	var ce *calcerr.Error
	if errors.As(err, &ce) {
		body.Message = ce.Message
		body.Fields = ce.Fields
	}
	if status == http.StatusInternalServerError {
		body.Code = "INTERNAL"
		body.Message = "Calculation error"
	}
	WriteJSON(w, status, body)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
