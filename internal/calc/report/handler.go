package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calc/engine"
)

type Handler struct {
	Engine *engine.Engine
	Ref    engine.Reference
}

type Input struct {
	Meta Meta       `json:"meta"`
	Deck deck.Input `json:"deck"`
}

func (h *Handler) design(w http.ResponseWriter, r *http.Request) (Input, deck.Result, bool) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return input, deck.Result{}, false
	}
	res, err := h.Engine.Generate(input.Deck, h.Ref)
	if err != nil {
		engine.WriteError(w, err)
		return input, deck.Result{}, false
	}
	return input, res, true
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	input, res, ok := h.design(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := PDF(&buf, res, input.Meta, time.Now()); err != nil {
		http.Error(w, "PDF error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"deck-report.pdf\"")
	w.Write(buf.Bytes())
}

func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	_, res, ok := h.design(w, r)
	if !ok {
		return
	}
	f, err := Workbook(res)
	if err != nil {
		http.Error(w, "Workbook error", http.StatusInternalServerError)
		return
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "Workbook error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"deck-takeoff.xlsx\"")
	w.Write(buf.Bytes())
}
