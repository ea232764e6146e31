package importer

import (
	"net/http"

	"Deckwright/internal/calc/batch"
	"Deckwright/internal/calc/engine"
)

type Handler struct {
	Engine *engine.Engine
	Ref    engine.Reference
}

type ImportResult struct {
	Sheet
	Batch *batch.Result `json:"batch,omitempty"`
}

func (h *Handler) Decks(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	sheet, err := Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out := ImportResult{Sheet: sheet}
	if len(sheet.Inputs) > 0 {
		res, err := batch.Run(h.Engine, batch.Input{Items: sheet.Inputs}, h.Ref)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out.Batch = &res
	}
	engine.WriteJSON(w, http.StatusOK, out)
}

// Template serves the blank request workbook.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	f, err := Template()
	if err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"decks.xlsx\"")
	if err := f.Write(w); err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
