package batch

import (
	"encoding/json"
	"net/http"

	"Deckwright/internal/calc/engine"
)

type Handler struct {
	Engine *engine.Engine
	Ref    engine.Reference
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Run(h.Engine, input, h.Ref)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	engine.WriteJSON(w, http.StatusOK, res)
}
