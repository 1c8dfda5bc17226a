package partition

import (
	"encoding/json"
	"net/http"
)

type Handler struct{}

type lookupRequest struct {
	WallHeight WallHeightCategory `json:"wall_height"`
	AboveGrade bool               `json:"above_grade"`
}

func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	var input lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	factors, err := Lookup(input.WallHeight, input.AboveGrade)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(factors)
}
