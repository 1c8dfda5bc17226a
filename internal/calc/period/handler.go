package period

import (
	"encoding/json"
	"net/http"
)

type Handler struct{}

type calcRequest struct {
	StructureType StructureType `json:"structure_type"`
	HeightFt      float64       `json:"h_ft"`
	ZFt           float64       `json:"z_ft"`
}

type calcResponse struct {
	Period       Result       `json:"period"`
	HeightFactor HeightFactor `json:"height_factor"`
}

// Calc returns the approximate period and the refined ASCE 7-22 height
// factor for an attachment elevation.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input calcRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.StructureType == "" {
		input.StructureType = AllOther
	}
	ta, err := Approximate(input.StructureType, input.HeightFt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	hf, err := Refined(input.ZFt, input.HeightFt, ta.TaS)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(calcResponse{Period: ta, HeightFactor: hf})
}
