package history

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fendysetiawan/SimpleFpCalc/internal/auth"
	"github.com/fendysetiawan/SimpleFpCalc/internal/repo"
)

type Handler struct {
	Repo repo.Repository
}

// Recent returns the caller's latest calculations, newest first.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}

	records, err := h.Repo.RecentCalculations(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []repo.CalculationRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
