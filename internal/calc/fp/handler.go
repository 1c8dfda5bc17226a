package fp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fendysetiawan/SimpleFpCalc/internal/auth"
	"github.com/fendysetiawan/SimpleFpCalc/internal/calc/building"
	"github.com/fendysetiawan/SimpleFpCalc/internal/calc/partition"
	"github.com/fendysetiawan/SimpleFpCalc/internal/geo"
	"github.com/fendysetiawan/SimpleFpCalc/internal/hazard"
	"github.com/fendysetiawan/SimpleFpCalc/internal/logging"
	"github.com/fendysetiawan/SimpleFpCalc/internal/repo"

	"github.com/go-playground/validator/v10"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Location, error)
}

type SDSSource interface {
	SDS(ctx context.Context, lat, lon float64, siteClass string) (float64, error)
}

type Handler struct {
	Geocoder Geocoder
	Hazard   SDSSource
	Repo     repo.Repository // nil disables history persistence
	validate *validator.Validate
}

func NewHandler(g Geocoder, s SDSSource, r repo.Repository) *Handler {
	return &Handler{Geocoder: g, Hazard: s, Repo: r, validate: validator.New()}
}

type CalcRequest struct {
	Address        string                       `json:"address"`
	Latitude       *float64                     `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64                     `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	SiteClass      string                       `json:"site_class"`
	RiskCategory   building.RiskCategory        `json:"risk_category" validate:"required,oneof=II IV"`
	BuildingType   building.BuildingType        `json:"building_type" validate:"required,oneof=steel concrete masonry wood other"`
	Floors         int                          `json:"floors" validate:"required,min=1"`
	PartitionFloor int                          `json:"partition_floor" validate:"required,min=1"`
	WallHeight     partition.WallHeightCategory `json:"wall_height" validate:"required,oneof=le_9ft gt_9ft"`
}

type CalcResponse struct {
	Location *geo.Location     `json:"location,omitempty"`
	SDS      float64           `json:"sds"`
	Geometry building.Geometry `json:"geometry"`
	Factors  partition.Factors `json:"factors"`
	Result   Result            `json:"result"`
}

// Calc runs the full pipeline: coordinates, SDS, building model, partition
// factors, Fp. SDS resolution always completes (or fails) before the engine
// runs; an abandoned request cancels the fetch through its context.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	ctx := r.Context()

	var loc *geo.Location
	var lat, lon float64
	switch {
	case req.Latitude != nil && req.Longitude != nil:
		lat, lon = *req.Latitude, *req.Longitude
	default:
		resolved, err := h.Geocoder.Geocode(ctx, req.Address)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		loc = &resolved
		lat, lon = resolved.Lat, resolved.Lon
	}

	sds, err := h.Hazard.SDS(ctx, lat, lon, req.SiteClass)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	geom, err := building.Derive(building.Input{
		RiskCategory:   req.RiskCategory,
		BuildingType:   req.BuildingType,
		Floors:         req.Floors,
		PartitionFloor: req.PartitionFloor,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	factors, err := partition.Lookup(req.WallHeight, geom.ElevationFt > 0)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result, err := Calculate(Input{
		SDS: sds,
		Ap:  factors.CAR,
		Rpo: factors.Rpo,
		Ie:  geom.Ie,
		Rmu: geom.Rmu,
		ZFt: geom.ElevationFt,
		HFt: geom.TotalHeightFt,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.saveHistory(ctx, req, lat, lon, sds, result.Fp)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CalcResponse{
		Location: loc,
		SDS:      sds,
		Geometry: geom,
		Factors:  factors,
		Result:   result,
	})
}

// Compute exposes the bare engine for callers that already hold every
// numeric input.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) saveHistory(ctx context.Context, req CalcRequest, lat, lon, sds, fpVal float64) {
	if h.Repo == nil {
		return
	}
	userID, ok := auth.UserID(ctx)
	if !ok {
		return
	}
	_, err := h.Repo.SaveCalculation(ctx, repo.CalculationRecord{
		UserID:       userID,
		Address:      req.Address,
		Latitude:     lat,
		Longitude:    lon,
		RiskCategory: string(req.RiskCategory),
		BuildingType: string(req.BuildingType),
		WallHeight:   string(req.WallHeight),
		SDS:          sds,
		Fp:           fpVal,
	})
	if err != nil {
		// History is best effort; the calculation already succeeded.
		logging.Logger.WithError(err).Warn("Failed to persist calculation history")
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Code: code, Message: message})
}

// respondDomainError maps the error taxonomy onto HTTP statuses without
// rewriting the error itself.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, geo.ErrGeocodeUnresolved):
		writeError(w, http.StatusUnprocessableEntity, "geocode_unresolved", err.Error())
	case errors.Is(err, hazard.ErrServiceUnavailable):
		writeError(w, http.StatusBadGateway, "service_unavailable", err.Error())
	case errors.Is(err, hazard.ErrMalformedResponse):
		writeError(w, http.StatusBadGateway, "malformed_response", err.Error())
	case errors.Is(err, building.ErrInvalidGeometry),
		errors.Is(err, building.ErrUnknownRiskCategory),
		errors.Is(err, building.ErrUnknownBuildingType),
		errors.Is(err, partition.ErrUnknownCategory),
		errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		logging.Logger.WithError(err).Error("Unexpected calculation error")
		writeError(w, http.StatusInternalServerError, "internal_error", "calculation failed")
	}
}
