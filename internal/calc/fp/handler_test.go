package fp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fendysetiawan/SimpleFpCalc/internal/geo"
	"github.com/fendysetiawan/SimpleFpCalc/internal/hazard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	loc geo.Location
	err error
}

func (s stubGeocoder) Geocode(ctx context.Context, address string) (geo.Location, error) {
	return s.loc, s.err
}

type stubSDS struct {
	value float64
	err   error
	calls int
}

func (s *stubSDS) SDS(ctx context.Context, lat, lon float64, siteClass string) (float64, error) {
	s.calls++
	return s.value, s.err
}

func postCalc(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/fp/calc", bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h.Calc(rr, req)
	return rr
}

func validRequest() map[string]any {
	return map[string]any{
		"address":         "601 12th Street, Oakland 94607",
		"risk_category":   "IV",
		"building_type":   "other",
		"floors":          5,
		"partition_floor": 5,
		"wall_height":     "gt_9ft",
	}
}

func TestCalcFullPipeline(t *testing.T) {
	sds := &stubSDS{value: 1.0}
	h := NewHandler(stubGeocoder{loc: geo.Location{Lat: 37.8, Lon: -122.27, DisplayName: "Oakland"}}, sds, nil)

	rr := postCalc(t, h, validRequest())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 1, sds.calls, "SDS resolution must happen exactly once before the engine runs")

	var resp CalcResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.SDS)
	require.NotNil(t, resp.Location)
	assert.Equal(t, "Oakland", resp.Location.DisplayName)

	// Hospital, 5 floors at 16 ft, top-floor partition over 9 ft tall:
	// CAR=1.4, Rpo=1.5, Ie=1.5, Rmu=1.3, z=h -> amp=3.
	assert.Equal(t, 80.0, resp.Geometry.TotalHeightFt)
	assert.Equal(t, 80.0, resp.Geometry.ElevationFt)
	assert.Equal(t, 1.4, resp.Factors.CAR)
	expected := 0.4 * 1.4 * 1.0 / 1.5 * 3 * 1.5 / 1.3
	assert.InDelta(t, expected, resp.Result.FpCalc, 1e-9)
	assert.GreaterOrEqual(t, resp.Result.Fp, resp.Result.FpMin)
	assert.LessOrEqual(t, resp.Result.Fp, resp.Result.FpMax)
}

func TestCalcExplicitCoordinatesSkipGeocoder(t *testing.T) {
	h := NewHandler(stubGeocoder{err: fmt.Errorf("%w: should not be called", geo.ErrGeocodeUnresolved)}, &stubSDS{value: 0.8}, nil)

	req := validRequest()
	delete(req, "address")
	req["latitude"] = 37.8
	req["longitude"] = -122.27

	rr := postCalc(t, h, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestCalcGeocodeUnresolved(t *testing.T) {
	h := NewHandler(stubGeocoder{err: fmt.Errorf("%w: no match", geo.ErrGeocodeUnresolved)}, &stubSDS{value: 1.0}, nil)
	rr := postCalc(t, h, validRequest())
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "geocode_unresolved")
}

func TestCalcServiceUnavailable(t *testing.T) {
	sds := &stubSDS{err: fmt.Errorf("%w: timeout", hazard.ErrServiceUnavailable)}
	h := NewHandler(stubGeocoder{loc: geo.Location{Lat: 37.8, Lon: -122.27}}, sds, nil)
	rr := postCalc(t, h, validRequest())
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "service_unavailable")
}

func TestCalcMalformedUpstream(t *testing.T) {
	sds := &stubSDS{err: fmt.Errorf("%w: sds missing", hazard.ErrMalformedResponse)}
	h := NewHandler(stubGeocoder{loc: geo.Location{Lat: 37.8, Lon: -122.27}}, sds, nil)
	rr := postCalc(t, h, validRequest())
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "malformed_response")
}

func TestCalcValidationRejectsBadEnum(t *testing.T) {
	h := NewHandler(stubGeocoder{}, &stubSDS{value: 1.0}, nil)
	req := validRequest()
	req["risk_category"] = "III"
	rr := postCalc(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCalcInvalidGeometryNotClamped(t *testing.T) {
	sds := &stubSDS{value: 1.0}
	h := NewHandler(stubGeocoder{loc: geo.Location{Lat: 37.8, Lon: -122.27}}, sds, nil)
	req := validRequest()
	req["partition_floor"] = 6 // above the 5-floor roof
	rr := postCalc(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_input")
}

func TestComputeRawEngine(t *testing.T) {
	h := NewHandler(stubGeocoder{}, &stubSDS{}, nil)
	body, _ := json.Marshal(Input{SDS: 1.0, Ap: 1.0, Rpo: 2.5, Ie: 1.0, Rmu: 1.0, ZFt: 48, HFt: 48})
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/fp/compute", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Compute(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.InDelta(t, 0.48, res.Fp, 1e-12)
}

func TestComputeInvalidInput(t *testing.T) {
	h := NewHandler(stubGeocoder{}, &stubSDS{}, nil)
	body, _ := json.Marshal(Input{SDS: 1.0, Ap: 1.0, Rpo: 2.5, Ie: 1.0, Rmu: 1.0, ZFt: 10, HFt: 0})
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/fp/compute", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Compute(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
