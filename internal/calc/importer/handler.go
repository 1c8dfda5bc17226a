package importer

import (
	"encoding/json"
	"fmt"
	"net/http"

	fp "github.com/fendysetiawan/SimpleFpCalc/internal/calc/fp"
	"github.com/xuri/excelize/v2"
)

type Handler struct{}

type FpImportResult struct {
	Count   int         `json:"count"`
	Results []fp.Result `json:"results"`
}

// Fp imports engine inputs from the first sheet of an uploaded workbook,
// one calculation per row below the header. Bad rows are skipped.
func (h *Handler) Fp(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	var results []fp.Result
	for i := 1; i < len(rows); i++ {
		input, err := parseFpRow(rows[i])
		if err != nil {
			continue
		}
		res, err := fp.Calculate(input)
		if err != nil {
			continue
		}
		results = append(results, res)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FpImportResult{Count: len(results), Results: results})
}

func parseFpRow(row []string) (fp.Input, error) {
	// expected: sds, ap, rpo, ie, rmu, z_ft, h_ft
	if len(row) < 7 {
		return fp.Input{}, fmt.Errorf("bad row")
	}
	vals := make([]float64, 7)
	for i := 0; i < 7; i++ {
		v, err := toFloat(row[i])
		if err != nil {
			return fp.Input{}, err
		}
		vals[i] = v
	}
	return fp.Input{
		SDS: vals[0],
		Ap:  vals[1],
		Rpo: vals[2],
		Ie:  vals[3],
		Rmu: vals[4],
		ZFt: vals[5],
		HFt: vals[6],
	}, nil
}

func toFloat(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(s, "%f", &v)
	return v, err
}
