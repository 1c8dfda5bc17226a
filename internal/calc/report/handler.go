package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	fp "github.com/fendysetiawan/SimpleFpCalc/internal/calc/fp"
	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string   `json:"project"`
	Author  string   `json:"author"`
	Title   string   `json:"title"`
	Address string   `json:"address"`
	Notes   string   `json:"notes"`
	Inputs  fp.Input `json:"inputs"`
}

type Handler struct{}

// Generate renders a one-page Fp datasheet. The calculation runs here so the
// PDF always reflects the submitted inputs.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		input.Title = "Partition Wall Seismic Force (Fp) Report"
	}

	res, err := fp.Calculate(input.Inputs)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	if input.Address != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Address: %s", input.Address))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Inputs (ASCE/SEI 7-22 Ch. 13)")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	in := input.Inputs
	lines := []string{
		fmt.Sprintf("SDS = %.3f g", in.SDS),
		fmt.Sprintf("CAR (ap) = %.2f   Rpo = %.2f", in.Ap, in.Rpo),
		fmt.Sprintf("Ie = %.2f   Rmu = %.3f", in.Ie, in.Rmu),
		fmt.Sprintf("z = %.1f ft   h = %.1f ft", in.ZFt, in.HFt),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Results")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	results := []string{
		fmt.Sprintf("Base term = %.4f   Amplification = %.3f", res.BaseTerm, res.Amplification),
		fmt.Sprintf("Fp (unbounded) = %.4f", res.FpCalc),
		fmt.Sprintf("Bounds: [%.4f, %.4f]", res.FpMin, res.FpMax),
	}
	for _, line := range results {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Fp coefficient = %.3f", res.Fp))
	pdf.Ln(10)

	if input.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"fp-report.pdf\"")
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}
