package period

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownStructureType = errors.New("unknown_structure_type")

type StructureType string

const (
	SteelMomentFrame    StructureType = "steel_moment_frame"
	ConcreteMomentFrame StructureType = "concrete_moment_frame"
	SteelBracedFrame    StructureType = "steel_braced_frame"
	AllOther            StructureType = "all_other"
)

// Table 12.8-2 coefficients (imperial units, h in feet).
var coefficients = map[StructureType]struct{ Ct, X float64 }{
	SteelMomentFrame:    {0.028, 0.8},
	ConcreteMomentFrame: {0.016, 0.9},
	SteelBracedFrame:    {0.03, 0.75},
	AllOther:            {0.02, 0.75},
}

type Result struct {
	TaS float64 `json:"ta_s"`
	Ct  float64 `json:"ct"`
	X   float64 `json:"x"`
}

// Approximate computes Ta = Ct * h^x for a structure type.
func Approximate(st StructureType, heightFt float64) (Result, error) {
	c, ok := coefficients[st]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStructureType, st)
	}
	if heightFt <= 0 {
		return Result{}, fmt.Errorf("invalid height %.2f", heightFt)
	}
	return Result{TaS: c.Ct * math.Pow(heightFt, c.X), Ct: c.Ct, X: c.X}, nil
}

type HeightFactor struct {
	Hf float64 `json:"hf"`
	A1 float64 `json:"a1"`
	A2 float64 `json:"a2"`
}

// Refined computes the ASCE 7-22 Eq. 13.3-4/13.3-5 height factor
// 1 + a1*(z/h) + a2*(z/h)^10. Attachment above the roof is treated as the
// roof. A non-positive period takes the 3.5 ceiling from the code.
func Refined(zFt, hFt, taS float64) (HeightFactor, error) {
	if hFt <= 0 {
		return HeightFactor{}, fmt.Errorf("invalid height %.2f", hFt)
	}
	if zFt > hFt {
		zFt = hFt
	}
	if zFt < 0 {
		return HeightFactor{}, fmt.Errorf("invalid attachment height %.2f", zFt)
	}
	if taS <= 0 {
		return HeightFactor{Hf: 3.5}, nil
	}
	a1 := math.Min(1.0/taS, 2.5)
	a2 := math.Max(1.0-math.Pow(0.4/taS, 2), 0)
	ratio := zFt / hFt
	return HeightFactor{
		Hf: 1.0 + a1*ratio + a2*math.Pow(ratio, 10),
		A1: a1,
		A2: a2,
	}, nil
}
