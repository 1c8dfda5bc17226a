package fp

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for non-finite or out-of-range numeric inputs.
var ErrInvalidInput = errors.New("invalid_input")

// DuctilityAdjustment folds the building ductility value Rmu into the force
// equation. The default reciprocal form matches ASCE 7-22 Eq. 13.3-1, where
// Rmu divides the design force.
type DuctilityAdjustment func(rmu float64) float64

func ReciprocalRmu(rmu float64) float64 { return 1.0 / rmu }

type Input struct {
	SDS float64 `json:"sds"`
	Ap  float64 `json:"ap"` // CAR in ASCE 7-22 terms
	Rpo float64 `json:"rpo"`
	Ie  float64 `json:"ie"`
	Rmu float64 `json:"rmu"`
	ZFt float64 `json:"z_ft"`
	HFt float64 `json:"h_ft"`
}

type Result struct {
	Fp            float64 `json:"fp"`
	FpCalc        float64 `json:"fp_calc"`
	FpMin         float64 `json:"fp_min"`
	FpMax         float64 `json:"fp_max"`
	BaseTerm      float64 `json:"base_term"`
	Amplification float64 `json:"amplification"`
	Bounded       bool    `json:"bounded"`
	Notes         string  `json:"notes"`
}

// Calculate evaluates the partition-wall seismic force coefficient with the
// default reciprocal ductility adjustment.
func Calculate(in Input) (Result, error) {
	return CalculateWith(in, ReciprocalRmu)
}

// CalculateWith evaluates Fp with an explicit ductility adjustment. The
// result is a pure function of its arguments.
func CalculateWith(in Input, adjust DuctilityAdjustment) (Result, error) {
	if adjust == nil {
		adjust = ReciprocalRmu
	}
	if err := validate(in); err != nil {
		return Result{}, err
	}

	base := 0.4 * in.Ap * in.SDS / in.Rpo
	amp := 1.0 + 2.0*(in.ZFt/in.HFt) // z in [0,h] keeps this in [1,3]
	raw := base * amp * in.Ie * adjust(in.Rmu)

	fpMin := 0.3 * in.SDS * in.Ie
	fpMax := 1.6 * in.SDS * in.Ie
	fp := raw
	if fp < fpMin {
		fp = fpMin
	}
	if fp > fpMax {
		fp = fpMax
	}

	return Result{
		Fp:            fp,
		FpCalc:        raw,
		FpMin:         fpMin,
		FpMax:         fpMax,
		BaseTerm:      base,
		Amplification: amp,
		Bounded:       fp != raw,
		Notes:         "ASCE 7-22 Ch.13 partition wall coefficient (Wp = 1.0).",
	}, nil
}

func validate(in Input) error {
	for name, v := range map[string]float64{
		"sds": in.SDS, "ap": in.Ap, "rpo": in.Rpo,
		"ie": in.Ie, "rmu": in.Rmu, "z_ft": in.ZFt, "h_ft": in.HFt,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidInput, name)
		}
	}
	if in.SDS < 0 {
		return fmt.Errorf("%w: sds must be non-negative", ErrInvalidInput)
	}
	if in.Ap <= 0 || in.Rpo <= 0 || in.Ie <= 0 || in.Rmu <= 0 {
		return fmt.Errorf("%w: ap, rpo, ie and rmu must be positive", ErrInvalidInput)
	}
	if in.HFt <= 0 {
		return fmt.Errorf("%w: building height must be positive", ErrInvalidInput)
	}
	if in.ZFt < 0 || in.ZFt > in.HFt {
		return fmt.Errorf("%w: attachment height must be within [0, h]", ErrInvalidInput)
	}
	return nil
}
