package building

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidGeometry     = errors.New("invalid_geometry")
	ErrUnknownRiskCategory = errors.New("unknown_risk_category")
	ErrUnknownBuildingType = errors.New("unknown_building_type")
)

// RiskCategory follows ASCE 7-22 Table 1.5-1. Only the two occupancies the
// calculator supports are mapped: ordinary offices and hospitals.
type RiskCategory string

const (
	RiskCategoryII RiskCategory = "II" // office
	RiskCategoryIV RiskCategory = "IV" // hospital
)

type BuildingType string

const (
	TypeSteel    BuildingType = "steel"
	TypeConcrete BuildingType = "concrete"
	TypeMasonry  BuildingType = "masonry"
	TypeWood     BuildingType = "wood"
	TypeOther    BuildingType = "other"
)

// minRmu is the code floor for the ductility value and the value used when
// the seismic force-resisting system is unknown.
const minRmu = 1.3

// sfrs carries the Table 12.2-1 row assumed for each building material.
type sfrs struct {
	Name   string
	R      float64
	Omega0 float64
}

var sfrsTable = map[BuildingType]sfrs{
	TypeSteel:    {"B3. Steel ordinary concentrically braced frames", 3.25, 2.0},
	TypeConcrete: {"A3. Ordinary reinforced concrete shear walls", 4.0, 2.5},
	TypeMasonry:  {"A10. Ordinary reinforced masonry shear walls", 2.0, 2.5},
	TypeWood:     {"A16. Light-frame (wood) walls with wood structural panels", 6.5, 3.0},
}

type Input struct {
	RiskCategory   RiskCategory `json:"risk_category"`
	BuildingType   BuildingType `json:"building_type"`
	Floors         int          `json:"floors"`
	PartitionFloor int          `json:"partition_floor"`
}

type Geometry struct {
	Floors         int     `json:"floors"`
	PartitionFloor int     `json:"partition_floor"`
	StoryHeightFt  float64 `json:"story_height_ft"`
	TotalHeightFt  float64 `json:"total_height_ft"` // h
	ElevationFt    float64 `json:"elevation_ft"`    // z
	Ie             float64 `json:"ie"`
	Rmu            float64 `json:"rmu"`
	SFRS           string  `json:"sfrs,omitempty"`
}

// Derive computes the geometric and code-derived facts for one calculation.
// Pure; all outputs follow from the four categorical inputs.
func Derive(in Input) (Geometry, error) {
	if in.Floors < 1 {
		return Geometry{}, fmt.Errorf("%w: floors must be at least 1", ErrInvalidGeometry)
	}
	if in.PartitionFloor < 1 || in.PartitionFloor > in.Floors {
		return Geometry{}, fmt.Errorf("%w: partition floor must be within [1, %d]", ErrInvalidGeometry, in.Floors)
	}

	storyFt, ie, err := riskFactors(in.RiskCategory)
	if err != nil {
		return Geometry{}, err
	}
	rmu, sfrsName, err := Ductility(in.BuildingType, ie)
	if err != nil {
		return Geometry{}, err
	}

	return Geometry{
		Floors:         in.Floors,
		PartitionFloor: in.PartitionFloor,
		StoryHeightFt:  storyFt,
		TotalHeightFt:  float64(in.Floors) * storyFt,
		ElevationFt:    float64(in.PartitionFloor) * storyFt,
		Ie:             ie,
		Rmu:            rmu,
		SFRS:           sfrsName,
	}, nil
}

// riskFactors returns the assumed story height and importance factor for a
// risk category. Story height is not user-configurable.
func riskFactors(rc RiskCategory) (storyFt, ie float64, err error) {
	switch rc {
	case RiskCategoryII:
		return 12.0, 1.0, nil
	case RiskCategoryIV:
		return 16.0, 1.5, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownRiskCategory, rc)
	}
}

// Ductility maps a building material to its Rmu value,
// max(sqrt(1.1*R/(Ie*Omega0)), 1.3), using the SFRS row assumed for that
// material. TypeOther has no SFRS assumption and takes the 1.3 floor.
func Ductility(bt BuildingType, ie float64) (rmu float64, sfrsName string, err error) {
	if bt == TypeOther {
		return minRmu, "", nil
	}
	row, ok := sfrsTable[bt]
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownBuildingType, bt)
	}
	if ie <= 0 {
		return 0, "", fmt.Errorf("%w: importance factor must be positive", ErrInvalidGeometry)
	}
	rmu = math.Sqrt(1.1 * row.R / (ie * row.Omega0))
	if rmu < minRmu {
		rmu = minRmu
	}
	return rmu, row.Name, nil
}
