package partition

import (
	"errors"
	"fmt"
)

var ErrUnknownCategory = errors.New("unknown_category")

// WallHeightCategory selects the Table 13.5-1 row for interior light-frame
// partitions.
type WallHeightCategory string

const (
	HeightAtMost9Ft WallHeightCategory = "le_9ft" // arch. component 1a
	HeightAbove9Ft  WallHeightCategory = "gt_9ft" // arch. component 1b
)

type Factors struct {
	Component string  `json:"component"`
	CAR       float64 `json:"car"`
	Rpo       float64 `json:"rpo"`
}

// row mirrors the code table: CAR differs by support elevation, Rpo does not.
type row struct {
	component          string
	carBelow, carAbove float64
	rpo                float64
}

var table = map[WallHeightCategory]row{
	HeightAtMost9Ft: {
		component: "1a. Interior nonstructural walls and partitions: light frame <= 9 ft",
		carBelow:  1.0,
		carAbove:  1.0,
		rpo:       1.5,
	},
	HeightAbove9Ft: {
		component: "1b. Interior nonstructural walls and partitions: light frame > 9 ft",
		carBelow:  1.0,
		carAbove:  1.4,
		rpo:       1.5,
	},
}

// Lookup returns the (CAR, Rpo) pair for a wall-height category. aboveGrade
// is true when the partition attaches above grade (z > 0).
func Lookup(category WallHeightCategory, aboveGrade bool) (Factors, error) {
	r, ok := table[category]
	if !ok {
		return Factors{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	car := r.carBelow
	if aboveGrade {
		car = r.carAbove
	}
	return Factors{Component: r.component, CAR: car, Rpo: r.rpo}, nil
}
