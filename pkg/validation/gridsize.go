package validation

import (
	"encoding/json"
	"math"

	"github.com/menta2k/image-slicer/pkg/types"
)

const (
	MinGridSize = 2
	MaxGridSize = 10
)

// ValidateGridSize checks a requested grid size and returns it as an int.
// Any Go numeric type (and json.Number) is accepted; everything else,
// including nil and NaN, is rejected as not a number.
func ValidateGridSize(v any) (int, error) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) {
		return 0, types.InvalidArgument("Grid size must be a number")
	}

	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, types.InvalidArgument("Grid size must be an integer")
	}

	if f < MinGridSize {
		return 0, types.InvalidArgument("Grid size must be at least 2")
	}

	if f > MaxGridSize {
		return 0, types.InvalidArgument("Grid size must not exceed 10")
	}

	return int(f), nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case *int:
		if n == nil {
			return 0, false
		}
		return float64(*n), true
	}
	return 0, false
}
