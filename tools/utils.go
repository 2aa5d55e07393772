package tools

import (
	"math"

	"github.com/segmentio/encoding/json"
)

func FmtJSONString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

const (
	FloatMin = 0.000001
)

func IsFloatEqual(f1, f2 float64) bool {
	return math.Abs(f1-f2) < FloatMin
}

// Relative comparison for areas, which grow with the canvas
func IsAreaEqual(a1, a2, tolerance float64) bool {
	return math.Abs(a1-a2) <= tolerance*math.Max(1, math.Max(math.Abs(a1), math.Abs(a2)))
}
