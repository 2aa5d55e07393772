package svg

import (
	"strings"

	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/shopspring/decimal"
)

// Formats a number rounded to the given decimals, trailing zeros dropped
func FormatNumber(v float64, precision int) string {
	return decimal.NewFromFloat(v).Round(int32(precision)).String()
}

// Absolute path data of the polygon, one closed subpath per contour. Empty polygons give an
// empty string.
func PathData(p *geometry.Polygon, precision int) string {
	var sb strings.Builder
	for _, contour := range p.Contours() {
		if len(contour) < 3 {
			continue
		}
		for i, v := range contour {
			if i == 0 {
				sb.WriteByte('M')
			} else {
				sb.WriteByte('L')
			}
			sb.WriteString(FormatNumber(v.X, precision))
			sb.WriteByte(',')
			sb.WriteString(FormatNumber(v.Y, precision))
		}
		sb.WriteByte('Z')
	}
	return sb.String()
}
