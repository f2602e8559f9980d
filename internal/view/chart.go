package view

import (
	"fmt"
	"math"
	"strings"

	"genesis_architect/internal/types"
)

// Palette is cycled over the slices in order.
var Palette = []string{"#06b6d4", "#8b5cf6", "#10b981", "#f59e0b"}

// padDegrees separates neighbouring slices.
const padDegrees = 5.0

// Slice is one wedge of the efficiency donut.
type Slice struct {
	Name    string
	Value   float64
	Percent float64
	Color   string
	D       string // SVG path data
}

// Pie lays out a donut chart centred on (cx, cy). Points with a non-positive
// value are kept in the legend but get no wedge.
func Pie(points []types.DiagramPoint, cx, cy, inner, outer float64) []Slice {
	var total float64
	drawn := 0
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
			drawn++
		}
	}

	slices := make([]Slice, 0, len(points))
	pad := 0.0
	if drawn > 1 {
		pad = padDegrees
	}
	sweepTotal := 360 - pad*float64(drawn)
	angle := -90.0

	for i, p := range points {
		s := Slice{Name: p.Name, Value: p.Value, Color: Palette[i%len(Palette)]}
		if p.Value > 0 && total > 0 {
			s.Percent = p.Value / total * 100
			sweep := p.Value / total * sweepTotal
			s.D = donutPath(cx, cy, inner, outer, angle, angle+sweep)
			angle += sweep + pad
		}
		slices = append(slices, s)
	}
	return slices
}

func donutPath(cx, cy, inner, outer, from, to float64) string {
	// A full circle collapses to a zero-length arc.
	if to-from >= 359.99 {
		to = from + 359.99
	}
	large := 0
	if to-from > 180 {
		large = 1
	}
	ox1, oy1 := polar(cx, cy, outer, from)
	ox2, oy2 := polar(cx, cy, outer, to)
	ix1, iy1 := polar(cx, cy, inner, to)
	ix2, iy2 := polar(cx, cy, inner, from)

	var b strings.Builder
	fmt.Fprintf(&b, "M %.2f %.2f ", ox1, oy1)
	fmt.Fprintf(&b, "A %.2f %.2f 0 %d 1 %.2f %.2f ", outer, outer, large, ox2, oy2)
	fmt.Fprintf(&b, "L %.2f %.2f ", ix1, iy1)
	fmt.Fprintf(&b, "A %.2f %.2f 0 %d 0 %.2f %.2f Z", inner, inner, large, ix2, iy2)
	return b.String()
}

func polar(cx, cy, r, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}

// ReusePercent is the value of the first point whose name contains "Reuse",
// or 0 when the model did not report one.
func ReusePercent(points []types.DiagramPoint) float64 {
	for _, p := range points {
		if strings.Contains(p.Name, "Reuse") {
			return p.Value
		}
	}
	return 0
}
