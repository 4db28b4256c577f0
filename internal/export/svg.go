// Package export renders stored trajectories for use outside the terminal.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"
)

var palette = []string{"#00ffcc", "#ff6688", "#ffcc00", "#66aaff", "#cc88ff", "#88ff66"}

// Point is a position in the plot plane.
type Point struct{ X, Y float64 }

// Paths extracts one path per body from a trajectory table with columns
// time, b<i>_x<k>, ... The first two coordinates are used; in one
// dimension the path is coordinate against time.
func Paths(header []string, rows [][]float64, bodies, dims int) [][]Point {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}

	paths := make([][]Point, bodies)
	for b := range paths {
		xi, okX := index[fmt.Sprintf("b%d_x0", b)]
		yi, okY := index[fmt.Sprintf("b%d_x1", b)]
		if dims < 2 {
			yi, okY = xi, okX
			xi, okX = index["time"]
		}
		if !okX || !okY {
			continue
		}
		for _, row := range rows {
			paths[b] = append(paths[b], Point{row[xi], row[yi]})
		}
	}
	return paths
}

// TrajectorySVG draws every path as a polyline on a shared, padded,
// aspect-preserving frame and marks the last point of each.
func TrajectorySVG(w io.Writer, paths [][]Point, width, height int) error {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, path := range paths {
		for _, p := range path {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return fmt.Errorf("nothing to draw")
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	k := math.Min(float64(width), float64(height)) / span
	screen := func(p Point) (float64, float64) {
		return float64(width)/2 + (p.X-cx)*k, float64(height)/2 - (p.Y-cy)*k
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, path := range paths {
		if len(path) == 0 {
			continue
		}
		color := palette[i%len(palette)]
		sb.WriteString(`<polyline fill="none" stroke-width="1.5" stroke="` + color + `" points="`)
		for j, p := range path {
			x, y := screen(p)
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")

		x, y := screen(path[len(path)-1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\"/>\n", x, y, color)
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
