package viz

import "math"

// Projector maps positions of any supported dimension onto canvas dots.
// Components beyond the third are dropped; the first three are rotated
// about the x and y axes and projected orthographically onto the xy plane.
type Projector struct {
	RotX, RotY float64
	Zoom       float64
	// Scale is dots per world unit at Zoom 1.
	Scale float64
}

// Fit returns a projector whose scale places the farthest coordinate at 80%
// of the smaller canvas half-extent from the centre.
func Fit(positions [][]float64, w, h int) *Projector {
	extent := 0.0
	for _, p := range positions {
		for k := 0; k < len(p) && k < 3; k++ {
			extent = math.Max(extent, math.Abs(p[k]))
		}
	}
	if extent == 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		extent = 1
	}
	return &Projector{Zoom: 1, Scale: 0.8 * float64(min(w, h)/2) / extent}
}

func (p *Projector) Rotate(dx, dy float64) {
	p.RotX += dx
	p.RotY += dy
}

func (p *Projector) ZoomIn()  { p.Zoom = math.Min(100, p.Zoom*1.25) }
func (p *Projector) ZoomOut() { p.Zoom = math.Max(0.01, p.Zoom/1.25) }

// Project returns the dot coordinates of pos on a w x h canvas, y pointing
// down, and whether they fall inside it.
func (p *Projector) Project(pos []float64, w, h int) (int, int, bool) {
	var x, y, z float64
	if len(pos) > 0 {
		x = pos[0]
	}
	if len(pos) > 1 {
		y = pos[1]
	}
	if len(pos) > 2 {
		z = pos[2]
	}

	cx, sx := math.Cos(p.RotX), math.Sin(p.RotX)
	y, z = y*cx-z*sx, y*sx+z*cx
	cy, sy := math.Cos(p.RotY), math.Sin(p.RotY)
	x = x*cy + z*sy

	k := p.Scale * p.Zoom
	fx := math.Round(x*k) + float64(w/2)
	fy := math.Round(-y*k) + float64(h/2)
	if math.IsNaN(fx) || math.IsNaN(fy) || fx < 0 || fy < 0 || fx >= float64(w) || fy >= float64(h) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}
