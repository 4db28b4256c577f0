package export

import (
	"bytes"
	"strings"
	"testing"

)

func TestPaths(t *testing.T) {
	header := []string{"time", "b0_x0", "b0_x1", "b0_v0", "b0_v1", "b1_x0", "b1_x1", "b1_v0", "b1_v1"}
	rows := [][]float64{
		{0, 0, -1, 0, 0, 0, 1, 0, 0},
		{1, 0.5, -1, 0, 0, -0.5, 1, 0, 0},
	}

	paths := Paths(header, rows, 2, 2)
	if len(paths) != 2 || len(paths[1]) != 2 {
		t.Fatalf("unexpected paths %v", paths)
	}
	if paths[1][1] != (Point{-0.5, 1}) {
		t.Errorf("unexpected point %v", paths[1][1])
	}
}

func TestPaths1D(t *testing.T) {
	header := []string{"time", "b0_x0", "b0_v0"}
	rows := [][]float64{{0, 3, 1}, {0.5, 3.5, 1}}

	paths := Paths(header, rows, 1, 1)
	if paths[0][1] != (Point{0.5, 3.5}) {
		t.Errorf("1D paths should plot coordinate against time, got %v", paths[0])
	}
}

func TestTrajectorySVG(t *testing.T) {
	paths := [][]Point{
		{{0, 0}, {1, 1}},
		{{1, 0}, {0, 1}},
	}

	var buf bytes.Buffer
	if err := TrajectorySVG(&buf, paths, 200, 100); err != nil {
		t.Fatalf("TrajectorySVG failed: %v", err)
	}
	svg := buf.String()
	if strings.Count(svg, "<polyline") != 2 || strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 polylines and 2 markers:\n%s", svg)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not terminated")
	}

	if err := TrajectorySVG(&buf, [][]Point{nil}, 200, 100); err == nil {
		t.Error("expected error for empty paths")
	}
}
