package sdfx

import (
	"math"
	"testing"
)

func assertBounds(t *testing.T, gotMin, gotMax, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		if math.Abs(gotMin[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, gotMin[i], wantMin[i])
		}
		if math.Abs(gotMax[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, gotMax[i], wantMax[i])
		}
	}
}

func TestTubeBoundingBox(t *testing.T) {
	k := New()
	tube := k.Tube(40, 50, 20)
	min, max := tube.BoundingBox()
	assertBounds(t, min, max, [3]float64{-50, -50, -10}, [3]float64{50, 50, 10}, 0.01)
}

func TestTubeMesh(t *testing.T) {
	k := New()
	mesh, err := k.ToMesh(k.Tube(40, 50, 20))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
	t.Logf("tube triangle count: %d", mesh.TriangleCount())
}

func TestTubeSegmentMesh(t *testing.T) {
	k := New()
	seg := k.TubeSegment(40, 50, 20, 0, 90)
	mesh, err := k.ToMesh(seg)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("segment mesh is empty")
	}

	// Every vertex of a [0,90] degree segment lies in the first quadrant.
	const tol = 1.0
	for i := 0; i < len(mesh.Vertices); i += 3 {
		x, y := float64(mesh.Vertices[i]), float64(mesh.Vertices[i+1])
		if x < -tol || y < -tol {
			t.Fatalf("vertex (%f, %f) outside the first quadrant", x, y)
		}
	}
}

func TestTubeSegmentFullTurnIsTube(t *testing.T) {
	k := New()
	min, max := k.TubeSegment(40, 50, 20, 0, 360).BoundingBox()
	assertBounds(t, min, max, [3]float64{-50, -50, -10}, [3]float64{50, 50, 10}, 0.01)
}

func TestTranslate(t *testing.T) {
	k := New()
	moved := k.Translate(k.Tube(5, 10, 10), 100, 200, 300)
	min, max := moved.BoundingBox()
	assertBounds(t, min, max, [3]float64{90, 190, 295}, [3]float64{110, 210, 305}, 0.5)
}

func TestRotate(t *testing.T) {
	k := New()
	tube := k.Tube(5, 10, 100)

	// A long tube along Z rotated 90 degrees around X should extend along Y.
	rotated := k.Rotate(tube, 90, 0, 0)
	min, max := rotated.BoundingBox()

	const tol = 1.0
	if ext := max[1] - min[1]; math.Abs(ext-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", ext)
	}
	if ext := max[2] - min[2]; math.Abs(ext-20) > tol {
		t.Errorf("rotated Z extent = %f, expected ~20", ext)
	}
}
