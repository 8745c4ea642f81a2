package geometry

import (
	"math"
	"testing"
)

func TestVectorOps(t *testing.T) {
	v := Vector2{X: 3, Y: 4}

	if !almostEqual(v.Magnitude(), 5.0, testEpsilon) {
		t.Errorf("magnitude = %v, want 5", v.Magnitude())
	}
	if !almostEqual(v.MagnitudeSqr(), 25.0, testEpsilon) {
		t.Errorf("magnitudeSqr = %v, want 25", v.MagnitudeSqr())
	}

	n := v.Normalize()
	if !almostEqual(n.Magnitude(), 1.0, testEpsilon) {
		t.Errorf("normalized magnitude = %v", n.Magnitude())
	}

	zero := Vector2{}
	if zero.Normalize() != zero {
		t.Error("normalizing zero should return zero")
	}

	a := Vector2{X: 1, Y: 0}
	b := Vector2{X: 0, Y: 1}
	if !almostEqual(a.Cross(b), 1.0, testEpsilon) {
		t.Errorf("cross = %v, want 1", a.Cross(b))
	}
	if !almostEqual(a.Dot(b), 0.0, testEpsilon) {
		t.Errorf("dot = %v, want 0", a.Dot(b))
	}
}

func TestVectorNormals(t *testing.T) {
	v := Vector2{X: 2, Y: 0}

	left := v.LeftNormal()
	if !left.ApproxEquals(Vector2{X: 0, Y: 1}, testEpsilon) {
		t.Errorf("left normal = %v", left)
	}

	right := v.RightNormal()
	if !right.ApproxEquals(Vector2{X: 0, Y: -1}, testEpsilon) {
		t.Errorf("right normal = %v", right)
	}
}

func TestVectorRotate(t *testing.T) {
	v := Vector2{X: 1, Y: 0}

	got := v.Rotate(math.Pi / 2)
	if !got.ApproxEquals(Vector2{X: 0, Y: 1}, 1e-6) {
		t.Errorf("rotate 90deg = %v", got)
	}

	tx := NewTransform(Vector2{X: 10, Y: 20}, math.Pi)
	moved := v.Transform(tx)
	if !moved.ApproxEquals(Vector2{X: 9, Y: 20}, 1e-5) {
		t.Errorf("transform = %v", moved)
	}
}

func TestTransformSetAngle(t *testing.T) {
	tests := []struct {
		name  string
		angle float32
		want  float32
	}{
		{"within range", 1.0, 1.0},
		{"negative wraps", -math.Pi / 2, 3 * math.Pi / 2},
		{"full turn wraps", 2 * math.Pi, 0},
		{"multiple turns", 5 * math.Pi, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tx Transform
			tx.SetAngle(tt.angle)

			if !almostEqual(tx.Angle, tt.want, 1e-5) {
				t.Errorf("angle = %v, want %v", tx.Angle, tt.want)
			}
			if !almostEqual(tx.Rotation.Sin, float32(math.Sin(float64(tt.want))), 1e-5) {
				t.Errorf("sin cache = %v", tx.Rotation.Sin)
			}
			if !almostEqual(tx.Rotation.Cos, float32(math.Cos(float64(tt.want))), 1e-5) {
				t.Errorf("cos cache = %v", tx.Rotation.Cos)
			}
		})
	}
}

func TestUnitConversion(t *testing.T) {
	if !almostEqual(PixelsToUnits(32), 2.0, testEpsilon) {
		t.Errorf("PixelsToUnits(32) = %v", PixelsToUnits(32))
	}
	if !almostEqual(UnitsToPixels(2), 32.0, testEpsilon) {
		t.Errorf("UnitsToPixels(2) = %v", UnitsToPixels(2))
	}

	v := PixelsToUnitsV(Vector2{X: 16, Y: -48})
	if !v.ApproxEquals(Vector2{X: 1, Y: -3}, testEpsilon) {
		t.Errorf("PixelsToUnitsV = %v", v)
	}
}

func TestAABBOverlaps(t *testing.T) {
	a := AABB{X: 0, Y: 0, Width: 2, Height: 2}

	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"overlapping", AABB{X: 1, Y: 1, Width: 2, Height: 2}, true},
		{"touching edge", AABB{X: 2, Y: 0, Width: 2, Height: 2}, true},
		{"disjoint x", AABB{X: 3, Y: 0, Width: 1, Height: 1}, false},
		{"disjoint y", AABB{X: 0, Y: -2, Width: 1, Height: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}
