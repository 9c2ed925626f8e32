package scene

import (
	"math"
	"testing"
)

func approxMat(a, b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestIdentityMulIsNoop(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.4))
	got := Identity().Mul(m)
	if !approxMat(got, m, 1e-9) {
		t.Errorf("Identity * m != m")
	}
}

func TestTranslateMulVec3(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	got := m.MulVec3(V3(0, 0, 0))
	want := V3(1, 2, 3)
	if got != want {
		t.Errorf("translate * origin = %+v, want %+v", got, want)
	}
}

func TestRotateYQuarterTurn(t *testing.T) {
	m := RotateY(math.Pi / 2)
	got := m.MulVec3(V3(0, 0, 1))
	want := V3(1, 0, 0)
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 || math.Abs(got.Z-want.Z) > 1e-9 {
		t.Errorf("RotateY(90deg) * (0,0,1) = %+v, want %+v", got, want)
	}
}

func TestPerspectiveProjectsOriginAxis(t *testing.T) {
	m := Perspective(math.Pi/2, 1, 1, 100)
	clip := m.MulVec4(Vec4{X: 0, Y: 0, Z: -1, W: 1})
	if clip.W <= 0 {
		t.Fatalf("expected positive w for a point in front of the camera, got %v", clip.W)
	}
	ndc := clip.PerspectiveDivide()
	if math.Abs(ndc.X) > 1e-9 || math.Abs(ndc.Y) > 1e-9 {
		t.Errorf("on-axis point should project to NDC (0,0,*), got %+v", ndc)
	}
}

func TestMulVec4PreservesW(t *testing.T) {
	m := Translate(V3(5, 0, 0))
	v := m.MulVec4(Vec4{X: 1, Y: 2, Z: 3, W: 1})
	if v.W != 1 {
		t.Errorf("MulVec4 should not perspective-divide, got w=%v", v.W)
	}
	if v.X != 6 {
		t.Errorf("expected translated X=6, got %v", v.X)
	}
}
