package geom

import (
	"math"
	"testing"
)

func TestVecAlgebra(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}

	if got := a.Add(b); got != (Vec3{5, -3, 9}) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); got != (Vec3{-3, 7, -3}) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot: got %f", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale: got %v", got)
	}
}

func TestCrossRightHanded(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)
	if z != (Vec3{0, 0, 1}) {
		t.Errorf("x cross y = %v, want z", z)
	}
}

func TestNormalized(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalized()
	if math.Abs(n.Norm()-1) > 1e-12 {
		t.Errorf("unit norm: got %f", n.Norm())
	}
	if got := (Vec3{}).Normalized(); got != (Vec3{}) {
		t.Errorf("zero vector normalize: got %v", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if (Vec3{math.NaN(), 0, 0}).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	if (Vec3{0, math.Inf(1), 0}).IsFinite() {
		t.Error("Inf vector reported finite")
	}
}

func TestBodyToNEDOrthonormal(t *testing.T) {
	angles := []struct{ roll, pitch, yaw float64 }{
		{0, 0, 0},
		{0.3, -0.2, 1.1},
		{-1.0, 0.5, -2.4},
	}
	for _, a := range angles {
		r := BodyToNED(a.roll, a.pitch, a.yaw)
		rt := r.Transpose()

		// R * R^T should be identity for a rotation matrix.
		for i := 0; i < 3; i++ {
			row := r.MulVec(Vec3{rt[0][i], rt[1][i], rt[2][i]})
			want := Vec3{}
			switch i {
			case 0:
				want.X = 1
			case 1:
				want.Y = 1
			case 2:
				want.Z = 1
			}
			if row.Sub(want).Norm() > 1e-12 {
				t.Errorf("R*R^T column %d = %v for angles %+v", i, row, a)
			}
		}
	}
}

func TestBodyToNEDIdentityAtZero(t *testing.T) {
	r := BodyToNED(0, 0, 0)
	v := Vec3{1, 2, 3}
	if got := r.MulVec(v); got.Sub(v).Norm() > 1e-12 {
		t.Errorf("zero-angle rotation moved %v to %v", v, got)
	}
}

func TestBodyToNEDYaw(t *testing.T) {
	// 90° yaw maps body x-forward onto NED east.
	r := BodyToNED(0, 0, math.Pi/2)
	got := r.MulVec(Vec3{1, 0, 0})
	want := Vec3{0, 1, 0}
	if got.Sub(want).Norm() > 1e-12 {
		t.Errorf("yawed forward axis = %v, want %v", got, want)
	}
}

func TestEulerRateMatrixAtZero(t *testing.T) {
	w := EulerRateMatrix(0, 0)
	rates := w.MulVec(Vec3{0.1, 0.2, 0.3})
	if rates.Sub(Vec3{0.1, 0.2, 0.3}).Norm() > 1e-12 {
		t.Errorf("W at zero attitude should be identity, got rates %v", rates)
	}
}

func TestEulerRateMatrixSingularity(t *testing.T) {
	// No guard at pitch = ±π/2: rates blow up rather than erroring.
	w := EulerRateMatrix(0, math.Pi/2)
	rates := w.MulVec(Vec3{0, 0, 1})
	if rates.IsFinite() && math.Abs(rates.Z) < 1e12 {
		t.Errorf("expected divergent yaw rate near gimbal lock, got %v", rates)
	}
}

func TestDiagonalInverse(t *testing.T) {
	m := Diagonal(Vec3{0.5, 0.8, 1.0})
	inv := m.InvDiagonal()
	v := Vec3{1, 1, 1}
	got := inv.MulVec(m.MulVec(v))
	if got.Sub(v).Norm() > 1e-12 {
		t.Errorf("I^-1 * I * v = %v, want %v", got, v)
	}
}
