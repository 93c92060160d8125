package spatial

import (
	"math"
	"testing"

	"github.com/san-kum/rbdsim/internal/scalar"
)

const (
	frameA Frame = 1
	frameB Frame = 2
	frameC Frame = 3
)

func closeF64(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestTransformInverseRoundTrips(t *testing.T) {
	conv := scalar.FromFloat64Backend
	axis := Vec3[scalar.Float64]{0, 0, scalar.Float64(1)}
	rot := RotationAboutAxis(axis, scalar.Float64(math.Sin(0.4)), scalar.Float64(math.Cos(0.4)), conv)
	tr := Transform[scalar.Float64]{From: frameA, To: frameB, Rot: rot, Translation: Vec3[scalar.Float64]{1, 2, 3}}

	p := Vec3[scalar.Float64]{5, -1, 2}
	pInB := tr.TransformPoint(p)
	pBack := tr.Inverse().TransformPoint(pInB)

	for i := 0; i < 3; i++ {
		if !closeF64(float64(p[i]), float64(pBack[i]), 1e-9) {
			t.Errorf("round trip mismatch at %d: got %v want %v", i, pBack[i], p[i])
		}
	}
}

func TestTransformComposeRejectsFrameMismatch(t *testing.T) {
	conv := scalar.FromFloat64Backend
	ab := IdentityTransform[scalar.Float64](frameA, frameB, conv)
	cWrong := IdentityTransform[scalar.Float64](frameC, frameC, conv)

	if _, err := ab.Compose(cWrong); err == nil {
		t.Error("expected a frame mismatch error composing incompatible transforms")
	}
}

func TestTransformComposeChains(t *testing.T) {
	conv := scalar.FromFloat64Backend
	ab := Transform[scalar.Float64]{From: frameA, To: frameB, Rot: IdentityMat3[scalar.Float64](conv), Translation: Vec3[scalar.Float64]{1, 0, 0}}
	bc := Transform[scalar.Float64]{From: frameB, To: frameC, Rot: IdentityMat3[scalar.Float64](conv), Translation: Vec3[scalar.Float64]{0, 1, 0}}

	ac, err := bc.Compose(ab)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if ac.From != frameA || ac.To != frameC {
		t.Fatalf("expected From=A To=C, got From=%v To=%v", ac.From, ac.To)
	}
	p := ac.TransformPoint(Vec3[scalar.Float64]{0, 0, 0})
	want := Vec3[scalar.Float64]{1, 1, 0}
	if p != want {
		t.Errorf("expected chained translation %v, got %v", want, p)
	}
}

func TestVec3CrossIsAntiCommutative(t *testing.T) {
	a := Vec3[scalar.Float64]{1, 0, 0}
	b := Vec3[scalar.Float64]{0, 1, 0}
	ab := a.Cross(b)
	ba := b.Cross(a)
	for i := 0; i < 3; i++ {
		if !closeF64(float64(ab[i]), -float64(ba[i]), 1e-12) {
			t.Errorf("a x b != -(b x a) at %d", i)
		}
	}
	if ab != (Vec3[scalar.Float64]{0, 0, 1}) {
		t.Errorf("expected x cross y == z, got %v", ab)
	}
}

func TestSkewProducesCrossProductMatrix(t *testing.T) {
	conv := scalar.FromFloat64Backend
	v := Vec3[scalar.Float64]{1, 2, 3}
	w := Vec3[scalar.Float64]{4, 5, 6}
	skewed := Skew(v, conv).MulVec(w)
	crossed := v.Cross(w)
	if skewed != crossed {
		t.Errorf("skew(v)*w = %v, want v x w = %v", skewed, crossed)
	}
}
