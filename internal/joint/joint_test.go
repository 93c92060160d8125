package joint

import (
	"math"
	"testing"

	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

const (
	before spatial.Frame = 1
	after  spatial.Frame = 2
)

func TestNQNVMatchAcrossSpecAndInstance(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
	}{
		{"revolute", Revolute([3]float64{0, 0, 1})},
		{"prismatic", Prismatic([3]float64{1, 0, 0})},
		{"planar", Planar([3]float64{1, 0, 0}, [3]float64{0, 1, 0})},
		{"fixed", Fixed()},
		{"quaternion-floating", QuaternionFloating()},
		{"sincos-revolute", SinCosRevolute([3]float64{0, 1, 0})},
		{"spquat-floating", SPQuatFloating()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j := Instantiate[scalar.Float64](tc.spec, before, after, scalar.FromFloat64Backend)
			if j.NQ() != tc.spec.NQ() {
				t.Errorf("instance NQ()=%d, spec NQ()=%d", j.NQ(), tc.spec.NQ())
			}
			if j.NV() != tc.spec.NV() {
				t.Errorf("instance NV()=%d, spec NV()=%d", j.NV(), tc.spec.NV())
			}
		})
	}
}

func TestRevoluteTransformAtZeroIsIdentityRotation(t *testing.T) {
	j := Instantiate[scalar.Float64](Revolute([3]float64{0, 0, 1}), before, after, scalar.FromFloat64Backend)
	q := make([]scalar.Float64, j.NQ())
	j.ZeroConfiguration(q)

	tr := j.Transform(q)
	p := spatial.Vec3[scalar.Float64]{1, 0, 0}
	got := tr.TransformVector(p)
	if math.Abs(float64(got[0]-1)) > 1e-9 || math.Abs(float64(got[1])) > 1e-9 {
		t.Errorf("expected identity rotation at q=0, got %v", got)
	}
}

func TestRevoluteMotionSubspaceMatchesAxis(t *testing.T) {
	axis := [3]float64{0, 0, 1}
	j := Instantiate[scalar.Float64](Revolute(axis), before, after, scalar.FromFloat64Backend)
	q := []scalar.Float64{0.3}
	s := j.MotionSubspace(q)
	if s.NV() != 1 {
		t.Fatalf("expected nv=1, got %d", s.NV())
	}
	col := s.Column(0)
	if math.Abs(float64(col.Angular[2]-1)) > 1e-9 {
		t.Errorf("expected angular subspace aligned with z axis, got %v", col.Angular)
	}
}

func TestQuaternionFloatingNormalizeConfigurationIsUnitQuaternion(t *testing.T) {
	j := Instantiate[scalar.Float64](QuaternionFloating(), before, after, scalar.FromFloat64Backend)
	q := make([]scalar.Float64, j.NQ())
	q[0], q[1], q[2], q[3] = 2, 0, 0, 0 // unnormalized quaternion, zero translation
	j.NormalizeConfiguration(q)

	norm := math.Sqrt(float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]))
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("expected unit quaternion after normalization, got norm %v", norm)
	}
}

func TestQuaternionFloatingNormalizeIsIdempotent(t *testing.T) {
	j := Instantiate[scalar.Float64](QuaternionFloating(), before, after, scalar.FromFloat64Backend)
	q := []scalar.Float64{0.6, 0.6, 0.2, 0.2, 1, 2, 3}
	j.NormalizeConfiguration(q)
	once := append([]scalar.Float64(nil), q...)
	j.NormalizeConfiguration(q)
	for i := range q {
		if math.Abs(float64(q[i]-once[i])) > 1e-12 {
			t.Errorf("normalize not idempotent at %d: %v vs %v", i, q[i], once[i])
		}
	}
}

// SPQuatFloating's stereographic-projection parameter is unconstrained --
// any p is already a valid attitude -- so NormalizeConfiguration is a
// documented no-op rather than a projection onto a unit-norm manifold.
func TestSPQuatFloatingNormalizeConfigurationIsNoOp(t *testing.T) {
	j := Instantiate[scalar.Float64](SPQuatFloating(), before, after, scalar.FromFloat64Backend)
	q := []scalar.Float64{0.3, -0.2, 0.1, 1, 2, 3}
	orig := append([]scalar.Float64(nil), q...)
	j.NormalizeConfiguration(q)
	for i := range q {
		if q[i] != orig[i] {
			t.Errorf("expected no-op normalize, q[%d] changed from %v to %v", i, orig[i], q[i])
		}
	}
}

func TestSPQuatFloatingTransformAtZeroIsIdentityRotation(t *testing.T) {
	j := Instantiate[scalar.Float64](SPQuatFloating(), before, after, scalar.FromFloat64Backend)
	q := make([]scalar.Float64, j.NQ())
	j.ZeroConfiguration(q)

	tr := j.Transform(q)
	p := spatial.Vec3[scalar.Float64]{1, 0, 0}
	got := tr.TransformVector(p)
	if math.Abs(float64(got[0]-1)) > 1e-9 || math.Abs(float64(got[1])) > 1e-9 || math.Abs(float64(got[2])) > 1e-9 {
		t.Errorf("expected identity rotation at q=0, got %v", got)
	}
}
