package dynamics

import (
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// GeometricJacobianBetween assembles the 6x-nv Jacobian mapping the joint
// velocities along mechanism.Path(fromBody, toBody) to toBody's twist
// relative to fromBody, by concatenating each traversed joint's motion
// subspace (already re-expressed in the mechanism's root frame by
// MotionSubspaceInRoot, so no further per-step transform is needed) and
// negating the columns of any joint traversed against its predecessor ->
// successor direction (spec.md §4.5, §4.3's signed-path convention).
func GeometricJacobianBetween[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], fromBody, toBody int) (spatial.GeometricJacobian[T], error) {
	mech := ms.Mechanism()
	from, err := mech.Body(fromBody)
	if err != nil {
		return spatial.GeometricJacobian[T]{}, err
	}
	to, err := mech.Body(toBody)
	if err != nil {
		return spatial.GeometricJacobian[T]{}, err
	}
	steps := mech.Path(from, to)

	parts := make([]spatial.GeometricJacobian[T], 0, len(steps))
	for _, step := range steps {
		s, err := ms.MotionSubspaceInRoot(step.Body)
		if err != nil {
			return spatial.GeometricJacobian[T]{}, err
		}
		if step.Sign < 0 {
			s = negateJacobian(s)
		}
		parts = append(parts, s)
	}
	root := mech.RootBody()
	return spatial.Concat[T](to.Frame, from.Frame, root.Frame, ms.Conv(), parts...), nil
}

// PointJacobian returns the 3x-nv linear-velocity-only Jacobian mapping the
// same joint velocities to the linear velocity of a point fixed in toBody,
// offset from toBody's origin by pointInBody (expressed in toBody's frame).
func PointJacobian[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], fromBody, toBody int, pointInBody spatial.Vec3[T]) ([]spatial.Vec3[T], error) {
	full, err := GeometricJacobianBetween(ms, fromBody, toBody)
	if err != nil {
		return nil, err
	}
	toRoot, err := ms.TransformToRoot(toBody)
	if err != nil {
		return nil, err
	}
	pointInRoot := toRoot.Rot.MulVec(pointInBody)
	out := make([]spatial.Vec3[T], full.NV())
	for i := 0; i < full.NV(); i++ {
		// v_point = v_origin + omega x r, r the point offset from the
		// body origin, both expressed in the shared root frame.
		out[i] = full.Linear[i].Add(full.Angular[i].Cross(pointInRoot))
	}
	return out, nil
}

func negateJacobian[T scalar.Scalar[T]](j spatial.GeometricJacobian[T]) spatial.GeometricJacobian[T] {
	out := spatial.NewGeometricJacobian[T](j.Body, j.Base, j.ExpressedIn, j.NV(), j.Conv)
	neg := j.Conv(-1)
	for i := 0; i < j.NV(); i++ {
		out.Angular[i] = j.Angular[i].Scale(neg)
		out.Linear[i] = j.Linear[i].Scale(neg)
	}
	return out
}

// MomentumMatrix assembles the mechanism-wide map from the flat velocity
// vector to total momentum expressed in the root frame: the sum, over
// bodies, of that body's motion subspace (already root-frame via
// MotionSubspaceInRoot) contracted against the composite inertia of the
// subtree it roots, scattered into the columns its joint owns. The
// composite (not per-body) inertia is what makes this the actual momentum
// Jacobian: joint j's motion carries every descendant body along with it,
// so column j must account for the whole subtree's momentum, not just
// body j's own (spec.md §4.5's momentum matrix, testable property #4 --
// its columns are what MassMatrix's CRBA double loop already dots against
// itself to get M[i][j], just without the second dot product).
func MomentumMatrix[T scalar.Scalar[T]](ms *mechstate.MechanismState[T]) (spatial.MomentumMatrix[T], error) {
	mech := ms.Mechanism()
	n := mech.NumBodies()
	root := mech.RootBody()
	out := spatial.NewMomentumMatrix[T](root.Frame, ms.NV(), ms.Conv())

	for id := 1; id < n; id++ {
		ic, err := ms.CompositeInertia(id)
		if err != nil {
			return spatial.MomentumMatrix[T]{}, err
		}
		s, err := ms.MotionSubspaceInRoot(id)
		if err != nil {
			return spatial.MomentumMatrix[T]{}, err
		}
		ji := mech.ParentJoint(id)
		r := ms.VelocityRange(ji)
		for k := 0; k < s.NV(); k++ {
			m, err := ic.MulTwist(s.Column(k))
			if err != nil {
				return spatial.MomentumMatrix[T]{}, err
			}
			out.AngularColumns[r.Start+k] = m.Angular
			out.LinearColumns[r.Start+k] = m.Linear
		}
	}
	return out, nil
}
