package scalar

import "math"

// Dual is the reference forward-mode automatic-differentiation scalar the
// spec allows the target to ship alongside its scalar contract (spec.md §9:
// "a reference dual-number scalar may be shipped alongside"). None of the
// pack's example repos import an autodiff library, so this is a small
// hand-rolled forward-mode number carrying one directional derivative,
// following the standard dual-number chain rule rather than any specific
// ecosystem package's API.
type Dual struct {
	Val, Deriv float64
}

// NewDual builds a dual number seeded with derivative 1, i.e. the variable
// with respect to which subsequent operations are being differentiated.
func NewDual(value float64) Dual { return Dual{Val: value, Deriv: 1} }

// Constant builds a dual number with zero derivative: a value that does not
// depend on the differentiation variable.
func Constant(value float64) Dual { return Dual{Val: value, Deriv: 0} }

func (a Dual) Add(b Dual) Dual {
	return Dual{Val: a.Val + b.Val, Deriv: a.Deriv + b.Deriv}
}

func (a Dual) Sub(b Dual) Dual {
	return Dual{Val: a.Val - b.Val, Deriv: a.Deriv - b.Deriv}
}

func (a Dual) Mul(b Dual) Dual {
	return Dual{Val: a.Val * b.Val, Deriv: a.Deriv*b.Val + a.Val*b.Deriv}
}

func (a Dual) Quo(b Dual) Dual {
	return Dual{
		Val:   a.Val / b.Val,
		Deriv: (a.Deriv*b.Val - a.Val*b.Deriv) / (b.Val * b.Val),
	}
}

func (a Dual) Neg() Dual { return Dual{Val: -a.Val, Deriv: -a.Deriv} }

func (a Dual) Sqrt() Dual {
	s := math.Sqrt(a.Val)
	return Dual{Val: s, Deriv: a.Deriv / (2 * s)}
}

func (a Dual) Sin() Dual {
	return Dual{Val: math.Sin(a.Val), Deriv: a.Deriv * math.Cos(a.Val)}
}

func (a Dual) Cos() Dual {
	return Dual{Val: math.Cos(a.Val), Deriv: -a.Deriv * math.Sin(a.Val)}
}

func (a Dual) Cmp(b Dual) int {
	switch {
	case a.Val < b.Val:
		return -1
	case a.Val > b.Val:
		return 1
	default:
		return 0
	}
}

func (a Dual) Float64() float64 { return a.Val }

// FromFloat64Dual is the Dual scalar's FromFloat64 converter: it lifts a
// constant, with zero derivative. Seed variables explicitly with NewDual.
func FromFloat64Dual(f float64) Dual { return Constant(f) }
