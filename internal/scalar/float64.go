package scalar

import "math"

// Float64 is the plain floating-point scalar backend. It is the mechanism's
// native inertia scalar: FromFloat64Backend is the identity conversion.
type Float64 float64

func (a Float64) Add(b Float64) Float64 { return a + b }
func (a Float64) Sub(b Float64) Float64 { return a - b }
func (a Float64) Mul(b Float64) Float64 { return a * b }
func (a Float64) Quo(b Float64) Float64 { return a / b }
func (a Float64) Neg() Float64          { return -a }
func (a Float64) Sqrt() Float64         { return Float64(math.Sqrt(float64(a))) }
func (a Float64) Sin() Float64          { return Float64(math.Sin(float64(a))) }
func (a Float64) Cos() Float64          { return Float64(math.Cos(float64(a))) }

func (a Float64) Cmp(b Float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (a Float64) Float64() float64 { return float64(a) }

// FromFloat64Backend is the Float64 scalar's FromFloat64 converter: identity.
func FromFloat64Backend(f float64) Float64 { return Float64(f) }
