package scalar

import gosymbol "github.com/njchilds90/go-sympy"

// Symbolic wraps a gosymbol expression so mechanism kinematics can be
// evaluated symbolically -- the third scalar backend the spec calls out
// alongside plain floats and dual numbers (spec.md §1, §6: "Autodiff
// scalars and symbolic scalars both satisfy this contract"). gosymbol is a
// deterministic, dependency-free symbolic kernel, which keeps this backend
// as self-contained as the Float64 and Dual ones.
type Symbolic struct {
	Expr gosymbol.Expr
}

func Sym(name string) Symbolic { return Symbolic{Expr: gosymbol.S(name)} }

func (a Symbolic) Add(b Symbolic) Symbolic { return Symbolic{gosymbol.AddOf(a.Expr, b.Expr)} }
func (a Symbolic) Sub(b Symbolic) Symbolic { return Symbolic{gosymbol.AddOf(a.Expr, a.neg(b.Expr))} }
func (a Symbolic) Mul(b Symbolic) Symbolic { return Symbolic{gosymbol.MulOf(a.Expr, b.Expr)} }

func (a Symbolic) Quo(b Symbolic) Symbolic {
	inv := gosymbol.PowOf(b.Expr, gosymbol.F(-1, 1))
	return Symbolic{gosymbol.MulOf(a.Expr, inv)}
}

func (a Symbolic) Neg() Symbolic { return Symbolic{a.neg(a.Expr)} }

func (a Symbolic) neg(e gosymbol.Expr) gosymbol.Expr {
	return gosymbol.MulOf(gosymbol.N(-1), e)
}

func (a Symbolic) Sqrt() Symbolic { return Symbolic{gosymbol.SqrtOf(a.Expr)} }
func (a Symbolic) Sin() Symbolic  { return Symbolic{gosymbol.SinOf(a.Expr)} }
func (a Symbolic) Cos() Symbolic  { return Symbolic{gosymbol.CosOf(a.Expr)} }

// Cmp compares the best-effort numeric evaluation of both expressions. Two
// symbolic expressions that are not both fully evaluable (i.e. still
// contain free symbols) compare as equal, since there is no total order
// over unevaluated expressions; this is only ever used for normalization
// thresholds, never for the substance of a computation.
func (a Symbolic) Cmp(b Symbolic) int {
	af, aok := a.Expr.Eval()
	bf, bok := b.Expr.Eval()
	if !aok || !bok {
		return 0
	}
	switch {
	case af.Float64() < bf.Float64():
		return -1
	case af.Float64() > bf.Float64():
		return 1
	default:
		return 0
	}
}

// Float64 evaluates the expression numerically, returning 0 if it still
// contains free symbols.
func (a Symbolic) Float64() float64 {
	f, ok := a.Expr.Eval()
	if !ok {
		return 0
	}
	return f.Float64()
}

func (a Symbolic) String() string { return a.Expr.String() }

// FromFloat64Symbolic is the Symbolic scalar's FromFloat64 converter: it
// lifts a rational literal.
func FromFloat64Symbolic(f float64) Symbolic { return Symbolic{Expr: gosymbol.NFloat(f)} }
