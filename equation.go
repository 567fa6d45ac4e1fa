package gosolve

import "math"

// ============================================================
// Equation
// ============================================================

type Equation struct{ LHS, RHS Expr }

func Eq(lhs, rhs Expr) *Equation {
	mustOperand("equation", lhs)
	mustOperand("equation", rhs)
	return &Equation{LHS: lhs, RHS: rhs}
}

func (e *Equation) String() string {
	return e.LHS.String() + " = " + e.RHS.String()
}

// Residual returns LHS - RHS without simplifying it.
func (e *Equation) Residual() Expr { return Sub(e.LHS, e.RHS) }

// FreeVariables returns the variables of both sides.
func (e *Equation) FreeVariables() map[string]struct{} {
	out := FreeVariables(e.LHS)
	collectVariables(e.RHS, out)
	return out
}

// VerifyTolerance is the relative tolerance Verify compares sides with.
const VerifyTolerance = 1e-9

// Verify substitutes value for target, evaluates both sides of eq under b and
// reports whether they agree. b must bind every other free variable.
func Verify(eq *Equation, target string, value Expr, b Bindings) (bool, error) {
	x, err := Evaluate(value, b)
	if err != nil {
		return false, err
	}
	bound := make(Bindings, len(b)+1)
	for k, v := range b {
		bound[k] = v
	}
	bound[target] = x
	l, err := Evaluate(eq.LHS, bound)
	if err != nil {
		return false, err
	}
	r, err := Evaluate(eq.RHS, bound)
	if err != nil {
		return false, err
	}
	return approxEqual(l, r, VerifyTolerance), nil
}

func approxEqual(a, b, tol float64) bool {
	diff := math.Abs(a - b)
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return diff <= tol*scale
}
