package gosolve

import (
	"fmt"
	"math"
)

// ============================================================
// Evaluator
// ============================================================

// Bindings maps variable names to numeric values.
type Bindings map[string]float64

// Evaluate reduces e to a number under b. It stops at the first failure and
// returns one of *UndefinedVariableError, *DivisionByZeroError or
// *DomainError.
func Evaluate(e Expr, b Bindings) (float64, error) {
	switch v := e.(type) {
	case *Const:
		f := v.Float64()
		if math.IsInf(f, 0) {
			return 0, &DomainError{Op: "const", Node: v, Reason: "value overflows float64"}
		}
		return f, nil
	case *Var:
		x, ok := b[v.name]
		if !ok {
			return 0, &UndefinedVariableError{Name: v.name}
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, &DomainError{Op: "var", Node: v, Reason: fmt.Sprintf("binding %v is not finite", x)}
		}
		return x, nil
	case *Neg:
		x, err := Evaluate(v.arg, b)
		if err != nil {
			return 0, err
		}
		return -x, nil
	case *BinOp:
		l, err := Evaluate(v.left, b)
		if err != nil {
			return 0, err
		}
		r, err := Evaluate(v.right, b)
		if err != nil {
			return 0, err
		}
		return evalBinary(v, l, r)
	}
	panic(unknownNode(e))
}

func evalBinary(node *BinOp, l, r float64) (float64, error) {
	var out float64
	switch node.op {
	case OpAdd:
		out = l + r
	case OpSub:
		out = l - r
	case OpMul:
		out = l * r
	case OpDiv:
		if r == 0 {
			return 0, &DivisionByZeroError{Node: node}
		}
		out = l / r
	case OpPow:
		if l == 0 && r <= 0 {
			return 0, &DomainError{Op: "pow", Node: node, Reason: "zero raised to a non-positive power"}
		}
		if l < 0 && r != math.Trunc(r) {
			return 0, &DomainError{Op: "pow", Node: node, Reason: "negative base with non-integer exponent"}
		}
		out = math.Pow(l, r)
	default:
		panic(fmt.Sprintf("gosolve: unknown operator %d", int(node.op)))
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, &DomainError{Op: node.op.String(), Node: node, Reason: "result is not finite"}
	}
	return out, nil
}

// EvaluateConst returns the exact value of a variable-free expression when
// every operation folds exactly.
func EvaluateConst(e Expr) (*Const, bool) {
	switch v := e.(type) {
	case *Const:
		return v, true
	case *Var:
		return nil, false
	case *Neg:
		c, ok := EvaluateConst(v.arg)
		if !ok {
			return nil, false
		}
		return constNeg(c), true
	case *BinOp:
		l, ok := EvaluateConst(v.left)
		if !ok {
			return nil, false
		}
		r, ok := EvaluateConst(v.right)
		if !ok {
			return nil, false
		}
		out, ok := foldBinary(v.op, l, r)
		if !ok {
			return nil, false
		}
		return out.(*Const), true
	}
	panic(unknownNode(e))
}
