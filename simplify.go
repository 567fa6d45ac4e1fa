package gosolve

import (
	"fmt"
	"math/big"
)

// ============================================================
// Simplifier
// ============================================================

// maxSimplifyPasses caps the fixpoint loop. Hitting it means two rules undo
// each other, which is a bug in the rule table.
const maxSimplifyPasses = 64

// maxFoldBits bounds the size of an exactly folded integer power.
const maxFoldBits = 1 << 14

// Simplifier rewrites expressions with the ordered rule table until no rule
// fires. The zero value is the plain simplifier used by Simplify.
type Simplifier struct {
	// CommutativeNormal rewrites Sub(a, b) into Add(a, Neg(b)).
	CommutativeNormal bool
	// Preserve names a variable that annihilating rules must not discard.
	Preserve string
}

type rule struct {
	name  string
	apply func(s Simplifier, e Expr) (Expr, bool)
}

// rules is consulted in order at every node; the first match wins.
var rules = []rule{
	{name: "fold-constants", apply: foldConstants},
	{name: "additive-identity", apply: additiveIdentity},
	{name: "multiplicative-identity", apply: multiplicativeIdentity},
	{name: "double-negation", apply: doubleNegation},
	{name: "power-identity", apply: powerIdentity},
	{name: "commutative-normal", apply: commutativeNormal},
}

// Simplify reduces e to a fixpoint of the default rule set. It never fails:
// folds that would be undefined leave their node in place.
func Simplify(e Expr) Expr { return Simplifier{}.Simplify(e) }

func (s Simplifier) Simplify(e Expr) Expr {
	cur := e
	for i := 0; i < maxSimplifyPasses; i++ {
		next := s.pass(cur)
		if next.Equal(cur) {
			return next
		}
		cur = next
	}
	panic(fmt.Sprintf("gosolve: no simplification fixpoint after %d passes for %s", maxSimplifyPasses, e))
}

// pass rewrites children first, then tries the rule table once at the parent.
func (s Simplifier) pass(e Expr) Expr {
	switch v := e.(type) {
	case *Const, *Var:
		return e
	case *Neg:
		return s.rewrite(&Neg{arg: s.pass(v.arg)})
	case *BinOp:
		return s.rewrite(&BinOp{op: v.op, left: s.pass(v.left), right: s.pass(v.right)})
	}
	panic(unknownNode(e))
}

func (s Simplifier) rewrite(e Expr) Expr {
	for _, r := range rules {
		if out, ok := r.apply(s, e); ok {
			return out
		}
	}
	return e
}

// mayDrop reports whether an annihilating rule may discard e.
func (s Simplifier) mayDrop(e Expr) bool {
	return s.Preserve == "" || !Contains(e, s.Preserve)
}

// ============================================================
// Rules
// ============================================================

func foldConstants(_ Simplifier, e Expr) (Expr, bool) {
	switch v := e.(type) {
	case *Neg:
		if c, ok := v.arg.(*Const); ok {
			return constNeg(c), true
		}
	case *BinOp:
		l, lok := v.left.(*Const)
		r, rok := v.right.(*Const)
		if lok && rok {
			return foldBinary(v.op, l, r)
		}
	}
	return nil, false
}

func foldBinary(op Op, l, r *Const) (Expr, bool) {
	switch op {
	case OpAdd:
		return constAdd(l, r), true
	case OpSub:
		return constSub(l, r), true
	case OpMul:
		return constMul(l, r), true
	case OpDiv:
		if q, ok := constDiv(l, r); ok {
			return q, true
		}
	case OpPow:
		if p, ok := constPow(l, r); ok {
			return p, true
		}
	}
	return nil, false
}

// constPow folds base^exp when the result is an exact rational of bounded
// size. 0^0 and 0^negative are left alone.
func constPow(base, exp *Const) (*Const, bool) {
	if !exp.IsInteger() {
		return nil, false
	}
	if exp.IsZero() {
		if base.IsZero() {
			return nil, false
		}
		return N(1), true
	}
	if base.IsZero() {
		if exp.IsNegative() {
			return nil, false
		}
		return N(0), true
	}
	e := exp.rat().Num()
	if !e.IsInt64() {
		return nil, false
	}
	k := e.Int64()
	if k < 0 {
		k = -k
	}
	num, den := base.rat().Num(), base.rat().Denom()
	bits := num.BitLen()
	if den.BitLen() > bits {
		bits = den.BitLen()
	}
	if int64(bits) > maxFoldBits/k {
		return nil, false
	}
	kb := big.NewInt(k)
	pn := new(big.Int).Exp(num, kb, nil)
	pd := new(big.Int).Exp(den, kb, nil)
	if exp.IsNegative() {
		pn, pd = pd, pn
	}
	return &Const{val: new(big.Rat).SetFrac(pn, pd)}, true
}

func additiveIdentity(_ Simplifier, e Expr) (Expr, bool) {
	b, ok := e.(*BinOp)
	if !ok {
		return nil, false
	}
	switch b.op {
	case OpAdd:
		if isConst(b.right, 0) {
			return b.left, true
		}
		if isConst(b.left, 0) {
			return b.right, true
		}
	case OpSub:
		if isConst(b.right, 0) {
			return b.left, true
		}
	}
	return nil, false
}

func multiplicativeIdentity(s Simplifier, e Expr) (Expr, bool) {
	b, ok := e.(*BinOp)
	if !ok {
		return nil, false
	}
	switch b.op {
	case OpMul:
		if isConst(b.right, 1) {
			return b.left, true
		}
		if isConst(b.left, 1) {
			return b.right, true
		}
		if isConst(b.right, 0) && s.mayDrop(b.left) {
			return N(0), true
		}
		if isConst(b.left, 0) && s.mayDrop(b.right) {
			return N(0), true
		}
	case OpDiv:
		if isConst(b.right, 1) {
			return b.left, true
		}
	}
	return nil, false
}

func doubleNegation(_ Simplifier, e Expr) (Expr, bool) {
	if n, ok := e.(*Neg); ok {
		if inner, ok := n.arg.(*Neg); ok {
			return inner.arg, true
		}
	}
	return nil, false
}

func powerIdentity(s Simplifier, e Expr) (Expr, bool) {
	b, ok := e.(*BinOp)
	if !ok || b.op != OpPow {
		return nil, false
	}
	if isConst(b.right, 1) {
		return b.left, true
	}
	// 0^0 stays put so Undefined can report it.
	if isConst(b.right, 0) && !isConst(b.left, 0) && s.mayDrop(b.left) {
		return N(1), true
	}
	if isConst(b.left, 1) && s.mayDrop(b.right) {
		return N(1), true
	}
	return nil, false
}

func commutativeNormal(s Simplifier, e Expr) (Expr, bool) {
	if !s.CommutativeNormal {
		return nil, false
	}
	if b, ok := e.(*BinOp); ok && b.op == OpSub {
		return &BinOp{op: OpAdd, left: b.left, right: &Neg{arg: b.right}}, true
	}
	return nil, false
}

func isConst(e Expr, v int64) bool {
	c, ok := e.(*Const)
	return ok && c.rat().Cmp(big.NewRat(v, 1)) == 0
}

// ============================================================
// Undefined leftovers
// ============================================================

// Undefined returns the first node in e that constant folding refused to
// reduce because it is undefined: a division by literal zero, or zero raised
// to a non-positive literal power. It returns nil when there is none.
func Undefined(e Expr) *DomainError {
	switch v := e.(type) {
	case *Const, *Var:
		return nil
	case *Neg:
		return Undefined(v.arg)
	case *BinOp:
		if d := Undefined(v.left); d != nil {
			return d
		}
		if d := Undefined(v.right); d != nil {
			return d
		}
		switch v.op {
		case OpDiv:
			if isConst(v.right, 0) {
				return &DomainError{Op: "div", Node: v, Reason: "division by zero"}
			}
		case OpPow:
			if c, ok := v.right.(*Const); ok && isConst(v.left, 0) && c.Sign() <= 0 {
				return &DomainError{Op: "pow", Node: v, Reason: "zero raised to a non-positive power"}
			}
		}
		return nil
	}
	panic(unknownNode(e))
}
