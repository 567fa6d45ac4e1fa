// Package gosolve provides a deterministic symbolic equation solver for Go.
//
// Design goals:
//   - Immutable expression trees over a closed set of node kinds
//   - Exact rational constants (math/big.Rat)
//   - Ordered, bounded rewrite rules applied to a fixpoint
//   - Single-variable isolation with structured, non-panicking outcomes
//   - JSON and tool-call APIs for embedding in services and agent backends
package gosolve

import (
	"fmt"
	"math"
	"math/big"
	"sort"
)

// ============================================================
// Core Interface
// ============================================================

// Kind tags the closed set of expression node types.
type Kind int

const (
	KindConst Kind = iota
	KindVar
	KindNeg
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "const"
	case KindVar:
		return "var"
	case KindNeg:
		return "neg"
	case KindBinary:
		return "binary"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Expr is an immutable expression tree node. The only implementations are
// *Const, *Var, *Neg and *BinOp.
type Expr interface {
	Kind() Kind
	String() string
	Equal(other Expr) bool
	sealed()
}

// Op is the operator of a BinOp.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

var opNames = [...]string{"add", "sub", "mul", "div", "pow"}
var opSymbols = [...]string{"+", "-", "*", "/", "^"}

func (o Op) String() string {
	if o < OpAdd || o > OpPow {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Symbol returns the infix operator character.
func (o Op) Symbol() string {
	if o < OpAdd || o > OpPow {
		return "?"
	}
	return opSymbols[o]
}

// Commutative reports whether operand order is irrelevant for o.
func (o Op) Commutative() bool { return o == OpAdd || o == OpMul }

// OpFromSymbol maps an infix character such as "^" back to its operator.
func OpFromSymbol(sym string) (Op, bool) {
	for i, s := range opSymbols {
		if s == sym {
			return Op(i), true
		}
	}
	return 0, false
}

func opFromName(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name {
			return Op(i), true
		}
	}
	return 0, false
}

// ============================================================
// Const — exact rational number
// ============================================================

// Const is an exact rational. Build constants with N, F, NFloat or R; a zero
// Const{} reads as 0.
type Const struct{ val *big.Rat }

func (c *Const) rat() *big.Rat {
	if c.val == nil {
		return new(big.Rat)
	}
	return c.val
}

func N(n int64) *Const { return &Const{val: new(big.Rat).SetInt64(n)} }

// F builds p/q. A zero denominator is rejected.
func F(p, q int64) (*Const, error) {
	if q == 0 {
		return nil, &DomainError{Op: "const", Reason: fmt.Sprintf("%d/0 is not finite", p)}
	}
	return &Const{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}, nil
}

// MustF is like F but panics on a zero denominator.
func MustF(p, q int64) *Const {
	c, err := F(p, q)
	if err != nil {
		panic(err)
	}
	return c
}

// NFloat converts f exactly. NaN and infinities are rejected.
func NFloat(f float64) (*Const, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &DomainError{Op: "const", Reason: fmt.Sprintf("%v is not finite", f)}
	}
	return &Const{val: new(big.Rat).SetFloat64(f)}, nil
}

// R copies r into a constant.
func R(r *big.Rat) *Const { return &Const{val: new(big.Rat).Set(r)} }

func (c *Const) Kind() Kind { return KindConst }
func (c *Const) sealed()    {}
func (c *Const) Equal(other Expr) bool {
	o, ok := other.(*Const)
	return ok && c.rat().Cmp(o.rat()) == 0
}
func (c *Const) Rat() *big.Rat    { return new(big.Rat).Set(c.rat()) }
func (c *Const) Float64() float64 { f, _ := c.rat().Float64(); return f }
func (c *Const) IsZero() bool     { return c.rat().Sign() == 0 }
func (c *Const) IsOne() bool      { return c.rat().Cmp(big.NewRat(1, 1)) == 0 }
func (c *Const) IsInteger() bool  { return c.rat().IsInt() }
func (c *Const) IsNegative() bool { return c.rat().Sign() < 0 }
func (c *Const) Sign() int        { return c.rat().Sign() }

// IsEvenInteger reports whether c is an integer divisible by two.
func (c *Const) IsEvenInteger() bool {
	return c.rat().IsInt() && c.rat().Num().Bit(0) == 0
}

func (c *Const) String() string {
	if c.rat().IsInt() {
		return c.rat().Num().String()
	}
	return c.rat().RatString()
}

func constAdd(a, b *Const) *Const { return &Const{val: new(big.Rat).Add(a.rat(), b.rat())} }
func constSub(a, b *Const) *Const { return &Const{val: new(big.Rat).Sub(a.rat(), b.rat())} }
func constMul(a, b *Const) *Const { return &Const{val: new(big.Rat).Mul(a.rat(), b.rat())} }
func constNeg(a *Const) *Const    { return &Const{val: new(big.Rat).Neg(a.rat())} }

// constDiv returns false instead of panicking on a zero divisor.
func constDiv(a, b *Const) (*Const, bool) {
	if b.IsZero() {
		return nil, false
	}
	return &Const{val: new(big.Rat).Quo(a.rat(), b.rat())}, true
}

// ============================================================
// Var — named unknown
// ============================================================

type Var struct{ name string }

// S builds a variable. Solve treats the empty name as matching nothing.
func S(name string) *Var { return &Var{name: name} }

func (v *Var) Kind() Kind     { return KindVar }
func (v *Var) sealed()        {}
func (v *Var) Name() string   { return v.name }
func (v *Var) String() string { return v.name }
func (v *Var) Equal(other Expr) bool {
	o, ok := other.(*Var)
	return ok && v.name == o.name
}

// ============================================================
// Neg — unary minus
// ============================================================

type Neg struct{ arg Expr }

func Negate(arg Expr) *Neg {
	mustOperand("neg", arg)
	return &Neg{arg: arg}
}

func (n *Neg) Kind() Kind     { return KindNeg }
func (n *Neg) sealed()        {}
func (n *Neg) Arg() Expr      { return n.arg }
func (n *Neg) String() string { return "-(" + n.arg.String() + ")" }
func (n *Neg) Equal(other Expr) bool {
	o, ok := other.(*Neg)
	return ok && n.arg.Equal(o.arg)
}

// ============================================================
// BinOp — binary operation
// ============================================================

type BinOp struct {
	op          Op
	left, right Expr
}

func Binary(op Op, left, right Expr) *BinOp {
	if op < OpAdd || op > OpPow {
		panic(fmt.Sprintf("gosolve: unknown operator %d", int(op)))
	}
	mustOperand(op.String(), left)
	mustOperand(op.String(), right)
	return &BinOp{op: op, left: left, right: right}
}

func Add(left, right Expr) *BinOp { return Binary(OpAdd, left, right) }
func Sub(left, right Expr) *BinOp { return Binary(OpSub, left, right) }
func Mul(left, right Expr) *BinOp { return Binary(OpMul, left, right) }
func Div(left, right Expr) *BinOp { return Binary(OpDiv, left, right) }
func Pow(base, exp Expr) *BinOp   { return Binary(OpPow, base, exp) }

func (b *BinOp) Kind() Kind  { return KindBinary }
func (b *BinOp) sealed()     {}
func (b *BinOp) Op() Op      { return b.op }
func (b *BinOp) Left() Expr  { return b.left }
func (b *BinOp) Right() Expr { return b.right }
func (b *BinOp) String() string {
	return "(" + b.left.String() + " " + b.op.Symbol() + " " + b.right.String() + ")"
}
func (b *BinOp) Equal(other Expr) bool {
	o, ok := other.(*BinOp)
	return ok && b.op == o.op && b.left.Equal(o.left) && b.right.Equal(o.right)
}

func mustOperand(op string, e Expr) {
	if e == nil {
		panic("gosolve: nil operand for " + op)
	}
}

// ============================================================
// Structural queries
// ============================================================

// Equal reports structural equality: same shape, same leaves.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Clone returns a deep copy of e.
func Clone(e Expr) Expr {
	switch v := e.(type) {
	case *Const:
		return R(v.rat())
	case *Var:
		return S(v.name)
	case *Neg:
		return &Neg{arg: Clone(v.arg)}
	case *BinOp:
		return &BinOp{op: v.op, left: Clone(v.left), right: Clone(v.right)}
	}
	panic(unknownNode(e))
}

// Size returns the number of nodes in e.
func Size(e Expr) int {
	switch v := e.(type) {
	case *Const, *Var:
		return 1
	case *Neg:
		return 1 + Size(v.arg)
	case *BinOp:
		return 1 + Size(v.left) + Size(v.right)
	}
	panic(unknownNode(e))
}

// Depth returns the height of e; a leaf has depth 1.
func Depth(e Expr) int {
	switch v := e.(type) {
	case *Const, *Var:
		return 1
	case *Neg:
		return 1 + Depth(v.arg)
	case *BinOp:
		l, r := Depth(v.left), Depth(v.right)
		if r > l {
			l = r
		}
		return 1 + l
	}
	panic(unknownNode(e))
}

// ============================================================
// Free Variables
// ============================================================

func FreeVariables(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectVariables(e, result)
	return result
}

// SortedFreeVariables returns the distinct variable names in e in ascending order.
func SortedFreeVariables(e Expr) []string {
	set := FreeVariables(e)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectVariables(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Const:
	case *Var:
		out[v.name] = struct{}{}
	case *Neg:
		collectVariables(v.arg, out)
	case *BinOp:
		collectVariables(v.left, out)
		collectVariables(v.right, out)
	default:
		panic(unknownNode(e))
	}
}

// Occurrences counts the Var nodes named name.
func Occurrences(e Expr, name string) int {
	switch v := e.(type) {
	case *Const:
		return 0
	case *Var:
		if v.name == name {
			return 1
		}
		return 0
	case *Neg:
		return Occurrences(v.arg, name)
	case *BinOp:
		return Occurrences(v.left, name) + Occurrences(v.right, name)
	}
	panic(unknownNode(e))
}

func Contains(e Expr, name string) bool { return Occurrences(e, name) > 0 }

// Substitute replaces every variable named name with value. The result is
// not simplified.
func Substitute(e Expr, name string, value Expr) Expr {
	switch v := e.(type) {
	case *Const:
		return v
	case *Var:
		if v.name == name {
			return value
		}
		return v
	case *Neg:
		return Negate(Substitute(v.arg, name, value))
	case *BinOp:
		return Binary(v.op, Substitute(v.left, name, value), Substitute(v.right, name, value))
	}
	panic(unknownNode(e))
}

func unknownNode(e Expr) string {
	return fmt.Sprintf("gosolve: unknown expression node %T", e)
}

// String renders e; it is a debugging aid, not a formatter.
func String(e Expr) string { return e.String() }
