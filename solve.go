package gosolve

import (
	"fmt"
	"log/slog"
)

// ============================================================
// Solver
// ============================================================

// Outcome tags a SolveResult.
type Outcome int

const (
	Solved Outcome = iota
	NoUniqueSolution
	DomainViolation
)

func (o Outcome) String() string {
	switch o {
	case Solved:
		return "solved"
	case NoUniqueSolution:
		return "no_unique_solution"
	case DomainViolation:
		return "domain_violation"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// State is a phase of the solver. Failures record the phase they ended in.
type State int

const (
	Normalizing State = iota
	Scanning
	Isolating
	Done
)

func (s State) String() string {
	switch s {
	case Normalizing:
		return "normalizing"
	case Scanning:
		return "scanning"
	case Isolating:
		return "isolating"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Reasons carried by DomainViolation results.
const (
	ReasonZeroFactor         = "multiplication by zero cannot be inverted"
	ReasonDivisionByZero     = "division by zero"
	ReasonZeroExponent       = "zero exponent cannot be inverted"
	ReasonEvenRootOfNegative = "even root of a negative number"
	ReasonZeroToNonPositive  = "zero raised to a non-positive power"
	ReasonVariableExponent   = "unsupported: variable exponent"
)

// Step records one peel of the isolation loop.
type Step struct {
	Peeled      Expr // variable-side node that was removed
	Inverse     Expr // accumulator with the inverse applied, before simplification
	Accumulator Expr // Inverse after simplification
}

type SolveResult struct {
	Outcome Outcome
	State   State
	// Value is the isolated closed form when Outcome is Solved.
	Value Expr
	// Reason and Node describe a DomainViolation.
	Reason string
	Node   Expr
	// Occurrences is the number of target nodes found after normalization.
	Occurrences int
	Steps       []Step
}

func (r SolveResult) String() string {
	switch r.Outcome {
	case Solved:
		return "solved: " + r.Value.String()
	case NoUniqueSolution:
		return fmt.Sprintf("no unique solution: %d occurrences", r.Occurrences)
	case DomainViolation:
		if r.Node != nil {
			return fmt.Sprintf("domain violation at %s: %s", r.Node, r.Reason)
		}
		return "domain violation: " + r.Reason
	}
	return r.Outcome.String()
}

// Solver isolates a target variable. The zero value is ready to use; Logger
// receives a debug record per isolation step when set.
type Solver struct {
	Logger *slog.Logger
}

// Solve isolates target in eq with the default Solver.
func Solve(eq *Equation, target string) SolveResult { return Solver{}.Solve(eq, target) }

// Solve isolates target in eq. An empty target names no variable and yields
// NoUniqueSolution with zero occurrences.
func (s Solver) Solve(eq *Equation, target string) SolveResult {
	log := s.logger().With(slog.String("target", target))
	if target == "" {
		log.Debug("empty target")
		return SolveResult{Outcome: NoUniqueSolution, State: Normalizing}
	}

	norm := Simplifier{Preserve: target}
	lhs := norm.Simplify(eq.LHS)
	rhs := norm.Simplify(eq.RHS)
	log.Debug("normalized", slog.String("lhs", lhs.String()), slog.String("rhs", rhs.String()))

	nl, nr := Occurrences(lhs, target), Occurrences(rhs, target)
	if n := nl + nr; n != 1 {
		log.Debug("no unique solution", slog.Int("occurrences", n))
		return SolveResult{Outcome: NoUniqueSolution, State: Scanning, Occurrences: n}
	}

	side, acc := lhs, rhs
	if nr == 1 {
		side, acc = rhs, lhs
	}

	res := SolveResult{Occurrences: 1, State: Isolating}
	for {
		if _, ok := side.(*Var); ok {
			break
		}
		hot, inverse, v := peel(side, acc, target)
		if v != nil {
			log.Debug("domain violation", slog.String("node", v.node.String()), slog.String("reason", v.reason))
			res.Outcome, res.Reason, res.Node = DomainViolation, v.reason, v.node
			return res
		}
		next := norm.Simplify(inverse)
		res.Steps = append(res.Steps, Step{Peeled: side, Inverse: inverse, Accumulator: next})
		log.Debug("peeled", slog.String("node", side.String()), slog.String("accumulator", next.String()))
		side, acc = hot, next
	}

	if d := Undefined(acc); d != nil {
		res.Outcome, res.Reason, res.Node = DomainViolation, d.Reason, d.Node
		return res
	}
	res.Outcome, res.State, res.Value = Solved, Done, acc
	log.Debug("solved", slog.String("value", acc.String()), slog.Int("steps", len(res.Steps)))
	return res
}

func (s Solver) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

type violation struct {
	reason string
	node   Expr
}

// peel removes the outermost operation of node, which contains target exactly
// once, and applies its inverse to acc. It returns the child holding target.
func peel(node, acc Expr, target string) (hot, inverse Expr, v *violation) {
	switch n := node.(type) {
	case *Neg:
		return n.arg, Negate(acc), nil
	case *BinOp:
		leftHot := Contains(n.left, target)
		hot, cold := n.left, n.right
		if !leftHot {
			hot, cold = n.right, n.left
		}
		switch n.op {
		case OpAdd:
			return hot, Sub(acc, cold), nil
		case OpSub:
			if leftHot {
				return hot, Add(acc, cold), nil
			}
			return hot, Negate(Sub(acc, cold)), nil
		case OpMul:
			if isConst(cold, 0) {
				return nil, nil, &violation{reason: ReasonZeroFactor, node: n}
			}
			return hot, Div(acc, cold), nil
		case OpDiv:
			if leftHot {
				if isConst(cold, 0) {
					return nil, nil, &violation{reason: ReasonDivisionByZero, node: n}
				}
				return hot, Mul(acc, cold), nil
			}
			if isConst(cold, 0) || isConst(acc, 0) {
				return nil, nil, &violation{reason: ReasonDivisionByZero, node: n}
			}
			return hot, Div(cold, acc), nil
		case OpPow:
			if !leftHot {
				return nil, nil, &violation{reason: ReasonVariableExponent, node: n}
			}
			return peelPow(n, hot, cold, acc)
		}
	}
	panic(fmt.Sprintf("gosolve: cannot peel %T %s", node, node))
}

// peelPow inverts base^cold = acc into base = acc^(1/cold).
func peelPow(n *BinOp, hot, cold, acc Expr) (Expr, Expr, *violation) {
	root := Div(N(1), cold)
	c, ok := cold.(*Const)
	if !ok {
		return hot, Pow(acc, root), nil
	}
	if c.IsZero() {
		return nil, nil, &violation{reason: ReasonZeroExponent, node: n}
	}
	a, ok := acc.(*Const)
	if !ok {
		return hot, Pow(acc, root), nil
	}
	if a.IsZero() && c.IsNegative() {
		return nil, nil, &violation{reason: ReasonZeroToNonPositive, node: n}
	}
	if a.IsNegative() && c.IsInteger() {
		if c.IsEvenInteger() {
			return nil, nil, &violation{reason: ReasonEvenRootOfNegative, node: n}
		}
		// Odd roots of negatives are real: -((-acc)^(1/cold)).
		return hot, Negate(Pow(constNeg(a), root)), nil
	}
	return hot, Pow(acc, root), nil
}
