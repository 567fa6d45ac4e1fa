package gosolve

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrDomain            = errors.New("domain error")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDivisionByZero    = errors.New("division by zero")
)

// DomainError reports an undefined operation: a non-finite literal at
// construction, or an operation outside its domain during evaluation.
type DomainError struct {
	Op     string
	Node   Expr
	Reason string
}

func (e *DomainError) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("domain error in %s %s: %s", e.Op, e.Node, e.Reason)
	}
	return fmt.Sprintf("domain error in %s: %s", e.Op, e.Reason)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// UndefinedVariableError is returned when evaluation meets an unbound variable.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

func (e *UndefinedVariableError) Is(target error) bool { return target == ErrUndefinedVariable }

// DivisionByZeroError carries the division node whose divisor evaluated to zero.
type DivisionByZeroError struct {
	Node Expr
}

func (e *DivisionByZeroError) Error() string {
	if e.Node == nil {
		return "division by zero"
	}
	return fmt.Sprintf("division by zero in %s", e.Node)
}

func (e *DivisionByZeroError) Is(target error) bool { return target == ErrDivisionByZero }
