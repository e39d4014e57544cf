package egraph

import (
	"fmt"

	"myceliumweb.org/sortkit/egexpr"
)

type ErrSortExists struct {
	Name Symbol
}

func (e ErrSortExists) Error() string {
	return fmt.Sprintf("sort %v already exists", e.Name)
}

type ErrUnknownKind struct {
	Kind string
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown kind of sort %q", e.Kind)
}

// ErrNoPrimitive is returned when no primitive with a name accepts the argument sorts.
type ErrNoPrimitive struct {
	Name Symbol
	Args []Symbol
}

func (e ErrNoPrimitive) Error() string {
	return fmt.Sprintf("no primitive %v accepts %v", e.Name, e.Args)
}

// ErrAmbiguous is returned when an expression could have more than one sort.
type ErrAmbiguous struct {
	Expr  Expr
	Sorts []Symbol
}

func (e ErrAmbiguous) Error() string {
	return fmt.Sprintf("%v is ambiguous, it could have any of the sorts %v", egexpr.PrintString(e.Expr), e.Sorts)
}

// ErrNoValue is returned when a primitive produces no result during evaluation.
type ErrNoValue struct {
	Expr Expr
}

func (e ErrNoValue) Error() string {
	return fmt.Sprintf("%v has no value", egexpr.PrintString(e.Expr))
}

type ErrUnboundVar struct {
	Name Symbol
}

func (e ErrUnboundVar) Error() string {
	return fmt.Sprintf("unbound variable %v", e.Name)
}

// ErrWrongSort is returned by EvalAs when the expression cannot have the requested sort.
type ErrWrongSort struct {
	Expr Expr
	Want Symbol
	Have []Symbol
}

func (e ErrWrongSort) Error() string {
	return fmt.Sprintf("%v cannot have sort %v, only %v", egexpr.PrintString(e.Expr), e.Want, e.Have)
}
