package egsort

import (
	"fmt"

	"myceliumweb.org/sortkit/egexpr"
)

// ErrUndefinedSort is returned when a declaration refers to a sort which does not exist.
type ErrUndefinedSort struct {
	Name Symbol
}

func (e ErrUndefinedSort) Error() string {
	return fmt.Sprintf("undefined sort %v", e.Name)
}

// ErrBadDeclaration is returned when the arguments of a declaration have the wrong shape.
type ErrBadDeclaration struct {
	Sort Symbol
	Kind string
	Args []Expr
	Msg  string
}

func (e ErrBadDeclaration) Error() string {
	args := egexpr.NewCall(e.Kind, e.Args...)
	return fmt.Sprintf("bad declaration of sort %v as %v: %s", e.Sort, egexpr.PrintString(args), e.Msg)
}

// sortArgs resolves declaration arguments which must all be names of existing sorts.
func sortArgs(ti TypeInfo, name Symbol, kind string, args []Expr, n int) ([]Sort, error) {
	if len(args) != n {
		return nil, ErrBadDeclaration{Sort: name, Kind: kind, Args: args,
			Msg: fmt.Sprintf("want %d sort arguments, have %d", n, len(args))}
	}
	ret := make([]Sort, n)
	for i, arg := range args {
		v, ok := arg.(egexpr.Var)
		if !ok {
			return nil, ErrBadDeclaration{Sort: name, Kind: kind, Args: args,
				Msg: fmt.Sprintf("argument %d is not a sort name", i)}
		}
		s, ok := ti.LookupSort(v.Name())
		if !ok {
			return nil, ErrUndefinedSort{Name: v.Name()}
		}
		ret[i] = s
	}
	return ret, nil
}
