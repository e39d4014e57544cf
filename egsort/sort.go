// package egsort defines Sorts, the types of the engine, and Primitives,
// the type checked operations on their Values.
//
// The engine holds Sorts and Primitives as interface values, so new sorts
// can be added without changing the engine.
// Type checking (Primitive.Accept) needs only Sorts.
// Execution (Primitive.Apply) needs only Values.
package egsort

import (
	"go.brendoncarroll.net/exp/slices2"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egval"
	"myceliumweb.org/sortkit/internal/intern"
)

type (
	Symbol = egval.Symbol
	Value  = egval.Value
	Expr   = egexpr.Expr

	// TableConfig configures the interning tables of aggregate sorts.
	TableConfig = intern.Config
)

// Sort is a type in the engine's type system.
// A Sort is shared by everything which refers to it, and is never copied.
type Sort interface {
	// Name is the unique name of the sort.
	// It is the tag of all of the sort's Values.
	Name() Symbol
	// RegisterPrimitives adds the sort's primitives to r.
	// It is called once, when the sort is declared.
	RegisterPrimitives(r Registrar)
	// MakeExpr returns an expression which evaluates to a Value equal to v.
	MakeExpr(v Value) Expr
}

// Primitive is a named, pure function on Values.
type Primitive interface {
	Name() Symbol
	// Accept returns the output sort if the primitive can be applied to arguments of sorts args.
	// Returning false is not an error, the engine will try another primitive with the same name.
	Accept(args []Sort) (Sort, bool)
	// Apply applies the primitive to args, which must have sorts that were accepted.
	// Apply returns false only if the primitive has no result for args.
	Apply(args []Value) (Value, bool)
}

// Registrar is the primitive registry of the engine.
type Registrar interface {
	AddPrimitive(p Primitive)
}

// TypeInfo is the part of the engine available when declaring sorts.
type TypeInfo interface {
	LookupSort(name Symbol) (Sort, bool)
	TableConfig() TableConfig
}

// Factory creates a new instance of a kind of sort.
// args are the type arguments in the declaration.
type Factory func(ti TypeInfo, name Symbol, args []Expr) (Sort, error)

// SameSorts returns true if have and want are the same length, and the sorts have the same names.
func SameSorts(have []Sort, want ...Sort) bool {
	if len(have) != len(want) {
		return false
	}
	for i := range have {
		if have[i].Name() != want[i].Name() {
			return false
		}
	}
	return true
}

// Names returns the names of xs
func Names(xs []Sort) []Symbol {
	return slices2.Map(xs, func(x Sort) Symbol { return x.Name() })
}

type primBase struct {
	name Symbol
}

func (p primBase) Name() Symbol {
	return p.name
}

func newPrimBase(name string) primBase {
	return primBase{name: egval.Intern(name)}
}
