// package egexpr has the expression tree which Sorts use to describe their Values.
package egexpr

import (
	"strconv"

	"myceliumweb.org/sortkit/internal/symbol"
)

type Symbol = symbol.Symbol

// Expr = Var | Call | Int | String | Unit
type Expr interface {
	isExpr()
}

// Var refers to a variable, or a sort when used as a type argument.
type Var Symbol

func (Var) isExpr() {}

func NewVar(name string) Var {
	return Var(symbol.Intern(name))
}

func (v Var) Name() Symbol {
	return Symbol(v)
}

func (v Var) String() string {
	return Symbol(v).String()
}

// Call is the application of a named function to arguments.
type Call struct {
	Head Symbol
	Args []Expr
}

func (Call) isExpr() {}

func NewCall(head string, args ...Expr) Call {
	return Call{Head: symbol.Intern(head), Args: args}
}

func (c Call) String() string {
	return PrintString(c)
}

type Int int64

func (Int) isExpr() {}

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

type String string

func (String) isExpr() {}

func (s String) String() string {
	return strconv.Quote(string(s))
}

// Unit is the literal for the unit value.
type Unit struct{}

func (Unit) isExpr() {}

func (Unit) String() string {
	return "()"
}

// Equal returns true if a and b are the same expression
func Equal(a, b Expr) bool {
	switch a := a.(type) {
	case Call:
		b, ok := b.(Call)
		if !ok || a.Head != b.Head || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
