package egsort

import (
	"fmt"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egval"
)

// The scalar sorts hold no state, so one instance of each is shared by every engine.
var (
	Unit   Sort = UnitSort{}
	I64    Sort = I64Sort{}
	String Sort = StringSort{}
)

// UnitSort is the sort of egval.Unit.
type UnitSort struct{}

func (UnitSort) Name() Symbol {
	return egval.UnitTag
}

func (UnitSort) RegisterPrimitives(r Registrar) {}

func (UnitSort) MakeExpr(v Value) Expr {
	return egexpr.Unit{}
}

// StringSort is the sort of interned strings.
// The payload of its Values is a symbol id.
type StringSort struct{}

func (StringSort) Name() Symbol {
	return egval.StringTag
}

func (s StringSort) RegisterPrimitives(r Registrar) {
	r.AddPrimitive(strConcat{newPrimBase("+")})
}

func (StringSort) MakeExpr(v Value) Expr {
	return egexpr.String(mustSymbol(v).String())
}

func mustSymbol(v Value) Symbol {
	sym, ok := v.AsSymbol()
	if !ok {
		panic(fmt.Sprintf("%v does not refer to a symbol", v))
	}
	return sym
}

type strConcat struct {
	primBase
}

func (p strConcat) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, String, String) {
		return String, true
	}
	return nil, false
}

func (p strConcat) Apply(args []Value) (Value, bool) {
	a, b := mustSymbol(args[0]), mustSymbol(args[1])
	return egval.FromSymbol(egval.Intern(a.String() + b.String())), true
}
