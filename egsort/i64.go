package egsort

import (
	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egval"
)

// I64Sort is the sort of signed 64 bit integers.
// Arithmetic wraps on overflow.
type I64Sort struct{}

func (I64Sort) Name() Symbol {
	return egval.I64Tag
}

func (I64Sort) MakeExpr(v Value) Expr {
	return egexpr.Int(v.AsI64())
}

func (I64Sort) RegisterPrimitives(r Registrar) {
	arith := map[string]func(a, b int64) (int64, bool){
		"+": func(a, b int64) (int64, bool) { return a + b, true },
		"-": func(a, b int64) (int64, bool) { return a - b, true },
		"*": func(a, b int64) (int64, bool) { return a * b, true },
		"/": func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a / b, true
		},
		"%": func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a % b, true
		},
		"min": func(a, b int64) (int64, bool) { return min(a, b), true },
		"max": func(a, b int64) (int64, bool) { return max(a, b), true },
	}
	for _, name := range []string{"+", "-", "*", "/", "%", "min", "max"} {
		r.AddPrimitive(i64Binop{primBase: newPrimBase(name), fn: arith[name]})
	}

	cmps := map[string]func(a, b int64) bool{
		"<":  func(a, b int64) bool { return a < b },
		">":  func(a, b int64) bool { return a > b },
		"<=": func(a, b int64) bool { return a <= b },
		">=": func(a, b int64) bool { return a >= b },
	}
	for _, name := range []string{"<", ">", "<=", ">="} {
		r.AddPrimitive(i64Cmp{primBase: newPrimBase(name), fn: cmps[name]})
	}
	r.AddPrimitive(i64Neg{newPrimBase("neg")})
}

type i64Binop struct {
	primBase
	fn func(a, b int64) (int64, bool)
}

func (p i64Binop) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, I64, I64) {
		return I64, true
	}
	return nil, false
}

func (p i64Binop) Apply(args []Value) (Value, bool) {
	c, ok := p.fn(args[0].AsI64(), args[1].AsI64())
	if !ok {
		return Value{}, false
	}
	return egval.FromI64(c), true
}

// i64Cmp produces Unit when the comparison holds, and no result otherwise.
type i64Cmp struct {
	primBase
	fn func(a, b int64) bool
}

func (p i64Cmp) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, I64, I64) {
		return Unit, true
	}
	return nil, false
}

func (p i64Cmp) Apply(args []Value) (Value, bool) {
	if p.fn(args[0].AsI64(), args[1].AsI64()) {
		return egval.Unit(), true
	}
	return Value{}, false
}

type i64Neg struct {
	primBase
}

func (p i64Neg) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, I64) {
		return I64, true
	}
	return nil, false
}

func (p i64Neg) Apply(args []Value) (Value, bool) {
	return egval.FromI64(-args[0].AsI64()), true
}
