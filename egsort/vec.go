package egsort

import (
	"fmt"
	"slices"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egval"
	"myceliumweb.org/sortkit/internal/bitbuf"
	"myceliumweb.org/sortkit/internal/intern"
)

// ValueVec is a sequence of Values.
type ValueVec []Value

func (v ValueVec) Clone() ValueVec {
	return slices.Clone(v)
}

func (v ValueVec) SizeOf() int {
	return egval.ValueBits * len(v)
}

func (v ValueVec) Encode(bb bitbuf.Buf) {
	egval.EncodeSeq(bb, v...)
}

func decodeValueVec(bb bitbuf.Buf) (ValueVec, error) {
	return egval.DecodeSeq(bb)
}

var _ Sort = &VecSort{}

// VecSort is the sort of ValueVecs with elements of one sort.
type VecSort struct {
	name Symbol
	elem Sort
	vecs *intern.Table[ValueVec]
}

// NewVecSort is the Factory for the Vec kind.  It is declared as (Vec E)
func NewVecSort(ti TypeInfo, name Symbol, args []Expr) (Sort, error) {
	elem, err := sortArgs(ti, name, "Vec", args, 1)
	if err != nil {
		return nil, err
	}
	return &VecSort{
		name: name,
		elem: elem[0],
		vecs: intern.New(name.String(), decodeValueVec, ti.TableConfig()),
	}, nil
}

func (s *VecSort) Name() Symbol {
	return s.name
}

func (s *VecSort) ElemSort() Sort {
	return s.elem
}

func (s *VecSort) Store(x ValueVec) Value {
	return Store(s.vecs, s.name, x)
}

func (s *VecSort) Load(v Value) ValueVec {
	return Load(s.vecs, s.name, v)
}

func (s *VecSort) RegisterPrimitives(r Registrar) {
	r.AddPrimitive(vecEmpty{newPrimBase("vec-empty"), s})
	r.AddPrimitive(vecPush{newPrimBase("vec-push"), s})
	r.AddPrimitive(vecGet{newPrimBase("vec-get"), s})
	r.AddPrimitive(vecSet{newPrimBase("vec-set"), s})
	r.AddPrimitive(vecLength{newPrimBase("vec-length"), s})
}

func (s *VecSort) MakeExpr(v Value) Expr {
	var expr Expr = egexpr.NewCall("vec-empty")
	for _, x := range s.Load(v) {
		expr = egexpr.NewCall("vec-push", expr, s.elem.MakeExpr(x))
	}
	return expr
}

func (s *VecSort) String() string {
	return fmt.Sprintf("%v = (Vec %v)", s.name, s.elem.Name())
}

type vecEmpty struct {
	primBase
	s *VecSort
}

func (p vecEmpty) Accept(args []Sort) (Sort, bool) {
	if len(args) == 0 {
		return p.s, true
	}
	return nil, false
}

func (p vecEmpty) Apply(args []Value) (Value, bool) {
	return p.s.Store(ValueVec{}), true
}

type vecPush struct {
	primBase
	s *VecSort
}

func (p vecPush) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.s, p.s.elem) {
		return p.s, true
	}
	return nil, false
}

func (p vecPush) Apply(args []Value) (Value, bool) {
	x := p.s.Load(args[0])
	return p.s.Store(append(x, args[1])), true
}

// vec-get: (V, i64) -> E, no result if the index is out of range.
type vecGet struct {
	primBase
	s *VecSort
}

func (p vecGet) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.s, I64) {
		return p.s.elem, true
	}
	return nil, false
}

func (p vecGet) Apply(args []Value) (Value, bool) {
	x := p.s.Load(args[0])
	i := args[1].AsI64()
	if i < 0 || i >= int64(len(x)) {
		return Value{}, false
	}
	return x[i], true
}

// vec-set: (V, i64, E) -> V, no result if the index is out of range.
type vecSet struct {
	primBase
	s *VecSort
}

func (p vecSet) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.s, I64, p.s.elem) {
		return p.s, true
	}
	return nil, false
}

func (p vecSet) Apply(args []Value) (Value, bool) {
	x := p.s.Load(args[0])
	i := args[1].AsI64()
	if i < 0 || i >= int64(len(x)) {
		return Value{}, false
	}
	x[i] = args[2]
	return p.s.Store(x), true
}

type vecLength struct {
	primBase
	s *VecSort
}

func (p vecLength) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.s) {
		return I64, true
	}
	return nil, false
}

func (p vecLength) Apply(args []Value) (Value, bool) {
	return egval.FromI64(int64(len(p.s.Load(args[0])))), true
}
