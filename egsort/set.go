package egsort

import (
	"fmt"
	"iter"

	"github.com/google/btree"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egval"
	"myceliumweb.org/sortkit/internal/bitbuf"
	"myceliumweb.org/sortkit/internal/intern"
)

// ValueSet is an ordered set of Values.
// The zero ValueSet is an empty set.
type ValueSet struct {
	t *btree.BTreeG[Value]
}

func NewValueSet(xs ...Value) ValueSet {
	s := ValueSet{t: btree.NewG[Value](btreeDegree, egval.Less)}
	for _, x := range xs {
		s.Insert(x)
	}
	return s
}

func (s ValueSet) Len() int {
	if s.t == nil {
		return 0
	}
	return s.t.Len()
}

func (s ValueSet) Contains(x Value) bool {
	return s.t != nil && s.t.Has(x)
}

func (s *ValueSet) Insert(x Value) {
	if s.t == nil {
		s.t = btree.NewG[Value](btreeDegree, egval.Less)
	}
	s.t.ReplaceOrInsert(x)
}

func (s ValueSet) Remove(x Value) bool {
	if s.t == nil {
		return false
	}
	_, ok := s.t.Delete(x)
	return ok
}

func (s ValueSet) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		if s.t == nil {
			return
		}
		s.t.Ascend(func(x Value) bool {
			return yield(x)
		})
	}
}

func (s ValueSet) Clone() ValueSet {
	if s.t == nil {
		return ValueSet{}
	}
	return ValueSet{t: s.t.Clone()}
}

func (s ValueSet) SizeOf() int {
	return egval.ValueBits * s.Len()
}

func (s ValueSet) Encode(bb bitbuf.Buf) {
	var i int
	for x := range s.All() {
		x.Encode(bb.Slice(i, i+egval.ValueBits))
		i += egval.ValueBits
	}
}

func decodeValueSet(bb bitbuf.Buf) (ValueSet, error) {
	vals, err := egval.DecodeSeq(bb)
	if err != nil {
		return ValueSet{}, err
	}
	return NewValueSet(vals...), nil
}

var _ Sort = &SetSort{}

// SetSort is the sort of ValueSets with elements of one sort.
type SetSort struct {
	name Symbol
	elem Sort
	sets *intern.Table[ValueSet]
}

// NewSetSort is the Factory for the Set kind.  It is declared as (Set E)
func NewSetSort(ti TypeInfo, name Symbol, args []Expr) (Sort, error) {
	elem, err := sortArgs(ti, name, "Set", args, 1)
	if err != nil {
		return nil, err
	}
	return &SetSort{
		name: name,
		elem: elem[0],
		sets: intern.New(name.String(), decodeValueSet, ti.TableConfig()),
	}, nil
}

func (s *SetSort) Name() Symbol {
	return s.name
}

func (s *SetSort) ElemSort() Sort {
	return s.elem
}

func (s *SetSort) Store(x ValueSet) Value {
	return Store(s.sets, s.name, x)
}

func (s *SetSort) Load(v Value) ValueSet {
	return Load(s.sets, s.name, v)
}

func (s *SetSort) RegisterPrimitives(r Registrar) {
	r.AddPrimitive(setEmpty{newPrimBase("set-empty"), s})
	r.AddPrimitive(setInsert{newPrimBase("set-insert"), s})
	r.AddPrimitive(setRemove{newPrimBase("set-remove"), s})
	r.AddPrimitive(setContains{newPrimBase("set-contains"), s})
	r.AddPrimitive(setLength{newPrimBase("set-length"), s})
	r.AddPrimitive(setUnion{newPrimBase("set-union"), s})
}

func (s *SetSort) MakeExpr(v Value) Expr {
	var expr Expr = egexpr.NewCall("set-empty")
	for x := range s.Load(v).All() {
		expr = egexpr.NewCall("set-insert", expr, s.elem.MakeExpr(x))
	}
	return expr
}

func (s *SetSort) String() string {
	return fmt.Sprintf("%v = (Set %v)", s.name, s.elem.Name())
}

type setEmpty struct {
	primBase
	s *SetSort
}

func (p setEmpty) Accept(args []Sort) (Sort, bool) {
	if len(args) == 0 {
		return p.s, true
	}
	return nil, false
}

func (p setEmpty) Apply(args []Value) (Value, bool) {
	return p.s.Store(NewValueSet()), true
}

type setInsert struct {
	primBase
	s *SetSort
}

func (p setInsert) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.s, p.s.elem) {
		return p.s, true
	}
	return nil, false
}

func (p setInsert) Apply(args []Value) (Value, bool) {
	x := p.s.Load(args[0])
	x.Insert(args[1])
	return p.s.Store(x), true
}

type setRemove struct {
	primBase
	s *SetSort
}

func (p setRemove) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.s, p.s.elem) {
		return p.s, true
	}
	return nil, false
}

func (p setRemove) Apply(args []Value) (Value, bool) {
	x := p.s.Load(args[0])
	if !x.Remove(args[1]) {
		return args[0], true
	}
	return p.s.Store(x), true
}

type setContains struct {
	primBase
	s *SetSort
}

func (p setContains) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.s, p.s.elem) {
		return Unit, true
	}
	return nil, false
}

func (p setContains) Apply(args []Value) (Value, bool) {
	if p.s.Load(args[0]).Contains(args[1]) {
		return egval.Unit(), true
	}
	return Value{}, false
}

type setLength struct {
	primBase
	s *SetSort
}

func (p setLength) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.s) {
		return I64, true
	}
	return nil, false
}

func (p setLength) Apply(args []Value) (Value, bool) {
	return egval.FromI64(int64(p.s.Load(args[0]).Len())), true
}

type setUnion struct {
	primBase
	s *SetSort
}

func (p setUnion) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.s, p.s) {
		return p.s, true
	}
	return nil, false
}

func (p setUnion) Apply(args []Value) (Value, bool) {
	x := p.s.Load(args[0])
	for y := range p.s.Load(args[1]).All() {
		x.Insert(y)
	}
	return p.s.Store(x), true
}
