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

const btreeDegree = 8

type mapEntry struct {
	k, v Value
}

// ValueMap is an ordered map from Values to Values.
// Entries are ordered by key.
// The zero ValueMap is an empty map.
type ValueMap struct {
	t *btree.BTreeG[mapEntry]
}

func NewValueMap() ValueMap {
	return ValueMap{t: newMapTree()}
}

func newMapTree() *btree.BTreeG[mapEntry] {
	return btree.NewG[mapEntry](btreeDegree, func(a, b mapEntry) bool {
		return egval.Less(a.k, b.k)
	})
}

func (m ValueMap) Len() int {
	if m.t == nil {
		return 0
	}
	return m.t.Len()
}

func (m ValueMap) Get(k Value) (Value, bool) {
	if m.t == nil {
		return Value{}, false
	}
	ent, ok := m.t.Get(mapEntry{k: k})
	return ent.v, ok
}

// Insert sets the value for k, replacing any previous value.
func (m *ValueMap) Insert(k, v Value) {
	if m.t == nil {
		m.t = newMapTree()
	}
	m.t.ReplaceOrInsert(mapEntry{k: k, v: v})
}

// Remove deletes the entry for k, and returns true if there was one.
func (m ValueMap) Remove(k Value) bool {
	if m.t == nil {
		return false
	}
	_, ok := m.t.Delete(mapEntry{k: k})
	return ok
}

// All iterates over the entries in ascending key order.
func (m ValueMap) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		if m.t == nil {
			return
		}
		m.t.Ascend(func(ent mapEntry) bool {
			return yield(ent.k, ent.v)
		})
	}
}

// Backward iterates over the entries in descending key order.
func (m ValueMap) Backward() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		if m.t == nil {
			return
		}
		m.t.Descend(func(ent mapEntry) bool {
			return yield(ent.k, ent.v)
		})
	}
}

// Clone is cheap.  The clone and the original share structure until one is modified.
func (m ValueMap) Clone() ValueMap {
	if m.t == nil {
		return ValueMap{}
	}
	return ValueMap{t: m.t.Clone()}
}

func (m ValueMap) SizeOf() int {
	return 2 * egval.ValueBits * m.Len()
}

func (m ValueMap) Encode(bb bitbuf.Buf) {
	var i int
	for k, v := range m.All() {
		egval.EncodeSeq(bb.Slice(i, i+2*egval.ValueBits), k, v)
		i += 2 * egval.ValueBits
	}
}

func (m ValueMap) String() string {
	ret := "{"
	var i int
	for k, v := range m.All() {
		if i > 0 {
			ret += ", "
		}
		ret += fmt.Sprintf("%v: %v", k, v)
		i++
	}
	return ret + "}"
}

func decodeValueMap(bb bitbuf.Buf) (ValueMap, error) {
	vals, err := egval.DecodeSeq(bb)
	if err != nil {
		return ValueMap{}, err
	}
	if len(vals)%2 != 0 {
		return ValueMap{}, fmt.Errorf("map encoding has odd number of values: %d", len(vals))
	}
	m := NewValueMap()
	for i := 0; i < len(vals); i += 2 {
		m.Insert(vals[i], vals[i+1])
	}
	return m, nil
}

var _ Sort = &MapSort{}

// MapSort is the sort of ValueMaps with keys of one sort and values of another.
//
// Each entry takes 24 bytes of the canonical encoding, so with the default
// MaxAggregateBytes a map holds at most about 700k entries.
// Store, and the primitives that produce maps, panic when a map exceeds
// the MaxSize of the sort's TableConfig.
type MapSort struct {
	name  Symbol
	key   Sort
	value Sort
	maps  *intern.Table[ValueMap]
}

// NewMapSort is the Factory for the Map kind.  It is declared as (Map K V)
func NewMapSort(ti TypeInfo, name Symbol, args []Expr) (Sort, error) {
	kv, err := sortArgs(ti, name, "Map", args, 2)
	if err != nil {
		return nil, err
	}
	return &MapSort{
		name:  name,
		key:   kv[0],
		value: kv[1],
		maps:  intern.New(name.String(), decodeValueMap, ti.TableConfig()),
	}, nil
}

func (s *MapSort) Name() Symbol {
	return s.name
}

func (s *MapSort) KeySort() Sort {
	return s.key
}

func (s *MapSort) ValueSort() Sort {
	return s.value
}

// Len returns the number of distinct maps which have been stored.
func (s *MapSort) Len() int {
	return s.maps.Len()
}

func (s *MapSort) Store(m ValueMap) Value {
	return Store(s.maps, s.name, m)
}

func (s *MapSort) Load(v Value) ValueMap {
	return Load(s.maps, s.name, v)
}

func (s *MapSort) RegisterPrimitives(r Registrar) {
	r.AddPrimitive(mapEmpty{newPrimBase("empty"), s})
	r.AddPrimitive(mapInsert{newPrimBase("insert"), s})
	r.AddPrimitive(mapGet{newPrimBase("get"), s})
	r.AddPrimitive(mapRemove{newPrimBase("remove"), s})
	r.AddPrimitive(mapContains{newPrimBase("contains"), s})
	r.AddPrimitive(mapLength{newPrimBase("length"), s})
}

// MakeExpr folds the entries, from the greatest key to the least, into calls to insert.
func (s *MapSort) MakeExpr(v Value) Expr {
	m := s.Load(v)
	var expr Expr = egexpr.NewCall("empty")
	for k, val := range m.Backward() {
		expr = egexpr.NewCall("insert", expr, s.key.MakeExpr(k), s.value.MakeExpr(val))
	}
	return expr
}

func (s *MapSort) String() string {
	return fmt.Sprintf("%v = (Map %v %v)", s.name, s.key.Name(), s.value.Name())
}

// empty: () -> M
type mapEmpty struct {
	primBase
	m *MapSort
}

func (p mapEmpty) Accept(args []Sort) (Sort, bool) {
	if len(args) == 0 {
		return p.m, true
	}
	return nil, false
}

func (p mapEmpty) Apply(args []Value) (Value, bool) {
	return p.m.Store(NewValueMap()), true
}

// insert: (M, K, V) -> M
type mapInsert struct {
	primBase
	m *MapSort
}

func (p mapInsert) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.m, p.m.key, p.m.value) {
		return p.m, true
	}
	return nil, false
}

func (p mapInsert) Apply(args []Value) (Value, bool) {
	m := p.m.Load(args[0])
	m.Insert(args[1], args[2])
	return p.m.Store(m), true
}

// get: (M, K) -> V
type mapGet struct {
	primBase
	m *MapSort
}

func (p mapGet) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.m, p.m.key) {
		return p.m.value, true
	}
	return nil, false
}

func (p mapGet) Apply(args []Value) (Value, bool) {
	return p.m.Load(args[0]).Get(args[1])
}

// remove: (M, K) -> M
type mapRemove struct {
	primBase
	m *MapSort
}

func (p mapRemove) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.m, p.m.key) {
		return p.m, true
	}
	return nil, false
}

func (p mapRemove) Apply(args []Value) (Value, bool) {
	m := p.m.Load(args[0])
	if !m.Remove(args[1]) {
		return args[0], true
	}
	return p.m.Store(m), true
}

// contains: (M, K) -> Unit
type mapContains struct {
	primBase
	m *MapSort
}

func (p mapContains) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.m, p.m.key) {
		return Unit, true
	}
	return nil, false
}

func (p mapContains) Apply(args []Value) (Value, bool) {
	if _, ok := p.m.Load(args[0]).Get(args[1]); ok {
		return egval.Unit(), true
	}
	return Value{}, false
}

// length: (M) -> i64
type mapLength struct {
	primBase
	m *MapSort
}

func (p mapLength) Accept(args []Sort) (Sort, bool) {
	if SameSorts(args, p.m) {
		return I64, true
	}
	return nil, false
}

func (p mapLength) Apply(args []Value) (Value, bool) {
	return egval.FromI64(int64(p.m.Load(args[0]).Len())), true
}
