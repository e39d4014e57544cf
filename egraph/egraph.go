// package egraph is the part of the rewrite engine which declares sorts,
// and type checks and evaluates expressions over their primitives.
package egraph

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egsort"
	"myceliumweb.org/sortkit/egval"
	"myceliumweb.org/sortkit/internal/intern"
)

type (
	Symbol    = egval.Symbol
	Value     = egval.Value
	Sort      = egsort.Sort
	Primitive = egsort.Primitive
	Expr      = egexpr.Expr
)

type Config struct {
	// Tables configures the interning tables of aggregate sorts.
	Tables egsort.TableConfig
}

func DefaultConfig() Config {
	return Config{
		Tables: intern.DefaultConfig(),
	}
}

// Typed is a Value along with its Sort
type Typed struct {
	Value Value
	Sort  Sort
}

var (
	_ egsort.TypeInfo  = &EGraph{}
	_ egsort.Registrar = &EGraph{}
)

// EGraph holds the sorts and primitives of one engine instance.
// It is safe for concurrent use.
type EGraph struct {
	cfg Config

	mu    sync.RWMutex
	kinds map[Symbol]egsort.Factory
	sorts map[Symbol]Sort
	order []Symbol
	prims map[Symbol][]Primitive
}

// New returns an EGraph with the Unit, i64 and String sorts,
// and the Map, Set and Vec kinds.
func New(ctx context.Context, cfg Config) *EGraph {
	eg := &EGraph{
		cfg:   cfg,
		kinds: map[Symbol]egsort.Factory{},
		sorts: map[Symbol]Sort{},
		prims: map[Symbol][]Primitive{},
	}
	for _, s := range []Sort{egsort.Unit, egsort.I64, egsort.String} {
		if err := eg.AddSort(ctx, s); err != nil {
			panic(err)
		}
	}
	eg.AddSortKind(ctx, "Map", egsort.NewMapSort)
	eg.AddSortKind(ctx, "Set", egsort.NewSetSort)
	eg.AddSortKind(ctx, "Vec", egsort.NewVecSort)
	return eg
}

// AddSortKind makes a kind of sort available to DeclareSort.
// It replaces any factory previously registered for the kind.
func (eg *EGraph) AddSortKind(ctx context.Context, kind string, f egsort.Factory) {
	eg.mu.Lock()
	defer eg.mu.Unlock()
	eg.kinds[egval.Intern(kind)] = f
	logctx.Debug(ctx, "added sort kind", zap.String("kind", kind))
}

// AddSort adds s to the engine, and registers its primitives.
func (eg *EGraph) AddSort(ctx context.Context, s Sort) error {
	eg.mu.Lock()
	if _, exists := eg.sorts[s.Name()]; exists {
		eg.mu.Unlock()
		return ErrSortExists{Name: s.Name()}
	}
	eg.sorts[s.Name()] = s
	eg.order = append(eg.order, s.Name())
	eg.mu.Unlock()

	// registration calls back into AddPrimitive
	s.RegisterPrimitives(eg)
	logctx.Info(ctx, "declared sort", zap.Stringer("name", s.Name()))
	return nil
}

// DeclareSort creates a sort of kind with the type arguments args, and adds it to the engine.
// i.e. DeclareSort(ctx, "M", "Map", NewVar("i64"), NewVar("String"))
func (eg *EGraph) DeclareSort(ctx context.Context, name, kind string, args ...Expr) (Sort, error) {
	eg.mu.RLock()
	f, exists := eg.kinds[egval.Intern(kind)]
	eg.mu.RUnlock()
	if !exists {
		return nil, ErrUnknownKind{Kind: kind}
	}
	s, err := f(eg, egval.Intern(name), args)
	if err != nil {
		return nil, err
	}
	if err := eg.AddSort(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (eg *EGraph) LookupSort(name Symbol) (Sort, bool) {
	eg.mu.RLock()
	defer eg.mu.RUnlock()
	s, ok := eg.sorts[name]
	return s, ok
}

// Sorts returns all the sorts in the order they were added.
func (eg *EGraph) Sorts() []Sort {
	eg.mu.RLock()
	defer eg.mu.RUnlock()
	ret := make([]Sort, len(eg.order))
	for i, name := range eg.order {
		ret[i] = eg.sorts[name]
	}
	return ret
}

func (eg *EGraph) TableConfig() egsort.TableConfig {
	return eg.cfg.Tables
}

func (eg *EGraph) AddPrimitive(p Primitive) {
	eg.mu.Lock()
	defer eg.mu.Unlock()
	eg.prims[p.Name()] = append(eg.prims[p.Name()], p)
}

// Primitives returns the primitives named name, in the order they were added.
func (eg *EGraph) Primitives(name Symbol) []Primitive {
	eg.mu.RLock()
	defer eg.mu.RUnlock()
	return slices.Clone(eg.prims[name])
}

// PrimitiveNames returns the names of all the primitives, sorted.
func (eg *EGraph) PrimitiveNames() []Symbol {
	eg.mu.RLock()
	defer eg.mu.RUnlock()
	ret := make([]Symbol, 0, len(eg.prims))
	for name := range eg.prims {
		ret = append(ret, name)
	}
	slices.SortFunc(ret, func(a, b Symbol) int {
		return cmp.Compare(a.String(), b.String())
	})
	return ret
}

// Resolve returns the first primitive named name which accepts args, and its output sort.
func (eg *EGraph) Resolve(name Symbol, args []Sort) (Primitive, Sort, error) {
	for _, p := range eg.Primitives(name) {
		if out, ok := p.Accept(args); ok {
			return p, out, nil
		}
	}
	return nil, nil, ErrNoPrimitive{Name: name, Args: egsort.Names(args)}
}

// Call resolves a primitive for the sorts of args and applies it.
// Call returns false if the primitive has no result.
func (eg *EGraph) Call(name Symbol, args ...Typed) (Typed, bool, error) {
	sorts := make([]Sort, len(args))
	vals := make([]Value, len(args))
	for i := range args {
		sorts[i], vals[i] = args[i].Sort, args[i].Value
	}
	p, out, err := eg.Resolve(name, sorts)
	if err != nil {
		return Typed{}, false, err
	}
	v, ok := p.Apply(vals)
	if !ok {
		return Typed{}, false, nil
	}
	return Typed{Value: v, Sort: out}, true, nil
}

// Extract returns an expression which evaluates to x.
func (eg *EGraph) Extract(x Typed) Expr {
	return x.Sort.MakeExpr(x.Value)
}
