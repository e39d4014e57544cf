package egraph

import (
	"context"
	"fmt"

	"go.brendoncarroll.net/exp/slices2"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egsort"
	"myceliumweb.org/sortkit/egval"
)

// Env binds variables to Values
type Env map[Symbol]Typed

// plan is one way of typing an expression.
// Leaves have a value, calls have a primitive which accepted the sorts of args.
type plan struct {
	expr Expr
	sort Sort

	val Value

	prim Primitive
	args []*plan
}

// Eval type checks e, then evaluates it.
// Each call is resolved to a primitive using the sorts of its arguments.
// If e could have more than one sort, ErrAmbiguous is returned.
// Typings of a subexpression which lead to the same sort for e are not ambiguous:
// the one using the earliest registered sorts and primitives is evaluated.
func (eg *EGraph) Eval(ctx context.Context, env Env, e Expr) (Typed, error) {
	plans, err := eg.typeCheck(env, e)
	if err != nil {
		return Typed{}, err
	}
	if len(plans) > 1 {
		err := ErrAmbiguous{Expr: e, Sorts: planSorts(plans)}
		logctx.Debug(ctx, "ambiguous expression", zap.Error(err))
		return Typed{}, err
	}
	v, err := eg.exec(plans[0])
	if err != nil {
		return Typed{}, err
	}
	return Typed{Value: v, Sort: plans[0].sort}, nil
}

// EvalAs is like Eval, but resolves e so that it has the sort want.
func (eg *EGraph) EvalAs(ctx context.Context, env Env, e Expr, want Sort) (Value, error) {
	plans, err := eg.typeCheck(env, e)
	if err != nil {
		return Value{}, err
	}
	for _, p := range plans {
		if p.sort.Name() == want.Name() {
			return eg.exec(p)
		}
	}
	return Value{}, ErrWrongSort{Expr: e, Want: want.Name(), Have: planSorts(plans)}
}

// typeCheck returns the possible typings of e, at most one for each sort.
// Plans are ordered by the registration order of the sorts and primitives they use.
// It never returns an empty slice without an error.
func (eg *EGraph) typeCheck(env Env, e Expr) ([]*plan, error) {
	switch e := e.(type) {
	case egexpr.Var:
		x, ok := env[e.Name()]
		if !ok {
			return nil, ErrUnboundVar{Name: e.Name()}
		}
		return []*plan{{expr: e, sort: x.Sort, val: x.Value}}, nil
	case egexpr.Int:
		return eg.literal(e, egval.I64Tag, egval.FromI64(int64(e)))
	case egexpr.String:
		return eg.literal(e, egval.StringTag, egval.FromSymbol(egval.Intern(string(e))))
	case egexpr.Unit:
		return eg.literal(e, egval.UnitTag, egval.Unit())
	case egexpr.Call:
		return eg.typeCheckCall(env, e)
	default:
		return nil, fmt.Errorf("cannot evaluate expression of type %T", e)
	}
}

func (eg *EGraph) literal(e Expr, sortName Symbol, v Value) ([]*plan, error) {
	s, ok := eg.LookupSort(sortName)
	if !ok {
		return nil, egsort.ErrUndefinedSort{Name: sortName}
	}
	return []*plan{{expr: e, sort: s, val: v}}, nil
}

func (eg *EGraph) typeCheckCall(env Env, e egexpr.Call) ([]*plan, error) {
	argPlans := make([][]*plan, len(e.Args))
	for i, arg := range e.Args {
		ps, err := eg.typeCheck(env, arg)
		if err != nil {
			return nil, err
		}
		argPlans[i] = ps
	}
	prims := eg.Primitives(e.Head)

	var ret []*plan
	seen := map[Symbol]bool{}
	var firstSorts []Sort
	forEachCombo(argPlans, func(args []*plan) {
		sorts := slices2.Map(args, func(p *plan) Sort { return p.sort })
		if firstSorts == nil {
			firstSorts = sorts
		}
		for _, p := range prims {
			out, ok := p.Accept(sorts)
			if !ok || seen[out.Name()] {
				continue
			}
			seen[out.Name()] = true
			ret = append(ret, &plan{
				expr: e,
				sort: out,
				prim: p,
				args: append([]*plan{}, args...),
			})
		}
	})
	if len(ret) == 0 {
		return nil, ErrNoPrimitive{Name: e.Head, Args: egsort.Names(firstSorts)}
	}
	return ret, nil
}

// forEachCombo calls fn with every way of choosing one element from each of xss.
// The slice passed to fn is reused between calls.
func forEachCombo[T any](xss [][]T, fn func([]T)) {
	idxs := make([]int, len(xss))
	cur := make([]T, len(xss))
	for {
		for i := range xss {
			cur[i] = xss[i][idxs[i]]
		}
		fn(cur)
		// advance the last position, carrying into earlier positions
		i := len(xss) - 1
		for ; i >= 0; i-- {
			idxs[i]++
			if idxs[i] < len(xss[i]) {
				break
			}
			idxs[i] = 0
		}
		if i < 0 {
			return
		}
	}
}

func (eg *EGraph) exec(p *plan) (Value, error) {
	if p.prim == nil {
		return p.val, nil
	}
	vals := make([]Value, len(p.args))
	for i, arg := range p.args {
		v, err := eg.exec(arg)
		if err != nil {
			return Value{}, err
		}
		vals[i] = v
	}
	v, ok := p.prim.Apply(vals)
	if !ok {
		return Value{}, ErrNoValue{Expr: p.expr}
	}
	return v, nil
}

func planSorts(ps []*plan) []Symbol {
	return slices2.Map(ps, func(p *plan) Symbol { return p.sort.Name() })
}
