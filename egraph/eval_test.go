package egraph_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egraph"
	"myceliumweb.org/sortkit/egsort"
	"myceliumweb.org/sortkit/egval"
	"myceliumweb.org/sortkit/internal/testutil"
)

type Int = egexpr.Int

func TestEvalMapScenario(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)
	m := declare(t, eg, "M", "Map", "i64", "i64").(*egsort.MapSort)

	eval := func(env egraph.Env, e egexpr.Expr) egraph.Typed {
		x, err := eg.Eval(ctx, env, e)
		require.NoError(t, err)
		return x
	}
	m0 := eval(nil, call("empty"))
	require.Equal(t, m.Name(), m0.Sort.Name())
	m1 := eval(egraph.Env{egval.Intern("m"): m0}, call("insert", v("m"), Int(1), Int(10)))
	m2 := eval(egraph.Env{egval.Intern("m"): m1}, call("insert", v("m"), Int(2), Int(20)))
	env := egraph.Env{egval.Intern("m"): m2}
	require.Equal(t, egval.FromI64(10), eval(env, call("get", v("m"), Int(1))).Value)

	_, err := eg.Eval(ctx, env, call("get", v("m"), Int(3)))
	require.ErrorAs(t, err, &egraph.ErrNoValue{})

	m3 := eval(env, call("insert", v("m"), Int(1), Int(99)))
	env = egraph.Env{egval.Intern("m"): m3}
	require.Equal(t, egval.FromI64(99), eval(env, call("get", v("m"), Int(1))).Value)
	require.Equal(t, egval.FromI64(2), eval(env, call("length", v("m"))).Value)
	require.Equal(t, 2, m.Load(m3.Value).Len())
}

func TestEvalArithmetic(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)

	x, err := eg.Eval(ctx, nil, call("*", call("+", Int(1), Int(2)), Int(-4)))
	require.NoError(t, err)
	require.Equal(t, egval.FromI64(-12), x.Value)
	require.Equal(t, egsort.I64, x.Sort)

	x, err = eg.Eval(ctx, nil, call("+", egexpr.String("ab"), egexpr.String("cd")))
	require.NoError(t, err)
	require.Equal(t, egval.FromSymbol(egval.Intern("abcd")), x.Value)

	_, err = eg.Eval(ctx, nil, call("/", Int(1), Int(0)))
	require.ErrorAs(t, err, &egraph.ErrNoValue{})
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)

	_, err := eg.Eval(ctx, nil, v("x"))
	require.ErrorAs(t, err, &egraph.ErrUnboundVar{})

	_, err = eg.Eval(ctx, nil, call("+", Int(1), egexpr.String("a")))
	var noPrim egraph.ErrNoPrimitive
	require.ErrorAs(t, err, &noPrim)
	require.Equal(t, []egval.Symbol{egval.I64Tag, egval.StringTag}, noPrim.Args)

	// no map sorts have been declared
	_, err = eg.Eval(ctx, nil, call("empty"))
	require.ErrorAs(t, err, &egraph.ErrNoPrimitive{})

	_, err = eg.EvalAs(ctx, nil, Int(1), egsort.String)
	require.ErrorAs(t, err, &egraph.ErrWrongSort{})
}

func TestEvalOverloads(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)
	m := declare(t, eg, "M", "Map", "i64", "i64")
	n := declare(t, eg, "N", "Map", "i64", "String")

	_, err := eg.Eval(ctx, nil, call("empty"))
	var amb egraph.ErrAmbiguous
	require.ErrorAs(t, err, &amb)
	require.ElementsMatch(t, []egval.Symbol{m.Name(), n.Name()}, amb.Sorts)

	// the value sort decides which empty is meant
	x, err := eg.Eval(ctx, nil, call("insert", call("empty"), Int(1), Int(10)))
	require.NoError(t, err)
	require.Equal(t, m.Name(), x.Sort.Name())
	y, err := eg.Eval(ctx, nil, call("insert", call("empty"), Int(1), egexpr.String("ten")))
	require.NoError(t, err)
	require.Equal(t, n.Name(), y.Sort.Name())

	e0, err := eg.EvalAs(ctx, nil, call("empty"), n)
	require.NoError(t, err)
	require.Equal(t, n.Name(), e0.Tag)
}

func TestExtractRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)
	m := declare(t, eg, "M", "Map", "i64", "String")
	// same key and value sorts as M
	m2 := declare(t, eg, "M2", "Map", "i64", "String")

	for _, s := range []egsort.Sort{m, m2} {
		var e egexpr.Expr = call("empty")
		for i := range 10 {
			e = call("insert", e, Int(i*7%5), egexpr.String(fmt.Sprint("v", i)))
		}
		x, err := eg.EvalAs(ctx, nil, e, s)
		require.NoError(t, err)
		require.Equal(t, s.Name(), x.Tag)

		extracted := eg.Extract(egraph.Typed{Value: x, Sort: s})
		y, err := eg.EvalAs(ctx, nil, extracted, s)
		require.NoError(t, err)
		require.Equal(t, x, y)
		// the extracted form is canonical
		require.True(t, egexpr.Equal(extracted, eg.Extract(egraph.Typed{Value: y, Sort: s})))

		_, err = eg.Eval(ctx, nil, extracted)
		require.ErrorAs(t, err, &egraph.ErrAmbiguous{})
	}

	empty, err := eg.EvalAs(ctx, nil, call("empty"), m)
	require.NoError(t, err)
	require.True(t, egexpr.Equal(call("empty"), eg.Extract(egraph.Typed{Value: empty, Sort: m})))
}

func TestNestedMaps(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)
	declare(t, eg, "M", "Map", "i64", "i64")
	outer := declare(t, eg, "Outer", "Map", "i64", "M")

	e := call("insert",
		call("insert", call("empty"), Int(1), call("insert", call("empty"), Int(2), Int(20))),
		Int(3), call("empty"),
	)
	x, err := eg.Eval(ctx, nil, e)
	require.NoError(t, err)
	require.Equal(t, outer.Name(), x.Sort.Name())
	require.Equal(t, 2, outer.(*egsort.MapSort).Load(x.Value).Len())

	y, err := eg.EvalAs(ctx, nil, eg.Extract(x), outer)
	require.NoError(t, err)
	require.Equal(t, x.Value, y)

	inner, err := eg.Eval(ctx, egraph.Env{egval.Intern("o"): x}, call("get", call("get", v("o"), Int(1)), Int(2)))
	require.NoError(t, err)
	require.Equal(t, egval.FromI64(20), inner.Value)
}

func TestEvalSetAndVec(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)
	s := declare(t, eg, "S", "Set", "i64")
	vs := declare(t, eg, "V", "Vec", "String")

	x, err := eg.Eval(ctx, nil, call("set-length",
		call("set-insert", call("set-insert", call("set-empty"), Int(1)), Int(1))))
	require.NoError(t, err)
	require.Equal(t, egval.FromI64(1), x.Value)

	set, err := eg.EvalAs(ctx, nil, call("set-insert", call("set-empty"), Int(4)), s)
	require.NoError(t, err)
	y, err := eg.EvalAs(ctx, nil, eg.Extract(egraph.Typed{Value: set, Sort: s}), s)
	require.NoError(t, err)
	require.Equal(t, set, y)

	x, err = eg.Eval(ctx, nil, call("vec-get",
		call("vec-push", call("vec-push", call("vec-empty"), egexpr.String("a")), egexpr.String("b")), Int(1)))
	require.NoError(t, err)
	require.Equal(t, egval.FromSymbol(egval.Intern("b")), x.Value)
	require.Equal(t, egsort.String, x.Sort)

	vec, err := eg.EvalAs(ctx, nil, call("vec-push", call("vec-empty"), egexpr.String("z")), vs)
	require.NoError(t, err)
	y, err = eg.EvalAs(ctx, nil, eg.Extract(egraph.Typed{Value: vec, Sort: vs}), vs)
	require.NoError(t, err)
	require.Equal(t, vec, y)
}

func TestEvalConcurrent(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)
	declare(t, eg, "M", "Map", "i64", "i64")

	build := func(n int) egexpr.Expr {
		var e egexpr.Expr = call("empty")
		for i := range n {
			e = call("insert", e, Int(i), Int(i*i))
		}
		return e
	}
	want := make([]egval.Value, 20)
	for i := range want {
		x, err := eg.Eval(ctx, nil, build(i))
		require.NoError(t, err)
		want[i] = x.Value
	}

	var grp errgroup.Group
	for w := 0; w < 8; w++ {
		grp.Go(func() error {
			for i := len(want) - 1; i >= 0; i-- {
				x, err := eg.Eval(ctx, nil, build(i))
				if err != nil {
					return err
				}
				if x.Value != want[i] {
					return fmt.Errorf("worker %d: map of size %d was %v, want %v", w, i, x.Value, want[i])
				}
			}
			return nil
		})
	}
	require.NoError(t, grp.Wait())
}

func TestEvalSameResultSort(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)
	m := declare(t, eg, "M", "Map", "i64", "i64").(*egsort.MapSort)
	m2 := declare(t, eg, "M2", "Map", "i64", "i64").(*egsort.MapSort)

	// the map could be an M or an M2, but the result is an i64 either way
	x, err := eg.Eval(ctx, nil, call("get", call("insert", call("empty"), Int(1), Int(10)), Int(1)))
	require.NoError(t, err)
	require.Equal(t, egraph.Typed{Value: egval.FromI64(10), Sort: egsort.I64}, x)
	// the first declared sort was used
	require.Equal(t, 2, m.Len())
	require.Equal(t, 0, m2.Len())

	x, err = eg.Eval(ctx, nil, call("length", call("insert", call("empty"), Int(1), Int(10))))
	require.NoError(t, err)
	require.Equal(t, egval.FromI64(1), x.Value)
	require.Equal(t, 0, m2.Len())

	// the map itself is still ambiguous
	_, err = eg.Eval(ctx, nil, call("insert", call("empty"), Int(1), Int(10)))
	require.ErrorAs(t, err, &egraph.ErrAmbiguous{})
}
