package egcmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egraph"
	"myceliumweb.org/sortkit/egsort"
	"myceliumweb.org/sortkit/egval"
	"myceliumweb.org/sortkit/internal/testutil"
)

func TestParseDecl(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		In  string
		Out Decl
		Err bool
	}{
		{In: "M=Map:i64,String", Out: Decl{Name: "M", Kind: "Map", Args: []egexpr.Expr{egexpr.NewVar("i64"), egexpr.NewVar("String")}}},
		{In: "S=Set:i64", Out: Decl{Name: "S", Kind: "Set", Args: []egexpr.Expr{egexpr.NewVar("i64")}}},
		{In: "E=Empty", Out: Decl{Name: "E", Kind: "Empty"}},
		{In: "Map:i64", Err: true},
		{In: "=Map:i64", Err: true},
		{In: "M=:i64", Err: true},
	}
	for _, tc := range tcs {
		d, err := ParseDecl(tc.In)
		if tc.Err {
			require.Error(t, err, tc.In)
			continue
		}
		require.NoError(t, err, tc.In)
		require.Equal(t, tc.Out, d)
	}
}

func TestRunMapDemo(t *testing.T) {
	t.Parallel()
	for _, vs := range []string{"i64", "String"} {
		ctx := testutil.Context(t)
		eg := testutil.NewEGraph(t)
		s, err := eg.DeclareSort(ctx, "M", "Map", egexpr.NewVar("i64"), egexpr.NewVar(vs))
		require.NoError(t, err)
		m := s.(*egsort.MapSort)

		x, err := RunMapDemo(ctx, eg, m)
		require.NoError(t, err)
		vm := m.Load(x)
		require.Equal(t, 2, vm.Len())
		want, err := literal(m.ValueSort(), 99)
		require.NoError(t, err)
		wantVal, err := eg.EvalAs(ctx, nil, want, m.ValueSort())
		require.NoError(t, err)
		got, ok := vm.Get(egval.FromI64(1))
		require.True(t, ok)
		require.Equal(t, wantVal, got)

		require.Equal(t, x, must(eg.EvalAs(ctx, nil, eg.Extract(egraph.Typed{Value: x, Sort: m}), m)))
	}
}

func TestRunMapDemoNoLiterals(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	eg := testutil.NewEGraph(t)
	s, err := eg.DeclareSort(ctx, "M", "Map", egexpr.NewVar("Unit"), egexpr.NewVar("i64"))
	require.NoError(t, err)
	_, err = RunMapDemo(ctx, eg, s.(*egsort.MapSort))
	require.Error(t, err)
}

func must[T any](x T, err error) T {
	if err != nil {
		panic(err)
	}
	return x
}
