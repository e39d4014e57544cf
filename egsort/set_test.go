package egsort_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egsort"
	"myceliumweb.org/sortkit/egval"
)

func TestSet(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	s := r.declare(t, "S", egsort.NewSetSort, "i64").(*egsort.SetSort)
	asS := func(v egval.Value) typed { return typed{v, s} }

	s0 := r.mustCall(t, "set-empty")
	s1 := r.mustCall(t, "set-insert", asS(s0), i64(3))
	s2 := r.mustCall(t, "set-insert", asS(s1), i64(1))
	require.Equal(t, s2, r.mustCall(t, "set-insert", asS(s2), i64(3)))
	require.Equal(t, egval.FromI64(2), r.mustCall(t, "set-length", asS(s2)))

	require.Equal(t, egval.Unit(), r.mustCall(t, "set-contains", asS(s2), i64(1)))
	_, ok := r.call(t, "set-contains", asS(s1), i64(1))
	require.False(t, ok)

	require.Equal(t, s1, r.mustCall(t, "set-remove", asS(s2), i64(1)))
	require.Equal(t, s1, r.mustCall(t, "set-remove", asS(s1), i64(7)))

	other := r.mustCall(t, "set-insert", asS(s0), i64(1))
	require.Equal(t, s2, r.mustCall(t, "set-union", asS(s1), asS(other)))

	require.Equal(t, "(set-insert (set-insert (set-empty) 1) 3)", egexpr.PrintString(s.MakeExpr(s2)))
}

func TestSetInterning(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	s := r.declare(t, "S", egsort.NewSetSort, "String").(*egsort.SetSort)
	a := egval.FromSymbol(egval.Intern("a"))
	b := egval.FromSymbol(egval.Intern("b"))

	x := s.Store(egsort.NewValueSet(a, b))
	y := s.Store(egsort.NewValueSet(b, a, b))
	require.Equal(t, x, y)
	require.Equal(t, 2, s.Load(x).Len())
	require.True(t, s.Load(x).Contains(a))
}

func TestSetDeclare(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	_, err := egsort.NewSetSort(r, egval.Intern("S"), nil)
	require.ErrorAs(t, err, &egsort.ErrBadDeclaration{})
	_, err = egsort.NewSetSort(r, egval.Intern("S"), []egexpr.Expr{egexpr.NewVar("Missing")})
	require.ErrorAs(t, err, &egsort.ErrUndefinedSort{})
}

func TestSetZeroValue(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	s := r.declare(t, "S", egsort.NewSetSort, "i64").(*egsort.SetSort)

	var x egsort.ValueSet
	require.Equal(t, 0, x.Len())
	require.False(t, x.Contains(egval.FromI64(1)))
	require.False(t, x.Remove(egval.FromI64(1)))
	require.Equal(t, s.Store(egsort.NewValueSet()), s.Store(x))

	x.Insert(egval.FromI64(1))
	require.True(t, x.Contains(egval.FromI64(1)))
	require.Equal(t, s.Store(egsort.NewValueSet(egval.FromI64(1))), s.Store(x))
}
