package egcmd

import (
	"context"
	"fmt"
	"slices"

	"go.brendoncarroll.net/star"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egraph"
	"myceliumweb.org/sortkit/egsort"
	"myceliumweb.org/sortkit/egval"
)

var keyParam = star.Param[string]{
	Name:    "key",
	Default: star.Ptr("i64"),
	Parse:   star.ParseString,
}

var valueParam = star.Param[string]{
	Name:    "value",
	Default: star.Ptr("i64"),
	Parse:   star.ParseString,
}

var mapDemo = star.Command{
	Metadata: star.Metadata{
		Short: "build a map by inserting entries, then print it as an expression",
	},
	Flags: []star.IParam{keyParam, valueParam},
	F: func(c star.Context) error {
		eg := egraph.New(c, egraph.DefaultConfig())
		m, err := eg.DeclareSort(c, "M", "Map", egexpr.NewVar(keyParam.Load(c)), egexpr.NewVar(valueParam.Load(c)))
		if err != nil {
			return err
		}
		ms := m.(*egsort.MapSort)
		x, err := RunMapDemo(c, eg, ms)
		if err != nil {
			return err
		}
		c.Printf("%v\n", m)
		c.Printf("%v\n", egexpr.PrintString(eg.Extract(egraph.Typed{Value: x, Sort: m})))
		c.Printf("length: %d\n", ms.Load(x).Len())
		return nil
	},
}

// RunMapDemo inserts entries 1 and 2 into an empty map, then overwrites entry 1.
// The same entries are inserted in several orders concurrently, and all the results
// must be the same interned Value.
func RunMapDemo(ctx context.Context, eg *egraph.EGraph, m *egsort.MapSort) (egval.Value, error) {
	type entry struct {
		k, v egexpr.Expr
	}
	var entries []entry
	for _, kv := range [][2]int{{1, 10}, {2, 20}, {1, 99}} {
		k, err := literal(m.KeySort(), kv[0])
		if err != nil {
			return egval.Value{}, err
		}
		v, err := literal(m.ValueSort(), kv[1])
		if err != nil {
			return egval.Value{}, err
		}
		entries = append(entries, entry{k, v})
	}
	orders := [][]int{{0, 1, 2}, {1, 0, 2}, {0, 2, 1}}
	results := make([]egval.Value, len(orders))
	grp := errgroup.Group{}
	for i, order := range orders {
		grp.Go(func() error {
			var e egexpr.Expr = egexpr.NewCall("empty")
			for _, j := range order {
				e = egexpr.NewCall("insert", e, entries[j].k, entries[j].v)
			}
			x, err := eg.EvalAs(ctx, nil, e, m)
			if err != nil {
				return err
			}
			results[i] = x
			logctx.Debug(ctx, "built map", zap.Ints("order", order), zap.Stringer("value", x))
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return egval.Value{}, err
	}
	if i := slices.IndexFunc(results, func(x egval.Value) bool { return x != results[0] }); i >= 0 {
		return egval.Value{}, fmt.Errorf("insertion orders %v and %v produced different maps", orders[0], orders[i])
	}
	return results[0], nil
}
