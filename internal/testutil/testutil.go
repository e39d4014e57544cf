package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"myceliumweb.org/sortkit"
	"myceliumweb.org/sortkit/egraph"
	"myceliumweb.org/sortkit/internal/stores"
)

func Context(t testing.TB) context.Context {
	ctx := context.Background()
	ctx, cf := context.WithCancel(ctx)
	t.Cleanup(cf)
	l, err := zap.NewDevelopment()
	require.NoError(t, err)
	ctx = logctx.NewContext(ctx, l)
	return ctx
}

func NewStore(t testing.TB) *stores.Mem {
	return stores.NewMem(sortkit.Hash, 1<<21)
}

// NewEGraph returns an EGraph with the default config
func NewEGraph(t testing.TB) *egraph.EGraph {
	return egraph.New(Context(t), egraph.DefaultConfig())
}
