package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcPhase adapts a function to the Phase interface.
type funcPhase struct {
	name string
	fn   func(*Context) error
}

func (p funcPhase) Name() string                 { return p.name }
func (p funcPhase) Provision(ctx *Context) error { return p.fn(ctx) }

func phaseFunc(name string, fn func(*Context) error) Phase {
	return funcPhase{name: name, fn: fn}
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	return &Context{
		Context: context.Background(),
		State:   NewState(),
		Log:     logr.Discard(),
	}
}

func TestRunPhases_Success(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)
	var executed []string

	err := RunPhases(ctx, []Phase{
		phaseFunc("request", func(c *Context) error {
			executed = append(executed, "request")
			c.State.Advance(StateProviderRequested)
			return nil
		}),
		phaseFunc("wait", func(c *Context) error {
			executed = append(executed, "wait")
			c.State.Advance(StateProviderReady)
			return nil
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"request", "wait"}, executed)
	assert.Equal(t, StateProviderReady, ctx.State.Phase)
	assert.Empty(t, ctx.State.Failed)
}

func TestRunPhases_StopsOnError(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)
	var executed []string
	boom := errors.New("boom")

	err := RunPhases(ctx, []Phase{
		phaseFunc("first", func(*Context) error { executed = append(executed, "first"); return nil }),
		phaseFunc("second", func(*Context) error { executed = append(executed, "second"); return boom }),
		phaseFunc("third", func(*Context) error { executed = append(executed, "third"); return nil }),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "second phase failed")
	assert.Equal(t, []string{"first", "second"}, executed)
	assert.Equal(t, "second", ctx.State.Failed)
}

func TestRunPhases_Empty(t *testing.T) {
	t.Parallel()
	assert.NoError(t, RunPhases(newTestContext(t), nil))
}

func TestRunPhases_RecordsMetrics(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t)
	ctx.Metrics = NewMetrics(prometheus.NewRegistry())

	_ = RunPhases(ctx, []Phase{
		phaseFunc("ok", func(c *Context) error { c.State.Advance(StateNetworkAuthorized); return nil }),
		phaseFunc("broken", func(*Context) error { return errors.New("broken") }),
	})

	assert.InDelta(t, 1, testutil.ToFloat64(ctx.Metrics.phaseTotal.WithLabelValues("ok", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(ctx.Metrics.phaseTotal.WithLabelValues("broken", "failure")), 0)
	assert.InDelta(t, float64(StateNetworkAuthorized), testutil.ToFloat64(ctx.Metrics.runState), 0)
}
