package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRunHooks{}
	r.OnToolStart(ctx, "Caspo", "bench/tumour")
	r.OnToolComplete(ctx, "Caspo", "bench/tumour", 12, time.Second, nil)
	r.OnToolSkipped(ctx, "CABEAN", "bench/tumour", "out of memory")

	a := NoopAggregateHooks{}
	a.OnAggregateStart(ctx, 3, 5)
	a.OnAggregateComplete(ctx, 10, 8, 2, time.Millisecond)
	a.OnVacuousPair(ctx, "A", "B")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tool")
	c.OnCacheMiss(ctx, "tool")
	c.OnCacheSet(ctx, "tool", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Run().(NoopRunHooks); !ok {
		t.Error("Run() should return NoopRunHooks by default")
	}
	if _, ok := Aggregate().(NoopAggregateHooks); !ok {
		t.Error("Aggregate() should return NoopAggregateHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customRun := &testRunHooks{}
	SetRunHooks(customRun)
	if Run() != customRun {
		t.Error("SetRunHooks should set custom hooks")
	}

	customAggregate := &testAggregateHooks{}
	SetAggregateHooks(customAggregate)
	if Aggregate() != customAggregate {
		t.Error("SetAggregateHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Setting nil keeps the current hooks
	SetRunHooks(nil)
	if Run() != customRun {
		t.Error("SetRunHooks(nil) should not replace hooks")
	}

	Reset()
	if _, ok := Run().(NoopRunHooks); !ok {
		t.Error("Reset() should restore NoopRunHooks")
	}
	if _, ok := Aggregate().(NoopAggregateHooks); !ok {
		t.Error("Reset() should restore NoopAggregateHooks")
	}
}

type testRunHooks struct{ NoopRunHooks }
type testAggregateHooks struct{ NoopAggregateHooks }
type testCacheHooks struct{ NoopCacheHooks }
