package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopRequestHooks

	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnLayoutComplete(_ context.Context, strategy string, _ int, _ time.Duration, _ error) {
	r.add("layout:" + strategy)
}
func (r *recorder) OnCacheHit(_ context.Context, keyType string) { r.add("hit:" + keyType) }
func (r *recorder) OnRateLimited(_ context.Context, route string) { r.add("limited:" + route) }

func TestDefaultsAreNoops(t *testing.T) {
	Reset()
	ctx := context.Background()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T", Cache())
	}
	if _, ok := Request().(NoopRequestHooks); !ok {
		t.Errorf("Request() = %T", Request())
	}

	Pipeline().OnRenderComplete(ctx, "svg", 2048, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "artifact", 1024)
	Request().OnResponse(ctx, "POST", "/api/render", 200, time.Millisecond)
}

func TestInstallAndReset(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	r := &recorder{}
	SetPipelineHooks(r)
	SetCacheHooks(r)
	SetRequestHooks(r)
	SetPipelineHooks(nil)

	Pipeline().OnLayoutComplete(ctx, "grid", 1, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "layout")
	Request().OnRateLimited(ctx, "/api/render")

	want := []string{"layout:grid", "hit:layout", "limited:/api/render"}
	if len(r.events) != len(want) {
		t.Fatalf("events = %v, want %v", r.events, want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, r.events[i], want[i])
		}
	}

	Reset()
	Cache().OnCacheHit(ctx, "artifact")
	if len(r.events) != len(want) {
		t.Error("hooks still called after Reset")
	}
}

func TestConcurrentReads(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()
	r := &recorder{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Cache().OnCacheHit(ctx, "layout")
			}
		}()
	}
	SetCacheHooks(r)
	wg.Wait()
}
