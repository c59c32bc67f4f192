package motivation

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

type stubGenerator struct {
	mu    sync.Mutex
	calls []Request
	line  string
	err   error
}

func (g *stubGenerator) Generate(_ context.Context, req Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	return g.line, g.err
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []LookupEvent
}

func (o *recordingObserver) OnLookup(_ context.Context, e LookupEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func testCacheConfig() Config {
	return Config{CacheSize: 16}
}

func TestCache_HitSkipsGenerator(t *testing.T) {
	gen := &stubGenerator{line: "📦 Boxes stacking up!"}
	obs := &recordingObserver{}
	c := NewCache(testCacheConfig(), gen, obs)
	req := Request{TaskTitle: "Move house", Progress: progress(1, 4)}

	assert.Equal(t, "📦 Boxes stacking up!", c.Get(context.Background(), req))
	assert.Equal(t, "📦 Boxes stacking up!", c.Get(context.Background(), req))

	assert.Equal(t, 1, gen.callCount())
	require.Len(t, obs.events, 2)
	assert.Equal(t, OutcomeGenerated, obs.events[0].Outcome)
	assert.Equal(t, OutcomeHit, obs.events[1].Outcome)
}

func TestCache_KeyIncludesCompletedCount(t *testing.T) {
	gen := &stubGenerator{line: "📦 Boxes stacking up!"}
	c := NewCache(testCacheConfig(), gen, nil)

	// Same bucket (20) with different completed counts are distinct keys.
	c.Get(context.Background(), Request{TaskTitle: "t", Progress: domain.Progress{Completed: 1, Total: 5, Percent: 20}})
	c.Get(context.Background(), Request{TaskTitle: "t", Progress: domain.Progress{Completed: 2, Total: 10, Percent: 20}})

	assert.Equal(t, 2, gen.callCount())
	assert.Equal(t, 2, c.Len())
}

func TestCache_FailureCachesFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream down")}
	obs := &recordingObserver{}
	c := NewCache(testCacheConfig(), gen, obs)
	req := Request{TaskTitle: "Move house", Progress: progress(4, 4)}

	first := c.Get(context.Background(), req)
	second := c.Get(context.Background(), req)

	assert.Equal(t, Fallback(req), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.callCount(), "fallback must be cached")
	require.Len(t, obs.events, 2)
	assert.Equal(t, OutcomeFallback, obs.events[0].Outcome)
	assert.EqualError(t, obs.events[0].Err, "upstream down")
}

func TestCache_NilGeneratorFallsBack(t *testing.T) {
	c := NewCache(testCacheConfig(), nil, nil)
	req := Request{TaskTitle: "t", Progress: progress(1, 2)}
	assert.Equal(t, Fallback(req), c.Get(context.Background(), req))
}

func TestCache_SizeBound(t *testing.T) {
	gen := &stubGenerator{line: "🧹 Sweeping through!"}
	c := NewCache(Config{CacheSize: 2}, gen, nil)

	for i := 1; i <= 4; i++ {
		c.Get(context.Background(), Request{TaskTitle: "t", Progress: progress(i, 4)})
	}
	assert.Equal(t, 2, c.Len())

	// Oldest key was evicted and regenerates.
	c.Get(context.Background(), Request{TaskTitle: "t", Progress: progress(1, 4)})
	assert.Equal(t, 5, gen.callCount())
}

func TestLogObserver_WritesLine(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)
	obs.OnLookup(context.Background(), LookupEvent{Key: Key{Bucket: 20, Completed: 1}, Outcome: OutcomeFallback, Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, "motivation_lookup")
	assert.Contains(t, out, "outcome=fallback")
	assert.Contains(t, out, "bucket=20")
	assert.Contains(t, out, "error=boom")
}

func TestNewLogObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopObserver{}, NewLogObserver(nil))
}

// blockingGenerator holds every call until release is closed.
type blockingGenerator struct {
	stubGenerator
	release chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, req Request) (string, error) {
	<-g.release
	return g.stubGenerator.Generate(ctx, req)
}

func TestCache_ConcurrentMissesShareOneGeneration(t *testing.T) {
	gen := &blockingGenerator{stubGenerator: stubGenerator{line: "🧹 Floor is showing again"}, release: make(chan struct{})}
	c := NewCache(testCacheConfig(), gen, nil)
	req := Request{TaskTitle: "Clean garage", Progress: progress(1, 2)}

	const callers = 8
	results := make(chan string, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.Get(context.Background(), req)
		}()
	}

	close(gen.release)
	wg.Wait()
	close(results)

	for line := range results {
		assert.Equal(t, "🧹 Floor is showing again", line)
	}
	assert.Equal(t, 1, gen.callCount())
	assert.Equal(t, 1, c.Len())
}

func TestKey_String(t *testing.T) {
	k := KeyOf(Request{TaskTitle: "Move house", Progress: progress(1, 4)})
	assert.Equal(t, `"Move house"/25/1`, k.String())
}
