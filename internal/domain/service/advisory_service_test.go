package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"agrotrust/internal/domain/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubGenerator struct {
	text    string
	err     error
	calls   atomic.Int32
	prompts []string
	mu      sync.Mutex
	// release, when set, blocks Generate until closed.
	release chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

func TestAdvisory_NotConfigured(t *testing.T) {
	s := NewAdvisoryService(nil, time.Second)
	ctx := context.Background()

	assert.False(t, s.Configured())
	assert.Equal(t, "Fresh produce directly from the farm.", s.GenerateProductDescription(ctx, "Jos Tomatoes", "Green Valley Organics", "Kaduna"))
	assert.Equal(t, "Case pending manual review.", s.AnalyzeDispute(ctx, "ORD-8821", "late delivery"))
}

func TestAdvisory_EmptyResponse(t *testing.T) {
	s := NewAdvisoryService(&stubGenerator{text: "   "}, time.Second)
	ctx := context.Background()

	assert.Equal(t, "Fresh, verified local produce.", s.GenerateProductDescription(ctx, "Jos Tomatoes", "Green Valley Organics", "Kaduna"))
	assert.Equal(t, "Review required.", s.AnalyzeDispute(ctx, "ORD-8821", "late delivery"))
}

func TestAdvisory_RequestError(t *testing.T) {
	s := NewAdvisoryService(&stubGenerator{err: errors.New("quota exceeded")}, time.Second)
	ctx := context.Background()

	assert.Equal(t, "Fresh, verified local produce.", s.GenerateProductDescription(ctx, "Jos Tomatoes", "Green Valley Organics", "Kaduna"))
	assert.Equal(t, "Manual review required.", s.AnalyzeDispute(ctx, "ORD-8821", "late delivery"))
}

func TestAdvisory_TimeoutIsARequestError(t *testing.T) {
	gen := &stubGenerator{text: "never", release: make(chan struct{})}
	defer close(gen.release)
	s := NewAdvisoryService(gen, 10*time.Millisecond)

	assert.Equal(t, "Manual review required.", s.AnalyzeDispute(context.Background(), "ORD-1", ""))
}

func TestAdvisory_PromptsCarryInputs(t *testing.T) {
	gen := &stubGenerator{text: "Juicy tomatoes from Kaduna."}
	s := NewAdvisoryService(gen, time.Second)
	ctx := context.Background()

	assert.Equal(t, "Juicy tomatoes from Kaduna.", s.GenerateProductDescription(ctx, "Jos Tomatoes", "Green Valley Organics", "Kaduna"))
	s.AnalyzeDispute(ctx, "ORD-9932", "")

	assert.Contains(t, gen.prompts[0], "Jos Tomatoes grown by Green Valley Organics in Kaduna")
	assert.Contains(t, gen.prompts[1], "Order ID: ORD-9932.")
	assert.Contains(t, gen.prompts[1], "Issue reported: Standard quality check.")
}

func TestDescribeProduct_CachesGeneratedText(t *testing.T) {
	gen := &stubGenerator{text: "Crisp and fresh."}
	s := NewAdvisoryService(gen, time.Second)
	p := &entity.Product{ID: "p1", Name: "Ugu Leaves", FarmerName: "Green Valley Organics", State: "Kaduna"}

	assert.Equal(t, "Crisp and fresh.", s.DescribeProduct(context.Background(), p))
	assert.Equal(t, "Crisp and fresh.", s.DescribeProduct(context.Background(), p))
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestDescribeProduct_FallbackIsNotCached(t *testing.T) {
	gen := &stubGenerator{err: errors.New("unavailable")}
	s := NewAdvisoryService(gen, time.Second)
	p := &entity.Product{ID: "p1", Name: "Ugu Leaves"}

	assert.Equal(t, DescriptionFallback, s.DescribeProduct(context.Background(), p))
	assert.Equal(t, DescriptionFallback, s.DescribeProduct(context.Background(), p))
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestDescribeProduct_StoredDescriptionWins(t *testing.T) {
	gen := &stubGenerator{text: "generated"}
	s := NewAdvisoryService(gen, time.Second)

	got := s.DescribeProduct(context.Background(), &entity.Product{ID: "p1", Description: "Hand picked."})
	assert.Equal(t, "Hand picked.", got)
	assert.Zero(t, gen.calls.Load())
}

func TestDescribeProduct_SharesInFlightCalls(t *testing.T) {
	gen := &stubGenerator{text: "Sweet golden corn.", release: make(chan struct{})}
	s := NewAdvisoryService(gen, time.Second)
	p := &entity.Product{ID: "p2", Name: "Sweet Corn"}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.DescribeProduct(context.Background(), p)
		}(i)
	}

	assert.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	for _, r := range results {
		assert.True(t, strings.HasPrefix(r, "Sweet golden corn."))
	}
	assert.Equal(t, int32(1), gen.calls.Load())
}
