// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/source-scout/pkg/types"
)

// funcSearcher lets each test script the lookup behavior.
type funcSearcher struct {
	calls  atomic.Int64
	lookup func(ctx context.Context, topic string) (types.SearchResult, error)
}

func (f *funcSearcher) Lookup(ctx context.Context, topic string) (types.SearchResult, error) {
	f.calls.Add(1)
	return f.lookup(ctx, topic)
}

func fixedSearcher(result types.SearchResult, err error) *funcSearcher {
	return &funcSearcher{lookup: func(context.Context, string) (types.SearchResult, error) {
		return result, err
	}}
}

func TestSubmitBlankTopicIsNoOp(t *testing.T) {
	searcher := fixedSearcher(types.SearchResult{Text: "should not run"}, nil)
	c := NewController(searcher, nil)

	for _, topic := range []string{"", "   ", "\n\t "} {
		if _, ok := c.Submit(context.Background(), topic); ok {
			t.Errorf("Submit(%q) accepted, want no-op", topic)
		}
	}

	if got := c.State(); got.Phase != PhaseIdle || got.Seq != 0 {
		t.Errorf("state after blank submits = %+v, want untouched idle", got)
	}
	if n := searcher.calls.Load(); n != 0 {
		t.Errorf("searcher calls = %d, want 0", n)
	}
}

func TestSubmitSuccess(t *testing.T) {
	result := types.SearchResult{
		Text: "**Paper A**...",
		Citations: []types.Citation{
			{URI: "https://example.org/a", Title: "Paper A"},
			{URI: "https://example.org/b", Title: "Paper B"},
		},
	}
	c := NewController(fixedSearcher(result, nil), nil)

	seq, ok := c.Submit(context.Background(), "CRISPR applications 2024")
	if !ok {
		t.Fatal("Submit() rejected a valid topic")
	}

	got, err := c.Wait(context.Background(), seq)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if got.Phase != PhaseSucceeded {
		t.Fatalf("phase = %q, want succeeded", got.Phase)
	}
	if got.Result == nil || got.Result.Text != "**Paper A**..." {
		t.Errorf("result = %+v, want markdown text unchanged", got.Result)
	}
	if len(got.Result.Citations) != 2 {
		t.Errorf("len(citations) = %d, want 2", len(got.Result.Citations))
	}
}

func TestSubmitFailure(t *testing.T) {
	c := NewController(fixedSearcher(types.SearchResult{}, errors.New("quota exceeded")), nil)

	seq, _ := c.Submit(context.Background(), "topic")
	got, err := c.Wait(context.Background(), seq)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if got.Phase != PhaseFailed {
		t.Fatalf("phase = %q, want failed", got.Phase)
	}
	if got.Message != "quota exceeded" {
		t.Errorf("message = %q, want the backend error text", got.Message)
	}
	if got.Result != nil {
		t.Errorf("result = %+v, want nil in failed state", got.Result)
	}
}

func TestResubmitClearsPriorPayload(t *testing.T) {
	release := make(chan struct{})
	first := true
	var mu sync.Mutex
	searcher := &funcSearcher{lookup: func(context.Context, string) (types.SearchResult, error) {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()
		if isFirst {
			return types.SearchResult{Text: "old answer"}, nil
		}
		<-release
		return types.SearchResult{Text: "new answer"}, nil
	}}
	c := NewController(searcher, nil)

	seq1, _ := c.Submit(context.Background(), "topic")
	if _, err := c.Wait(context.Background(), seq1); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	// Second submit: loading must be visible with the old result gone
	// before the new lookup resolves.
	seq2, _ := c.Submit(context.Background(), "topic")
	mid := c.State()
	if mid.Phase != PhaseLoading || mid.Seq != seq2 {
		t.Fatalf("state during reload = %+v, want loading under seq %d", mid, seq2)
	}
	if mid.Result != nil || mid.Message != "" {
		t.Errorf("state during reload = %+v, stale payload must be cleared", mid)
	}

	close(release)
	got, err := c.Wait(context.Background(), seq2)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if got.Result == nil || got.Result.Text != "new answer" {
		t.Errorf("result = %+v, want the new answer", got.Result)
	}
}

func TestStaleResponseDropped(t *testing.T) {
	releaseFirst := make(chan struct{})
	searcher := &funcSearcher{lookup: func(_ context.Context, topic string) (types.SearchResult, error) {
		if topic == "slow topic" {
			<-releaseFirst
			return types.SearchResult{Text: "slow stale answer"}, nil
		}
		return types.SearchResult{Text: "fast fresh answer"}, nil
	}}
	c := NewController(searcher, nil)

	seq1, _ := c.Submit(context.Background(), "slow topic")
	seq2, _ := c.Submit(context.Background(), "fast topic")

	got, err := c.Wait(context.Background(), seq2)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if got.Result.Text != "fast fresh answer" {
		t.Fatalf("result = %q, want the newer submission's answer", got.Result.Text)
	}

	// Let the superseded lookup resolve: its outcome must be dropped.
	close(releaseFirst)
	if _, err := c.Wait(context.Background(), seq1); !errors.Is(err, ErrSuperseded) {
		t.Errorf("Wait(seq1) error = %v, want ErrSuperseded", err)
	}

	deadline := time.After(500 * time.Millisecond)
	for {
		s := c.State()
		if s.Seq == seq2 && s.Result != nil && s.Result.Text == "fast fresh answer" {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("state = %+v, stale response overwrote the newer result", s)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestWaitContextCancelled(t *testing.T) {
	never := make(chan struct{})
	searcher := &funcSearcher{lookup: func(context.Context, string) (types.SearchResult, error) {
		<-never
		return types.SearchResult{}, nil
	}}
	c := NewController(searcher, nil)

	seq, _ := c.Submit(context.Background(), "topic")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Wait(ctx, seq); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
	close(never)
}

func TestSequenceIncreasesPerSubmit(t *testing.T) {
	c := NewController(fixedSearcher(types.SearchResult{Text: "x"}, nil), nil)

	var prev uint64
	for i := 0; i < 3; i++ {
		seq, ok := c.Submit(context.Background(), "topic")
		if !ok {
			t.Fatal("Submit() rejected a valid topic")
		}
		if seq != prev+1 {
			t.Errorf("seq = %d, want %d", seq, prev+1)
		}
		prev = seq
		if _, err := c.Wait(context.Background(), seq); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
}
