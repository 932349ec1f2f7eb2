package batch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/boldstep/coursefetch"
	"github.com/boldstep/coursefetch/batch"
	"github.com/boldstep/coursefetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Batch Extraction Run
// The runner walks the URL list in order, spaces dispatches through the
// gate, and emits one outcome event per URL as it resolves.

func alwaysSucceed() *mock.Provider {
	return &mock.Provider{
		ExtractFn: func(_ context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
			return &coursefetch.Course{Name: "Course at " + req.URL, SourceURL: req.URL}, nil
		},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("emits one event per URL in input order", func(t *testing.T) {
		t.Parallel()

		runner := &batch.Runner{
			Client: batch.NewClient(alwaysSucceed()),
			Gate:   batch.NewGate(0),
		}

		urls := []string{
			"https://uni-a.edu/course/1",
			"https://uni-b.edu/course/2",
			"https://uni-c.edu/course/3",
		}

		var events []coursefetch.Event
		state, err := runner.Run(context.Background(), urls, func(e coursefetch.Event) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, len(urls))
		for i, e := range events {
			assert.Equal(t, i, e.Index)
			assert.Equal(t, len(urls), e.Total)
			assert.Equal(t, urls[i], e.Outcome.URL)
		}
		assert.True(t, state.Done())
		assert.Equal(t, 3, state.SuccessCount)
	})

	t.Run("empty input completes immediately with no events", func(t *testing.T) {
		t.Parallel()

		runner := &batch.Runner{
			Client: batch.NewClient(alwaysSucceed()),
			Gate:   batch.NewGate(0),
		}

		called := false
		state, err := runner.Run(context.Background(), nil, func(coursefetch.Event) {
			called = true
		})

		require.NoError(t, err)
		assert.False(t, called)
		assert.Equal(t, 0, state.Total)
		assert.True(t, state.Done())
	})

	t.Run("a failed URL never blocks subsequent URLs", func(t *testing.T) {
		t.Parallel()

		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				if req.URL == "https://uni-a.edu/broken" {
					return nil, coursefetch.Errorf(coursefetch.EUNAVAILABLE, "page fetch failed")
				}
				return &coursefetch.Course{Name: "OK", SourceURL: req.URL}, nil
			},
		}
		runner := &batch.Runner{
			Client: batch.NewClient(provider),
			Gate:   batch.NewGate(0),
		}

		urls := []string{"https://uni-a.edu/broken", "https://uni-a.edu/fine"}

		var events []coursefetch.Event
		state, err := runner.Run(context.Background(), urls, func(e coursefetch.Event) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, coursefetch.OutcomeFailure, events[0].Outcome.Kind)
		assert.Equal(t, coursefetch.OutcomeSuccess, events[1].Outcome.Kind)
		assert.Equal(t, 1, state.SuccessCount)
		assert.Equal(t, 1, state.FailureCount)
	})

	t.Run("duplicate URLs are processed independently", func(t *testing.T) {
		t.Parallel()

		// First occurrence succeeds, second times out (transient fault).
		var mu sync.Mutex
		seen := 0
		provider := &mock.Provider{
			ExtractFn: func(ctx context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				mu.Lock()
				seen++
				first := seen == 1
				mu.Unlock()
				if first {
					return &coursefetch.Course{Name: "Course 1"}, nil
				}
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		runner := &batch.Runner{
			Client: batch.NewClient(provider, batch.WithTimeout(50*time.Millisecond)),
			Gate:   batch.NewGate(0),
		}

		urls := []string{"https://uni-a.edu/course/1", "https://uni-a.edu/course/1"}

		var kinds []coursefetch.OutcomeKind
		_, err := runner.Run(context.Background(), urls, func(e coursefetch.Event) {
			kinds = append(kinds, e.Outcome.Kind)
		})

		require.NoError(t, err)
		assert.Equal(t, []coursefetch.OutcomeKind{
			coursefetch.OutcomeSuccess,
			coursefetch.OutcomeTimeout,
		}, kinds)
	})

	t.Run("malformed URL is recorded without dispatch", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var dispatched []string
		provider := &mock.Provider{
			ExtractFn: func(ctx context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				mu.Lock()
				dispatched = append(dispatched, req.URL)
				first := len(dispatched) == 1
				mu.Unlock()
				if first {
					return &coursefetch.Course{Name: "Course 1"}, nil
				}
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		runner := &batch.Runner{
			Client: batch.NewClient(provider, batch.WithTimeout(50*time.Millisecond)),
			Gate:   batch.NewGate(0),
		}

		urls := []string{
			"https://uni-a.edu/course/1",
			"https://uni-a.edu/course/1",
			"invalid-url",
		}

		var kinds []coursefetch.OutcomeKind
		state, err := runner.Run(context.Background(), urls, func(e coursefetch.Event) {
			kinds = append(kinds, e.Outcome.Kind)
		})

		require.NoError(t, err)
		assert.Equal(t, []coursefetch.OutcomeKind{
			coursefetch.OutcomeSuccess,
			coursefetch.OutcomeTimeout,
			coursefetch.OutcomeFailure,
		}, kinds)
		assert.Equal(t, 1, state.SuccessCount)
		assert.Equal(t, 2, state.FailureCount)
		assert.Equal(t, []string{"https://uni-a.edu/course/1", "https://uni-a.edu/course/1"}, dispatched,
			"the malformed URL must never reach the provider")
	})

	t.Run("dispatches are spaced by the minimum gap", func(t *testing.T) {
		t.Parallel()

		const gap = 60 * time.Millisecond

		var mu sync.Mutex
		var stamps []time.Time
		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				mu.Lock()
				stamps = append(stamps, time.Now())
				mu.Unlock()
				return &coursefetch.Course{Name: "Course at " + req.URL}, nil
			},
		}
		runner := &batch.Runner{
			Client: batch.NewClient(provider),
			Gate:   batch.NewGate(gap),
		}

		urls := []string{
			"https://uni-a.edu/1",
			"https://uni-a.edu/2",
			"https://uni-a.edu/3",
			"https://uni-a.edu/4",
			"https://uni-a.edu/5",
		}

		state, err := runner.Run(context.Background(), urls, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, state.SuccessCount)

		require.Len(t, stamps, 5)
		for i := 1; i < len(stamps); i++ {
			spacing := stamps[i].Sub(stamps[i-1])
			// Small tolerance for timer rounding.
			assert.GreaterOrEqual(t, spacing, gap-10*time.Millisecond,
				"dispatch %d too close to dispatch %d", i, i-1)
		}
	})

	t.Run("aggregate invariant holds at every event", func(t *testing.T) {
		t.Parallel()

		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				if req.URL == "https://uni-a.edu/2" {
					return nil, coursefetch.Errorf(coursefetch.EINTERNAL, "unparseable content")
				}
				return &coursefetch.Course{Name: "Course at " + req.URL}, nil
			},
		}
		runner := &batch.Runner{
			Client: batch.NewClient(provider),
			Gate:   batch.NewGate(0),
		}

		urls := []string{"https://uni-a.edu/1", "https://uni-a.edu/2", "https://uni-a.edu/3"}

		resolved := 0
		state, err := runner.Run(context.Background(), urls, func(e coursefetch.Event) {
			resolved++
			assert.Equal(t, resolved, e.Index+1)
		})

		require.NoError(t, err)
		assert.Equal(t, state.SuccessCount+state.FailureCount, len(state.Results))
		assert.Equal(t, state.Total, len(state.Results))
	})

	t.Run("cancellation stops the run at the next URL boundary", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				if req.URL == "https://uni-a.edu/2" {
					cancel()
				}
				return &coursefetch.Course{Name: "Course at " + req.URL}, nil
			},
		}
		runner := &batch.Runner{
			Client: batch.NewClient(provider),
			Gate:   batch.NewGate(0),
		}

		urls := []string{"https://uni-a.edu/1", "https://uni-a.edu/2", "https://uni-a.edu/3"}

		var events []coursefetch.Event
		state, err := runner.Run(ctx, urls, func(e coursefetch.Event) {
			events = append(events, e)
		})

		require.Error(t, err)
		assert.Len(t, events, 2, "URLs not yet dispatched are never processed")
		assert.Len(t, state.Results, 2)
		assert.False(t, state.Done())
	})

	t.Run("defaults apply when gate and schema are unset", func(t *testing.T) {
		t.Parallel()

		var got coursefetch.Schema
		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				got = req.Schema
				return &coursefetch.Course{Name: "X"}, nil
			},
		}
		runner := &batch.Runner{Client: batch.NewClient(provider)}

		_, err := runner.Run(context.Background(), []string{"https://uni-a.edu/1"}, nil)

		require.NoError(t, err)
		assert.Equal(t, coursefetch.DefaultSchema().FieldNames(), got.FieldNames())
	})
}
