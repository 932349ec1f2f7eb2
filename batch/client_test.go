package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boldstep/coursefetch"
	"github.com/boldstep/coursefetch/batch"
	"github.com/boldstep/coursefetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() coursefetch.ExtractionRequest {
	return coursefetch.ExtractionRequest{
		URL:    "https://example.edu/courses/physics-msc",
		Schema: coursefetch.DefaultSchema(),
	}
}

func TestClient_Extract(t *testing.T) {
	t.Parallel()

	t.Run("maps a provider result to a success outcome", func(t *testing.T) {
		t.Parallel()

		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, req coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				return &coursefetch.Course{Name: "Physics MSc"}, nil
			},
		}
		client := batch.NewClient(provider)

		out := client.Extract(context.Background(), validRequest())

		assert.Equal(t, coursefetch.OutcomeSuccess, out.Kind)
		require.NotNil(t, out.Course)
		assert.Equal(t, "Physics MSc", out.Course.Name)
		// Source URL is stamped onto the record when the provider omits it.
		assert.Equal(t, "https://example.edu/courses/physics-msc", out.Course.SourceURL)
	})

	t.Run("maps a provider error to a failure outcome with its message", func(t *testing.T) {
		t.Parallel()

		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				return nil, coursefetch.Errorf(coursefetch.EUNAVAILABLE, "quota exceeded")
			},
		}
		client := batch.NewClient(provider)

		out := client.Extract(context.Background(), validRequest())

		assert.Equal(t, coursefetch.OutcomeFailure, out.Kind)
		assert.Equal(t, "quota exceeded", out.Reason)
		assert.Nil(t, out.Course)
	})

	t.Run("maps a transport error to a failure outcome", func(t *testing.T) {
		t.Parallel()

		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				return nil, errors.New("connection refused")
			},
		}
		client := batch.NewClient(provider)

		out := client.Extract(context.Background(), validRequest())

		assert.Equal(t, coursefetch.OutcomeFailure, out.Kind)
		assert.Equal(t, "connection refused", out.Reason)
	})

	t.Run("forces a timeout outcome when the provider hangs", func(t *testing.T) {
		t.Parallel()

		provider := &mock.Provider{
			ExtractFn: func(ctx context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		client := batch.NewClient(provider, batch.WithTimeout(50*time.Millisecond))

		start := time.Now()
		out := client.Extract(context.Background(), validRequest())
		emitted := time.Since(start)

		assert.Equal(t, coursefetch.OutcomeTimeout, out.Kind)
		assert.GreaterOrEqual(t, out.Elapsed, 50*time.Millisecond)
		assert.Less(t, emitted, 500*time.Millisecond, "timeout outcome should resolve promptly after the deadline")
	})

	t.Run("classifies a provider-reported deadline as a timeout", func(t *testing.T) {
		t.Parallel()

		provider := &mock.Provider{
			ExtractFn: func(ctx context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				<-ctx.Done()
				return nil, context.DeadlineExceeded
			},
		}
		client := batch.NewClient(provider, batch.WithTimeout(50*time.Millisecond))

		out := client.Extract(context.Background(), validRequest())

		assert.Equal(t, coursefetch.OutcomeTimeout, out.Kind)
	})

	t.Run("discards a response that arrives after the deadline", func(t *testing.T) {
		t.Parallel()

		released := make(chan struct{})
		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				// Ignore cancellation and respond late.
				<-released
				return &coursefetch.Course{Name: "Late Course"}, nil
			},
		}
		client := batch.NewClient(provider, batch.WithTimeout(50*time.Millisecond))

		out := client.Extract(context.Background(), validRequest())
		close(released)

		assert.Equal(t, coursefetch.OutcomeTimeout, out.Kind)
		assert.Nil(t, out.Course, "late result must never surface")
	})

	t.Run("parent cancellation is a failure, not a timeout", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		provider := &mock.Provider{
			ExtractFn: func(ctx context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				cancel()
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		client := batch.NewClient(provider, batch.WithTimeout(time.Minute))

		out := client.Extract(ctx, validRequest())

		assert.Equal(t, coursefetch.OutcomeFailure, out.Kind)
	})

	t.Run("rejects an invalid request without dispatching", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				calls.Add(1)
				return &coursefetch.Course{Name: "X"}, nil
			},
		}
		client := batch.NewClient(provider)

		out := client.Extract(context.Background(), coursefetch.ExtractionRequest{URL: "invalid-url"})

		assert.Equal(t, coursefetch.OutcomeFailure, out.Kind)
		assert.Equal(t, int32(0), calls.Load(), "invalid URL must never reach the provider")
	})

	t.Run("nil course from provider is a failure", func(t *testing.T) {
		t.Parallel()

		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				return nil, nil
			},
		}
		client := batch.NewClient(provider)

		out := client.Extract(context.Background(), validRequest())

		assert.Equal(t, coursefetch.OutcomeFailure, out.Kind)
		assert.Equal(t, "provider returned no data", out.Reason)
	})

	t.Run("course without a name is a failure", func(t *testing.T) {
		t.Parallel()

		provider := &mock.Provider{
			ExtractFn: func(_ context.Context, _ coursefetch.ExtractionRequest) (*coursefetch.Course, error) {
				return &coursefetch.Course{Level: "Postgraduate"}, nil
			},
		}
		client := batch.NewClient(provider)

		out := client.Extract(context.Background(), validRequest())

		assert.Equal(t, coursefetch.OutcomeFailure, out.Kind)
	})
}
