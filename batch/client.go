package batch

import (
	"context"
	"errors"
	"time"

	"github.com/boldstep/coursefetch"
)

// Client wraps a Provider with a hard per-call timeout and maps every
// failure mode onto an Outcome. No error escapes Extract: network failures,
// provider errors and malformed responses all resolve to a failure or
// timeout outcome for the URL.
type Client struct {
	provider coursefetch.Provider
	timeout  time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call timeout. Defaults to DefaultTimeout (60s).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a Client around the given provider.
func NewClient(provider coursefetch.Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the configured per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

type extractResult struct {
	course *coursefetch.Course
	err    error
}

// Extract issues exactly one provider call for the request and classifies
// the result. The call context is canceled at the deadline; a response that
// arrives after the deadline is discarded, never delivered as a second
// outcome for the same URL.
func (c *Client) Extract(ctx context.Context, req coursefetch.ExtractionRequest) coursefetch.Outcome {
	if err := req.Validate(); err != nil {
		return coursefetch.Outcome{
			URL:    req.URL,
			Kind:   coursefetch.OutcomeFailure,
			Reason: coursefetch.ErrorMessage(err),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	// Buffered so the provider goroutine can always complete and its late
	// result be dropped, rather than leaking blocked on a send.
	ch := make(chan extractResult, 1)
	go func() {
		course, err := c.provider.Extract(callCtx, req)
		ch <- extractResult{course: course, err: err}
	}()

	select {
	case res := <-ch:
		return c.classify(ctx, req, res, time.Since(start))
	case <-callCtx.Done():
		elapsed := time.Since(start)
		if ctx.Err() != nil {
			// Parent cancellation, not a deadline.
			return coursefetch.Outcome{
				URL:     req.URL,
				Kind:    coursefetch.OutcomeFailure,
				Reason:  coursefetch.ErrorMessage(ctx.Err()),
				Elapsed: elapsed,
			}
		}
		return coursefetch.Outcome{
			URL:     req.URL,
			Kind:    coursefetch.OutcomeTimeout,
			Elapsed: elapsed,
		}
	}
}

func (c *Client) classify(ctx context.Context, req coursefetch.ExtractionRequest, res extractResult, elapsed time.Duration) coursefetch.Outcome {
	if res.err != nil {
		// A provider that honors the call context reports the deadline
		// itself; that is still a timeout, not a provider failure.
		if isDeadline(res.err) && ctx.Err() == nil {
			return coursefetch.Outcome{
				URL:     req.URL,
				Kind:    coursefetch.OutcomeTimeout,
				Elapsed: elapsed,
			}
		}
		return coursefetch.Outcome{
			URL:     req.URL,
			Kind:    coursefetch.OutcomeFailure,
			Reason:  coursefetch.ErrorMessage(res.err),
			Elapsed: elapsed,
		}
	}

	if res.course == nil {
		return coursefetch.Outcome{
			URL:     req.URL,
			Kind:    coursefetch.OutcomeFailure,
			Reason:  "provider returned no data",
			Elapsed: elapsed,
		}
	}

	course := res.course
	if course.SourceURL == "" {
		course.SourceURL = req.URL
	}
	if err := course.Validate(); err != nil {
		return coursefetch.Outcome{
			URL:     req.URL,
			Kind:    coursefetch.OutcomeFailure,
			Reason:  coursefetch.ErrorMessage(err),
			Elapsed: elapsed,
		}
	}

	return coursefetch.Outcome{
		URL:     req.URL,
		Kind:    coursefetch.OutcomeSuccess,
		Course:  course,
		Elapsed: elapsed,
	}
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		coursefetch.ErrorCode(err) == coursefetch.ETIMEOUT
}
