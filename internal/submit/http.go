package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
)

// DefaultAttemptTimeout bounds a single HTTP attempt
const DefaultAttemptTimeout = 5 * time.Second

// HTTPOptions configures an HTTPSubmitter. Zero values get defaults.
type HTTPOptions struct {
	Client  *http.Client
	Timeout time.Duration
	Retry   RetryPolicy
	Clock   clockwork.Clock
	Logger  *slog.Logger

	// BreakerFailures is how many consecutive failures open the breaker
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open
	BreakerCooldown time.Duration
	// OnBreakerChange observes breaker transitions
	OnBreakerChange func(from, to gobreaker.State)
}

// HTTPSubmitter posts submissions as JSON to an endpoint
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	retry    RetryPolicy
	clock    clockwork.Clock
	logger   *slog.Logger
	breaker  *gobreaker.CircuitBreaker
}

type envelope struct {
	ID      string  `json:"id"`
	Kind    Kind    `json:"kind"`
	Payload Request `json:"payload"`
}

// statusError is an unexpected response status worth retrying
type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("unexpected status %d", e.code) }
func (e *statusError) Unwrap() error { return ErrUnavailable }

// NewHTTPSubmitter creates a submitter for endpoint, which must be an
// absolute http or https URL.
func NewHTTPSubmitter(endpoint string, opts HTTPOptions) (*HTTPSubmitter, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("submit endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("submit endpoint %q: must be an absolute http(s) URL", endpoint)
	}

	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultAttemptTimeout
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}

	s := &HTTPSubmitter{
		endpoint: endpoint,
		client:   opts.Client,
		timeout:  opts.Timeout,
		retry:    opts.Retry,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "submit",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		// a rejected submission is the visitor's problem, not the endpoint's
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("circuit breaker state changed",
				"component", name,
				"from", from.String(),
				"to", to.String(),
			)
			if opts.OnBreakerChange != nil {
				opts.OnBreakerChange(from, to)
			}
		},
	})
	return s, nil
}

// BreakerState reports the circuit breaker state
func (s *HTTPSubmitter) BreakerState() gobreaker.State {
	return s.breaker.State()
}

// Submit posts req, retrying transient failures. The returned error wraps
// ErrTimeout, ErrUnavailable or ErrRejected.
func (s *HTTPSubmitter) Submit(ctx context.Context, req Request) (Receipt, error) {
	id := uuid.NewString()
	body, err := json.Marshal(envelope{ID: id, Kind: req.Kind(), Payload: req})
	if err != nil {
		return Receipt{}, fmt.Errorf("encode submission: %w", err)
	}

	classify := func(err error) action {
		switch {
		case ctx.Err() != nil:
			return stop
		case errors.Is(err, ErrRejected):
			return stop
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return stop
		}
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusTooManyRequests {
			return retryAfter
		}
		return retry
	}

	policy := s.retry
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		s.logger.Debug("retrying submission", "kind", req.Kind(), "attempt", attempt, "backoff", backoff, "error", err)
		if s.retry.OnRetry != nil {
			s.retry.OnRetry(attempt, err, backoff)
		}
	}

	receipt, err := doRetry(ctx, s.clock, policy, classify, func() (Receipt, error) {
		v, err := s.breaker.Execute(func() (any, error) {
			return s.attempt(ctx, id, req.Kind(), body)
		})
		if err != nil {
			return Receipt{}, err
		}
		return v.(Receipt), nil
	})
	if err != nil {
		return Receipt{}, finalError(ctx, err)
	}
	return receipt, nil
}

func (s *HTTPSubmitter) attempt(ctx context.Context, id string, kind Kind, body []byte) (Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", id)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Receipt{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return Receipt{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var ack struct {
			ID string `json:"id"`
		}
		// the body is optional; fall back to our own id
		if data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && len(data) > 0 {
			_ = json.Unmarshal(data, &ack)
		}
		if ack.ID == "" {
			ack.ID = id
		}
		return Receipt{ID: ack.ID, Kind: kind, At: s.clock.Now()}, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return Receipt{}, &statusError{code: resp.StatusCode}

	default:
		return Receipt{}, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
}

// finalError maps whatever ended the retry loop onto the package sentinels
func finalError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrRejected):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit open", ErrUnavailable)
	case errors.Is(err, ErrTimeout), errors.Is(ctx.Err(), context.DeadlineExceeded):
		if errors.Is(err, ErrTimeout) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, ErrUnavailable):
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
