package submit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrTimeout means the submission did not complete in time
	ErrTimeout = errors.New("submit: timed out")

	// ErrUnavailable means the endpoint could not be reached or kept failing
	ErrUnavailable = errors.New("submit: service unavailable")

	// ErrRejected means the endpoint refused the submission
	ErrRejected = errors.New("submit: rejected")
)

// DefaultLatency is how long a simulated submission takes
const DefaultLatency = 1500 * time.Millisecond

// Receipt identifies an accepted submission
type Receipt struct {
	ID   string    `json:"id"`
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`
}

// Submitter delivers a validated request
type Submitter interface {
	Submit(ctx context.Context, req Request) (Receipt, error)
}

// SimulatedSubmitter accepts every submission after a fixed latency
type SimulatedSubmitter struct {
	clock   clockwork.Clock
	latency time.Duration
}

// NewSimulatedSubmitter creates a submitter that waits latency on clock.
// A nil clock uses the real one; a non-positive latency uses DefaultLatency.
func NewSimulatedSubmitter(clock clockwork.Clock, latency time.Duration) *SimulatedSubmitter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if latency <= 0 {
		latency = DefaultLatency
	}
	return &SimulatedSubmitter{clock: clock, latency: latency}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, req Request) (Receipt, error) {
	select {
	case <-s.clock.After(s.latency):
		return Receipt{ID: uuid.NewString(), Kind: req.Kind(), At: s.clock.Now()}, nil
	case <-ctx.Done():
		return Receipt{}, contextError(ctx.Err())
	}
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
