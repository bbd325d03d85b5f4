package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/recera/clueso-site/pkg/live"
)

// Result labels a finished submission for metrics
const (
	ResultOK          = "ok"
	ResultInvalid     = "invalid"
	ResultTimeout     = "timeout"
	ResultUnavailable = "unavailable"
	ResultRejected    = "rejected"
	ResultError       = "error"
)

// Recorder observes finished submissions
type Recorder interface {
	Submitted(kind Kind, result string, took time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Submitted(Kind, string, time.Duration) {}

var successToasts = map[Kind]live.Toast{
	KindContact: {
		Title:       "Message sent!",
		Description: "We'll get back to you within 24 hours.",
	},
	KindDemo: {
		Title:       "Demo request submitted!",
		Description: "We'll be in touch within 24 hours to schedule your demo.",
	},
	KindSignup: {
		Title:       "Welcome to Clueso! 🎉",
		Description: "Check your email to complete signup.",
	},
}

// Service validates and submits form requests
type Service struct {
	submitter Submitter
	timeout   time.Duration
	clock     clockwork.Clock
	recorder  Recorder
	logger    *slog.Logger
}

type ServiceOption func(*Service)

// WithTimeout bounds a whole submission, retries included
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = d }
}

func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

func WithClock(c clockwork.Clock) ServiceOption {
	return func(s *Service) { s.clock = c }
}

func NewService(submitter Submitter, opts ...ServiceOption) *Service {
	s := &Service{
		submitter: submitter,
		clock:     clockwork.NewRealClock(),
		recorder:  nopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle validates req, submits it and returns the toast to show. The error
// is non-nil whenever the toast reports a failure.
func (s *Service) Handle(ctx context.Context, req Request) (live.Toast, error) {
	start := s.clock.Now()

	if err := req.Validate(); err != nil {
		s.recorder.Submitted(req.Kind(), ResultInvalid, 0)
		return failureToast(err), err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	receipt, err := s.submitter.Submit(ctx, req)
	took := s.clock.Since(start)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		result := resultOf(err)
		s.recorder.Submitted(req.Kind(), result, took)
		s.logger.Warn("submission failed", "kind", req.Kind(), "result", result, "error", err)
		return failureToast(err), err
	}

	s.recorder.Submitted(req.Kind(), ResultOK, took)
	s.logger.Info("submission accepted", "kind", req.Kind(), "receipt", receipt.ID, "took", took)
	return successToasts[req.Kind()], nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return ResultTimeout
	case errors.Is(err, ErrUnavailable):
		return ResultUnavailable
	case errors.Is(err, ErrRejected):
		return ResultRejected
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ResultInvalid
	}
	return ResultError
}

func failureToast(err error) live.Toast {
	t := live.Toast{Variant: "destructive"}

	var ve *ValidationError
	switch {
	case errors.As(err, &ve) && len(ve.Fields) == 1 && ve.Fields[0] == "email":
		t.Title = "Email Required"
		t.Description = "Please enter your email address."
	case errors.As(err, &ve):
		t.Title = "Missing information"
		t.Description = "Please fill in: " + strings.Join(ve.Fields, ", ") + "."
	case errors.Is(err, ErrTimeout):
		t.Title = "Request timed out"
		t.Description = "Please try again in a moment."
	case errors.Is(err, ErrRejected):
		t.Title = "Submission rejected"
		t.Description = "Please check your details and try again."
	case errors.Is(err, ErrUnavailable):
		t.Title = "Service unavailable"
		t.Description = "We couldn't reach our team. Please try again later."
	default:
		t.Title = "Something went wrong"
		t.Description = "Please try again."
	}
	return t
}
