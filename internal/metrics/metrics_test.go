package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/clueso-site/internal/submit"
)

func TestLiveRecorder(t *testing.T) {
	m := New()

	m.SessionOpened("home")
	m.SessionOpened("home")
	m.SessionClosed("home")
	m.FrameSent("render")
	m.FrameSent("render")
	m.FrameReceived("event")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LiveSessions.WithLabelValues("home")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LiveSessionsTotal.WithLabelValues("home")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LiveFrames.WithLabelValues("out", "render")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LiveFrames.WithLabelValues("in", "event")))
}

func TestRotationChanged(t *testing.T) {
	m := New()

	m.RotationChanged("testimonials", "tick")
	m.RotationChanged("testimonials", "tick")
	m.RotationChanged("testimonials", "manual")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RotationAdvances.WithLabelValues("testimonials", "tick")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RotationAdvances.WithLabelValues("testimonials", "manual")))
}

func TestSubmitted(t *testing.T) {
	m := New()

	m.Submitted(submit.KindContact, submit.ResultOK, 1500*time.Millisecond)
	m.Submitted(submit.KindContact, submit.ResultInvalid, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("contact", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("contact", "invalid")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SubmissionDuration), "invalid submissions are not timed")
}

func TestCacheLookup(t *testing.T) {
	m := New()

	m.CacheLookup(false)
	m.CacheLookup(true)
	m.CacheLookup(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PageCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageCacheLookups.WithLabelValues("miss")))
}

func TestBreakerChanged(t *testing.T) {
	m := New()

	tests := []struct {
		to   gobreaker.State
		want float64
	}{
		{gobreaker.StateOpen, 2},
		{gobreaker.StateHalfOpen, 1},
		{gobreaker.StateClosed, 0},
	}
	for _, tt := range tests {
		m.BreakerChanged(gobreaker.StateClosed, tt.to)
		assert.Equal(t, tt.want, testutil.ToFloat64(m.BreakerState), tt.to.String())
	}
}

func TestHandlerAndInstrument(t *testing.T) {
	m := New()

	app := m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("418", "get")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "clueso_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}
