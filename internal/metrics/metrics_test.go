package metrics

import (
	"atm-simulator/internal/repository"
	"atm-simulator/internal/services"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/valyala/fasthttp"
)

func TestMetricsCollector_ObserveAction(t *testing.T) {
	m := NewMetricsCollector()

	m.ObserveAction("submit_withdraw", nil, time.Millisecond)
	m.ObserveAction("submit_withdraw", services.ErrExceedsDailyLimit, time.Millisecond)
	m.ObserveAction("submit_withdraw", fmt.Errorf("%w: disk full", repository.ErrPersist), time.Millisecond)
	m.ObserveAction("submit_login", fmt.Errorf("%w 3 times, %w", services.ErrWrongPassword, services.ErrAccountLocked), time.Millisecond)
	m.ObserveAction("submit_login", services.ErrAccountLocked, time.Millisecond)

	for _, tc := range []struct {
		action, outcome string
		want            float64
	}{
		{"submit_withdraw", OutcomeOK, 1},
		{"submit_withdraw", OutcomeRejected, 1},
		{"submit_withdraw", OutcomeFatal, 1},
		{"submit_login", OutcomeRejected, 2},
	} {
		if got := testutil.ToFloat64(m.operations.WithLabelValues(tc.action, tc.outcome)); got != tc.want {
			t.Fatalf("%s/%s=%v want %v", tc.action, tc.outcome, got, tc.want)
		}
	}
	if got := testutil.ToFloat64(m.lockouts); got != 1 {
		t.Fatalf("lockouts=%v", got)
	}
	if got := testutil.ToFloat64(m.persistFailures); got != 1 {
		t.Fatalf("persist failures=%v", got)
	}
}

func TestOutcome(t *testing.T) {
	if Outcome(nil) != OutcomeOK || Outcome(errors.New("x")) != OutcomeRejected {
		t.Fatal("unexpected outcome")
	}
	if Outcome(fmt.Errorf("wrap: %w", repository.ErrPersist)) != OutcomeFatal {
		t.Fatal("persist errors are fatal")
	}
}

func serve(t *testing.T, h fasthttp.RequestHandler, path string) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.SetRequestURI(path)
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	h(&ctx)
	return &ctx
}

func TestMetricsCollector_RequestHandler(t *testing.T) {
	m := NewMetricsCollector()
	m.ObserveAction("eject_card", nil, time.Millisecond)
	h := m.RequestHandler()

	ctx := serve(t, h, "/metrics")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status=%d", ctx.Response.StatusCode())
	}
	if body := string(ctx.Response.Body()); !strings.Contains(body, `atm_operations_total{action="eject_card",outcome="ok"} 1`) {
		t.Fatalf("body=%s", body)
	}

	if ctx := serve(t, h, "/health"); string(ctx.Response.Body()) != "ok" {
		t.Fatalf("health body=%q", ctx.Response.Body())
	}
	if ctx := serve(t, h, "/nope"); ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("status=%d", ctx.Response.StatusCode())
	}
}
