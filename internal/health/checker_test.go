package health_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ErlanBelekov/trade-tally/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestChecker() *health.Checker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return health.NewChecker(logger, prometheus.NewRegistry())
}

func TestLiveness_IgnoresChecks(t *testing.T) {
	c := newTestChecker()
	c.Register("postgres", health.PingCheck(stubPinger{err: errors.New("db down")}))

	result := c.Liveness(context.Background())
	if result.Status != "up" || result.Checks != nil {
		t.Fatalf("liveness = %+v, want bare up", result)
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		pgErr      error
		schemaErr  error
		wantStatus string
		wantDown   []string
	}{
		{name: "all up", wantStatus: "up"},
		{name: "postgres down", pgErr: errors.New("connection refused"), wantStatus: "down", wantDown: []string{"postgres"}},
		{name: "schema behind", schemaErr: errors.New("schema at version 1, want 2"), wantStatus: "down", wantDown: []string{"schema"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker()
			c.Register("postgres", health.PingCheck(stubPinger{err: tt.pgErr}))
			c.Register("schema", func(context.Context) error { return tt.schemaErr })

			result := c.Readiness(context.Background())

			if result.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", result.Status, tt.wantStatus)
			}
			down := map[string]bool{}
			for _, name := range tt.wantDown {
				down[name] = true
			}
			for name, check := range result.Checks {
				want := "up"
				if down[name] {
					want = "down"
				}
				if check.Status != want {
					t.Errorf("%s = %s, want %s", name, check.Status, want)
				}
				if want == "down" && check.Error == "" {
					t.Errorf("%s down without error message", name)
				}
			}
		})
	}
}

func TestReadiness_SetsGauge(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	c := health.NewChecker(logger, reg)
	c.Register("postgres", health.PingCheck(stubPinger{}))

	c.Readiness(context.Background())

	if n := testutil.CollectAndCount(reg, "tradetally_health_check_up"); n != 1 {
		t.Fatalf("gauge series = %d, want 1", n)
	}
}
