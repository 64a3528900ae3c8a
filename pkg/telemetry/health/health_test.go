package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_AllHealthy(t *testing.T) {
	c := New(0)
	c.SetVersion("1.2.3")
	c.SetProviderFunc(func() string { return "mock" })
	c.Register("settings", func(ctx context.Context) error { return nil })
	c.Register("journal", func(ctx context.Context) error { return nil })

	report := c.Check(context.Background())
	if !report.Healthy() {
		t.Fatalf("expected ok, got %s", report.Status)
	}
	if report.Provider != "mock" || report.Version != "1.2.3" {
		t.Errorf("unexpected report header %+v", report)
	}
	if len(report.Checks) != 2 {
		t.Errorf("expected 2 checks, got %d", len(report.Checks))
	}
}

func TestChecker_Degraded(t *testing.T) {
	c := New(0)
	c.Register("settings", func(ctx context.Context) error { return nil })
	c.Register("provider", func(ctx context.Context) error { return errors.New("token missing") })

	report := c.Check(context.Background())
	if report.Status != StatusDegraded {
		t.Fatalf("expected degraded, got %s", report.Status)
	}
	if got := report.Checks["provider"]; got.Status != StatusUnhealthy || got.Message != "token missing" {
		t.Errorf("unexpected provider result %+v", got)
	}
}

func TestChecker_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	report := c.Check(context.Background())
	if got := report.Checks["slow"]; got.Message != "health check timeout" {
		t.Errorf("expected timeout, got %+v", got)
	}
}

func TestChecker_Names(t *testing.T) {
	c := New(0)
	c.Register("b", func(ctx context.Context) error { return nil })
	c.Register("a", func(ctx context.Context) error { return nil })
	c.Register("a", func(ctx context.Context) error { return nil })

	names := c.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		checkErr   error
		wantStatus int
		wantBody   bool
	}{
		{name: "healthy", method: http.MethodGet, wantStatus: http.StatusOK, wantBody: true},
		{name: "degraded", method: http.MethodGet, checkErr: errors.New("down"), wantStatus: http.StatusServiceUnavailable, wantBody: true},
		{name: "head", method: http.MethodHead, wantStatus: http.StatusOK},
		{name: "post rejected", method: http.MethodPost, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(0)
			c.Register("settings", func(ctx context.Context) error { return tt.checkErr })

			w := httptest.NewRecorder()
			c.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, "/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if !tt.wantBody {
				return
			}

			var report Report
			if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := report.Checks["settings"]; !ok {
				t.Error("expected settings check in body")
			}
		})
	}
}
