package health

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// Status values.
const (
	StatusOK        = "ok"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// DefaultCheckTimeout bounds a single check.
const DefaultCheckTimeout = 5 * time.Second

// CheckFunc returns nil when the component is healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status   string        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// Report aggregates every registered check.
type Report struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Provider  string                 `json:"provider,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool {
	return r.Status == StatusOK
}

// Checker runs named health checks.
type Checker struct {
	mu       sync.RWMutex
	checks   map[string]CheckFunc
	timeout  time.Duration
	version  string
	provider func() string
}

// New creates a Checker. A zero timeout selects DefaultCheckTimeout.
func New(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Checker{
		checks:  make(map[string]CheckFunc),
		timeout: timeout,
	}
}

// SetVersion sets the version reported alongside the checks.
func (c *Checker) SetVersion(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = version
}

// SetProviderFunc sets the source of the active provider identifier.
func (c *Checker) SetProviderFunc(fn func() string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provider = fn
}

// Register adds or replaces the check called name.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Names returns the registered check names, sorted.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.checks))
}

// Check runs every registered check concurrently.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	checks := maps.Clone(c.checks)
	version := c.version
	providerFn := c.provider
	c.mu.RUnlock()

	report := Report{
		Status:    StatusOK,
		Version:   version,
		Checks:    make(map[string]CheckResult, len(checks)),
		Timestamp: time.Now().UTC(),
	}
	if providerFn != nil {
		report.Provider = providerFn()
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := c.run(ctx, check)

			mu.Lock()
			report.Checks[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, result := range report.Checks {
		if result.Status != StatusOK {
			report.Status = StatusDegraded
			break
		}
	}
	return report
}

func (c *Checker) run(ctx context.Context, check CheckFunc) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	errCh := make(chan error, 1)
	go func() {
		errCh <- check(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: err.Error(), Duration: time.Since(start)}
		}
		return CheckResult{Status: StatusOK, Duration: time.Since(start)}
	case <-ctx.Done():
		return CheckResult{Status: StatusUnhealthy, Message: "health check timeout", Duration: time.Since(start)}
	}
}
