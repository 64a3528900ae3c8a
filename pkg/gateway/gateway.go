// Package gateway holds the active provider configuration and is the single
// entry point for chat completions.
//
// The Gateway resolves the configured provider through a Resolver, invokes it
// once and either returns the normalized result or wraps the failure into a
// structured *Error. It never substitutes a mock response for a configured
// provider that failed; only the factory maps unknown identifiers to the mock.
//
// Example:
//
//	gw := gateway.New(providerfactory.New(providerfactory.Options{}), gateway.Options{})
//	gw.Configure(gateway.ConfigUpdate{Provider: ptr("openai"), Token: ptr(key)})
//
//	result, err := gw.CreateCompletion(ctx, messages)
//	if err != nil {
//	    details := gateway.ParseError(err)
//	    fmt.Println(details.Content, details.OriginalError)
//	}
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"mercator-hq/textstudio/pkg/providers"
)

// Resolver maps a provider identifier to a provider.
// *providerfactory.Factory implements it.
type Resolver interface {
	GetProvider(id string) providers.Provider
}

// Outcome describes one completion attempt.
type Outcome struct {
	Provider string
	Model    string
	Messages []providers.Message
	Duration time.Duration
	Result   *providers.CompletionResult
	Err      error
}

// Observer is notified after every completion attempt.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveCompletion(ctx context.Context, outcome Outcome)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, outcome Outcome)

// ObserveCompletion calls f.
func (f ObserverFunc) ObserveCompletion(ctx context.Context, outcome Outcome) {
	f(ctx, outcome)
}

// Options configures a Gateway.
type Options struct {
	// Initial is the starting configuration; zero value means mock with empty credentials
	Initial *providers.ProviderConfig

	// Observers are notified of every completion outcome
	Observers []Observer

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// ConfigUpdate is a partial configuration. Nil fields retain their prior value.
type ConfigUpdate struct {
	Provider    *string `json:"provider,omitempty"`
	Token       *string `json:"token,omitempty"`
	Model       *string `json:"model,omitempty"`
	Endpoint    *string `json:"endpoint,omitempty"`
	CustomModel *string `json:"customModel,omitempty"`
}

// UpdateFrom returns a ConfigUpdate that sets every field of cfg.
func UpdateFrom(cfg providers.ProviderConfig) ConfigUpdate {
	return ConfigUpdate{
		Provider:    &cfg.Provider,
		Token:       &cfg.Token,
		Model:       &cfg.Model,
		Endpoint:    &cfg.Endpoint,
		CustomModel: &cfg.CustomModel,
	}
}

// Apply returns cfg with the present fields of u merged over it.
// The token is trimmed.
func (u ConfigUpdate) Apply(cfg providers.ProviderConfig) providers.ProviderConfig {
	if u.Provider != nil {
		cfg.Provider = *u.Provider
	}
	if u.Token != nil {
		cfg.Token = strings.TrimSpace(*u.Token)
	}
	if u.Model != nil {
		cfg.Model = *u.Model
	}
	if u.Endpoint != nil {
		cfg.Endpoint = *u.Endpoint
	}
	if u.CustomModel != nil {
		cfg.CustomModel = *u.CustomModel
	}
	return cfg
}

// Gateway holds the process-wide provider configuration.
// It is stateless with respect to conversation history.
type Gateway struct {
	resolver  Resolver
	observers []Observer
	logger    *slog.Logger

	mu     sync.RWMutex
	config providers.ProviderConfig
}

// New creates a Gateway.
func New(resolver Resolver, opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := providers.DefaultProviderConfig()
	if opts.Initial != nil {
		cfg = *opts.Initial
		cfg.Token = strings.TrimSpace(cfg.Token)
		if cfg.Provider == "" {
			cfg.Provider = string(providers.ProviderMock)
		}
	}

	return &Gateway{
		resolver:  resolver,
		observers: append([]Observer(nil), opts.Observers...),
		logger:    logger.With("component", "gateway"),
		config:    cfg,
	}
}

// AddObserver registers an observer.
func (g *Gateway) AddObserver(o Observer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, o)
}

// Configure merges update over the current configuration.
// Absent fields keep their prior values; the token is trimmed.
// It returns a copy of the resulting configuration.
func (g *Gateway) Configure(update ConfigUpdate) providers.ProviderConfig {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.config = update.Apply(g.config)

	g.logger.Info("provider configuration updated",
		"provider", g.config.Provider,
		"model", g.config.ResolvedModel(),
		"has_token", g.config.Token != "",
	)

	return g.config
}

// Config returns a copy of the current configuration.
func (g *Gateway) Config() providers.ProviderConfig {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// CreateCompletion sends messages to the configured provider.
// The configuration is snapshotted at call start. Any provider failure is
// returned as *Error.
func (g *Gateway) CreateCompletion(ctx context.Context, messages []providers.Message) (*providers.CompletionResult, error) {
	g.mu.RLock()
	cfg := g.config
	observers := g.observers
	g.mu.RUnlock()

	provider := g.resolver.GetProvider(cfg.Provider)
	model := cfg.ResolvedModel()

	sent := providers.CloneMessages(messages)

	start := time.Now()
	result, err := provider.GetCompletions(ctx, sent, cfg)
	duration := time.Since(start)

	outcome := Outcome{
		Provider: string(provider.ID()),
		Model:    model,
		Messages: sent,
		Duration: duration,
		Result:   result,
	}

	if err != nil {
		g.logger.Error("completion failed",
			"provider", cfg.Provider,
			"model", model,
			"kind", providers.ErrorKind(err),
			"error", err,
		)
		gwErr := newError(cfg.Provider, model, err)
		outcome.Err = gwErr
		outcome.Result = nil
		notify(ctx, observers, outcome)
		return nil, gwErr
	}

	g.logger.Debug("completion succeeded",
		"provider", provider.ID(),
		"model", model,
		"duration", duration,
	)
	notify(ctx, observers, outcome)

	return result, nil
}

func notify(ctx context.Context, observers []Observer, outcome Outcome) {
	for _, o := range observers {
		o.ObserveCompletion(ctx, outcome)
	}
}

// ConnectionResult is the verdict of TestConnection.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TestConnection checks that cfg carries the credentials its provider requires.
// No network call is made. A nil cfg checks the current configuration.
func (g *Gateway) TestConnection(cfg *providers.ProviderConfig) ConnectionResult {
	target := g.Config()
	if cfg != nil {
		target = *cfg
	}

	id, ok := providers.ParseProviderID(target.Provider)
	if !ok {
		return ConnectionResult{Message: fmt.Sprintf("unknown provider %q", target.Provider)}
	}
	if id == providers.ProviderMock {
		return ConnectionResult{Success: true, Message: "mock provider needs no connection"}
	}

	entry, _ := providers.LookupCatalog(id)
	if err := entry.Validate(target); err != nil {
		return ConnectionResult{Message: err.Error()}
	}

	return ConnectionResult{
		Success: true,
		Message: fmt.Sprintf("connection to %s configured", entry.DisplayName),
	}
}
