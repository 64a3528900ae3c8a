package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/render"
	"mercator-hq/textstudio/pkg/settings"
	"mercator-hq/textstudio/pkg/studio"
)

// Gateway is the subset of *gateway.Gateway the API needs.
type Gateway interface {
	studio.Completer
	Config() providers.ProviderConfig
	Configure(update gateway.ConfigUpdate) providers.ProviderConfig
	TestConnection(cfg *providers.ProviderConfig) gateway.ConnectionResult
}

// Options wires the API's dependencies.
type Options struct {
	Gateway   Gateway
	Formatter *studio.Formatter
	Generator *studio.Generator
	Prompts   *studio.PromptBook

	// Settings persists config and prompt changes; nil keeps them in memory only
	Settings *settings.Settings

	// ModelChecker backs the Hugging Face availability endpoint
	ModelChecker providers.ModelAvailabilityChecker

	// ModelLister backs the GitHub models endpoint
	ModelLister providers.ModelLister

	// Renderer converts completion markdown to HTML; nil selects the default
	Renderer *render.HTMLRenderer
}

// API serves the textstudio endpoints.
type API struct {
	gateway      Gateway
	formatter    *studio.Formatter
	generator    *studio.Generator
	prompts      *studio.PromptBook
	settings     *settings.Settings
	modelChecker providers.ModelAvailabilityChecker
	modelLister  providers.ModelLister
	renderer     *render.HTMLRenderer
	logger       *slog.Logger
}

// New creates an API.
func New(opts Options) *API {
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewHTMLRenderer()
	}
	prompts := opts.Prompts
	if prompts == nil {
		prompts = studio.NewPromptBook()
	}

	return &API{
		gateway:      opts.Gateway,
		formatter:    opts.Formatter,
		generator:    opts.Generator,
		prompts:      prompts,
		settings:     opts.Settings,
		modelChecker: opts.ModelChecker,
		modelLister:  opts.ModelLister,
		renderer:     renderer,
		logger:       slog.Default().With("component", "api"),
	}
}

// Register adds the API routes to mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/format", a.handleFormat)
	mux.HandleFunc("POST /api/generate", a.handleGenerate)
	mux.HandleFunc("POST /v1/chat/completions", a.handleChatCompletions)

	mux.HandleFunc("GET /api/config", a.handleGetConfig)
	mux.HandleFunc("PUT /api/config", a.handlePutConfig)
	mux.HandleFunc("POST /api/config/test", a.handleTestConfig)

	mux.HandleFunc("GET /api/providers", a.handleProviders)
	mux.HandleFunc("GET /api/providers/huggingface/availability", a.handleHuggingFaceAvailability)
	mux.HandleFunc("GET /api/providers/github/models", a.handleGitHubModels)

	mux.HandleFunc("GET /api/prompts", a.handleGetPrompts)
	mux.HandleFunc("PUT /api/prompts", a.handlePutPrompts)

	mux.HandleFunc("POST /api/conversations/reset", a.handleResetConversations)
}

// persist runs save when a settings store is configured.
func (a *API) persist(ctx context.Context, what string, save func(*settings.Settings) error) {
	if a.settings == nil {
		return
	}
	if err := save(a.settings); err != nil {
		// The in-memory change stands even if it could not be stored
		a.logger.ErrorContext(ctx, "failed to persist "+what, "error", err)
	}
}
