// Package providerfactory maps provider identifiers to provider adapters.
package providerfactory

import (
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/providers/anthropic"
	"mercator-hq/textstudio/pkg/providers/azure"
	"mercator-hq/textstudio/pkg/providers/github"
	"mercator-hq/textstudio/pkg/providers/huggingface"
	"mercator-hq/textstudio/pkg/providers/mock"
	"mercator-hq/textstudio/pkg/providers/openai"
)

// Options configures the adapters built by a Factory.
type Options struct {
	// HTTPClient is shared by every network-backed adapter.
	// Nil selects a client without timeout.
	HTTPClient *http.Client

	// MockDelay is the simulated latency of the mock provider.
	// Nil selects mock.DefaultDelay; a zero value disables the delay.
	MockDelay *time.Duration

	// HuggingFaceBaseURL overrides the Hugging Face inference host.
	HuggingFaceBaseURL string

	// GitHubBaseURL overrides the GitHub Models host.
	GitHubBaseURL string
}

// Factory resolves provider identifiers to adapters.
// Adapters are created once and hold no per-call state, so the same instance
// is returned for every call.
type Factory struct {
	mock        *mock.Provider
	huggingface *huggingface.Provider
	openai      *openai.Provider
	azure       *azure.Provider
	anthropic   *anthropic.Provider
	github      *github.Provider
}

// New creates a Factory.
//
// Example:
//
//	factory := providerfactory.New(providerfactory.Options{})
//	provider := factory.GetProvider("openai")
func New(opts Options) *Factory {
	delay := mock.DefaultDelay
	if opts.MockDelay != nil {
		delay = *opts.MockDelay
	}

	f := &Factory{
		mock:        mock.NewProvider(delay),
		huggingface: huggingface.NewProvider(opts.HTTPClient),
		openai:      openai.NewProvider(opts.HTTPClient),
		azure:       azure.NewProvider(opts.HTTPClient),
		anthropic:   anthropic.NewProvider(opts.HTTPClient),
		github:      github.NewProvider(opts.HTTPClient),
	}

	if opts.HuggingFaceBaseURL != "" {
		f.huggingface.BaseURL = opts.HuggingFaceBaseURL
	}
	if opts.GitHubBaseURL != "" {
		f.github.BaseURL = opts.GitHubBaseURL
	}

	return f
}

// GetProvider returns the adapter for id.
// Unknown or empty identifiers resolve to the mock provider.
func (f *Factory) GetProvider(id string) providers.Provider {
	parsed, ok := providers.ParseProviderID(id)
	if !ok {
		if id != "" {
			slog.Debug("unknown provider, using mock", "provider", id)
		}
		return f.mock
	}

	switch parsed {
	case providers.ProviderHuggingFace:
		return f.huggingface
	case providers.ProviderOpenAI:
		return f.openai
	case providers.ProviderAzure:
		return f.azure
	case providers.ProviderAnthropic:
		return f.anthropic
	case providers.ProviderGitHub:
		return f.github
	default:
		return f.mock
	}
}

// ModelChecker returns the Hugging Face availability checker.
func (f *Factory) ModelChecker() providers.ModelAvailabilityChecker {
	return f.huggingface
}

// ModelLister returns the GitHub Models catalog lister.
func (f *Factory) ModelLister() providers.ModelLister {
	return f.github
}
