// Package providers implements a unified abstraction layer for LLM chat completions.
//
// # Overview
//
// The providers package defines a single completion contract implemented against
// heterogeneous vendor APIs (Hugging Face, OpenAI, Azure OpenAI, Anthropic and
// GitHub Models) plus an offline mock. It normalizes responses into a
// CompletionResult and normalizes failures into a small error taxonomy.
//
// # Architecture
//
// The package is organized into several layers:
//
//  1. Provider Interface - The contract all adapters implement (GetCompletions)
//  2. Base HTTP Provider - One-shot JSON requests, status capture, vendor error extraction
//  3. Provider Adapters - One subpackage per vendor (mock, huggingface, openai, azure, anthropic, github)
//  4. Catalog - Static metadata used for configuration checks and UI
//
// The providerfactory package maps a provider identifier to an adapter, and the
// gateway package holds the active configuration and wraps provider failures.
//
// # Basic Usage
//
//	provider := openai.NewProvider(nil)
//
//	cfg := providers.ProviderConfig{
//	    Provider: "openai",
//	    Token:    os.Getenv("OPENAI_API_KEY"),
//	    Model:    "gpt-4",
//	}
//
//	result, err := provider.GetCompletions(ctx, []providers.Message{
//	    {Role: providers.RoleUser, Content: "Hello!"},
//	}, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Content)
//
// # Error Handling
//
// The package defines specific error types for the failure scenarios adapters report:
//
//   - ConfigError: a required token, endpoint or model is missing (no network call made)
//   - TransportError: no response was received
//   - VendorError: non-2xx response, carrying the vendor error.message or the status text
//   - AuthError: HTTP 401, with provider-specific guidance
//   - ModelNotFoundError: HTTP 404 for an unknown model
//   - UnavailableError: HTTP 503, model not currently loaded (Hugging Face)
//   - ParseError: malformed successful response
//
// ErrorKind maps any of them to a stable label:
//
//	if _, err := provider.GetCompletions(ctx, msgs, cfg); err != nil {
//	    var authErr *providers.AuthError
//	    if errors.As(err, &authErr) {
//	        fmt.Println(authErr.Guidance)
//	    }
//	    log.Printf("completion failed (%s): %v", providers.ErrorKind(err), err)
//	}
//
// # Retries and Timeouts
//
// Adapters make exactly one attempt per call. No timeout is applied unless the
// *http.Client passed to the adapter has one; callers bound calls through ctx.
//
// # Thread Safety
//
// Adapters hold no per-call state and can be used concurrently from multiple
// goroutines. Configuration is passed by value on every call.
package providers
