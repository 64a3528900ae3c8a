// Package openai implements the OpenAI provider adapter.
//
// The adapter posts the full structured message list to the Chat Completions API
// with bearer authentication:
//
//	POST https://api.openai.com/v1/chat/completions
//	{"model": "gpt-3.5-turbo", "messages": [...], "max_tokens": 1024, "temperature": 0.7}
//
// The reply is read from choices[0].message.content; an empty reply becomes
// "No response generated". Non-2xx responses surface the vendor error.message
// verbatim, falling back to the HTTP status text.
//
// # Basic Usage
//
//	provider := openai.NewProvider(nil)
//	result, err := provider.GetCompletions(ctx, messages, providers.ProviderConfig{
//	    Provider: "openai",
//	    Token:    os.Getenv("OPENAI_API_KEY"),
//	    Model:    "gpt-4",
//	})
//
// The wire types and MapError are shared with the azure and github adapters,
// which speak the same response shape.
package openai
