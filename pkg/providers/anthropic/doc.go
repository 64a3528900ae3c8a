// Package anthropic implements the Anthropic provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for Anthropic's Messages API. Anthropic accepts structured turns natively, so
// messages are only reshaped, never flattened:
//
//   - the first system message is sent as the top-level "system" field
//   - the remaining messages keep their order; assistant stays assistant and
//     every other role is sent as user
//
// Authentication uses the x-api-key header together with anthropic-version.
// The reply is read from content[0].text, defaulting to "No response generated".
//
// # Basic Usage
//
//	provider := anthropic.NewProvider(nil)
//	result, err := provider.GetCompletions(ctx, []providers.Message{
//	    {Role: providers.RoleSystem, Content: "You are an expert formatter."},
//	    {Role: providers.RoleUser, Content: "Hello!"},
//	}, providers.ProviderConfig{
//	    Provider: "anthropic",
//	    Token:    os.Getenv("ANTHROPIC_API_KEY"),
//	    Model:    "claude-2",
//	})
package anthropic
