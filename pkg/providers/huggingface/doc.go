// Package huggingface implements the Hugging Face Inference API adapter.
//
// The inference endpoint is single-prompt text generation, not a chat API, so
// the conversation is flattened into one prompt ending with an "Assistant: " cue
// (see BuildPrompt). The reply is the generated text after the last cue.
//
// Failures are distinguished by status:
//
//   - 401: AuthError asking for an Inference API token
//   - 404: ModelNotFoundError naming the model
//   - 503: UnavailableError, the model is loading or not available
//   - other: VendorError with the status and body text
//
// CheckModelAvailability pre-validates a model choice with a GET against the
// same host; it is not part of the completion path.
package huggingface
