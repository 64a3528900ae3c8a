// Package handlers implements the textstudio HTTP API.
//
// # Endpoints
//
//	POST /api/format                          reformat text in a style
//	POST /api/generate                        generate prose from keywords
//	POST /v1/chat/completions                 raw gateway completion (OpenAI-shaped)
//	GET  /api/config                          active provider config, token masked
//	PUT  /api/config                          partial update, persisted
//	POST /api/config/test                     credential check without network
//	GET  /api/providers                       provider catalog
//	GET  /api/providers/huggingface/availability?model=
//	GET  /api/providers/github/models
//	GET  /api/prompts                         prompt templates
//	PUT  /api/prompts                         replace templates, persisted
//	POST /api/conversations/reset             clear conversation histories
//
// # Errors
//
// A failed completion answers 502 with the gateway error fields:
//
//	{"error": {"provider": "openai", "model": "gpt-4o",
//	           "originalError": "Invalid OpenAI API key...",
//	           "content": "An error occurred while communicating with the API."}}
//
// Malformed requests answer 400 with {"error": {"message", "type"}}.
package handlers
