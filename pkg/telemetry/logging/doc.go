// Package logging configures structured logging with secret redaction.
//
// # Overview
//
// The package builds a log/slog logger whose handler:
//   - Writes JSON or text output at a configurable level
//   - Scrubs provider credentials from every string attribute
//   - Adds the request ID carried by the context to each record
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "completion sent", "token", cfg.Token) // token redacted
//
// # Redaction
//
// Secrets are redacted by pattern and by key name:
//
//   - OpenAI keys: sk-abc123... → sk-***
//   - Anthropic keys: sk-ant-api03-... → sk-ant-***
//   - Hugging Face tokens: hf_abc... → hf_***
//   - GitHub tokens: ghp_abc... / github_pat_... → ghp_*** / github_pat_***
//   - Authorization headers: Bearer abc... → Bearer ***
//   - Attributes named token, api_key, authorization, secret, password → first 4 chars + ***
package logging
