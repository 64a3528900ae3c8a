package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Built-in pattern names.
const (
	PatternAnthropicKey = "anthropic_key"
	PatternOpenAIKey    = "openai_key"
	PatternHuggingFace  = "huggingface_token"
	PatternGitHubToken  = "github_token"
	PatternGitHubPAT    = "github_pat"
	PatternBearerToken  = "bearer_token"
	PatternAzureKey     = "azure_api_key"
	PatternEmail        = "email"
)

// RedactPattern is a named regular expression and its replacement.
type RedactPattern struct {
	Name        string `yaml:"name" toml:"name"`
	Pattern     string `yaml:"pattern" toml:"pattern"`
	Replacement string `yaml:"replacement" toml:"replacement"`
}

type compiledPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Redactor removes credentials from log values.
// Patterns are applied in order, so more specific prefixes come first.
type Redactor struct {
	patterns []compiledPattern
}

var defaultPatterns = []RedactPattern{
	{Name: PatternAnthropicKey, Pattern: `sk-ant-[A-Za-z0-9_\-]+`, Replacement: "sk-ant-***"},
	{Name: PatternOpenAIKey, Pattern: `sk-[A-Za-z0-9_\-]{6,}`, Replacement: "sk-***"},
	{Name: PatternHuggingFace, Pattern: `hf_[A-Za-z0-9]{6,}`, Replacement: "hf_***"},
	{Name: PatternGitHubPAT, Pattern: `github_pat_[A-Za-z0-9_]+`, Replacement: "github_pat_***"},
	{Name: PatternGitHubToken, Pattern: `\b(ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{6,}`, Replacement: "${1}_***"},
	{Name: PatternBearerToken, Pattern: `Bearer\s+[A-Za-z0-9\-._~+/]+=*`, Replacement: "Bearer ***"},
	{Name: PatternAzureKey, Pattern: `(?i)(api-key[:=]\s*)[A-Za-z0-9]+`, Replacement: "${1}***"},
}

// NewRedactor creates a Redactor with the built-in credential patterns
// followed by custom patterns. Invalid custom patterns are skipped.
func NewRedactor(custom []RedactPattern) *Redactor {
	r := &Redactor{}

	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, compiledPattern{
			name:        p.Name,
			regex:       regexp.MustCompile(p.Pattern),
			replacement: p.Replacement,
		})
	}

	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			slog.Warn("skipping invalid redaction pattern", "name", p.Name, "error", err)
			continue
		}
		r.patterns = append(r.patterns, compiledPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// RedactString replaces every credential found in value.
func (r *Redactor) RedactString(value string) string {
	if r == nil || value == "" {
		return value
	}

	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr function.
// Attributes with sensitive key names are masked entirely; other string
// values are scrubbed by pattern.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if r == nil {
		return a
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, MaskSecret(a.Value.String()))
		}
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return a
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)

	for _, sensitive := range []string{"token", "api_key", "apikey", "api-key", "authorization", "secret", "password"} {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// MaskSecret keeps the first four characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "***"
	}
	return secret[:4] + "***"
}
