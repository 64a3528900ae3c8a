package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/studio"
)

// FormatRequest is the body of POST /api/format.
type FormatRequest struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// CompletionResponse is returned by the format and generate endpoints.
type CompletionResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// ChatCompletionRequest is the body of POST /v1/chat/completions.
type ChatCompletionRequest struct {
	Messages []providers.Message `json:"messages"`
}

// ChatCompletionResponse is an OpenAI-shaped completion.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice is one completion choice.
type ChatChoice struct {
	Index        int               `json:"index"`
	Message      providers.Message `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

func (a *API) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	result, err := a.formatter.Format(r.Context(), req.Text, req.Style)
	a.writeCompletion(w, r, result, err)
}

func (a *API) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req studio.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	result, err := a.generator.Generate(r.Context(), req)
	a.writeCompletion(w, r, result, err)
}

func (a *API) writeCompletion(w http.ResponseWriter, r *http.Request, result *providers.CompletionResult, err error) {
	if errors.Is(err, studio.ErrEmptyInput) {
		writeBadRequest(w, r, err.Error())
		return
	}
	if err != nil {
		writeGatewayError(w, r, err)
		return
	}

	html, renderErr := a.renderer.Render(result.Content)
	if renderErr != nil {
		// Markdown is still usable without its HTML rendition
		a.logger.WarnContext(r.Context(), "failed to render completion", "error", renderErr)
	}

	writeJSON(w, r, http.StatusOK, CompletionResponse{
		Role:    result.Role,
		Content: result.Content,
		HTML:    html,
	})
}

func (a *API) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req ChatCompletionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeBadRequest(w, r, "messages must not be empty")
		return
	}
	for i, msg := range req.Messages {
		switch msg.Role {
		case providers.RoleSystem, providers.RoleUser, providers.RoleAssistant:
		default:
			writeBadRequest(w, r, fmt.Sprintf("messages[%d]: invalid role %q", i, msg.Role))
			return
		}
	}

	result, err := a.gateway.CreateCompletion(r.Context(), req.Messages)
	if err != nil {
		writeGatewayError(w, r, err)
		return
	}

	cfg := a.gateway.Config()
	model := cfg.ResolvedModel()
	if model == "" {
		model = cfg.Provider
	}

	writeJSON(w, r, http.StatusOK, ChatCompletionResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []ChatChoice{{
			Index:        0,
			Message:      providers.Message{Role: result.Role, Content: result.Content},
			FinishReason: "stop",
		}},
	})
}

func (a *API) handleResetConversations(w http.ResponseWriter, r *http.Request) {
	switch feature := r.URL.Query().Get("feature"); feature {
	case "":
		a.formatter.History().Reset()
		a.generator.History().Reset()
	case "format":
		a.formatter.History().Reset()
	case "generate":
		a.generator.History().Reset()
	default:
		writeBadRequest(w, r, fmt.Sprintf("unknown feature %q", feature))
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "reset"})
}
