package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/settings"
	"mercator-hq/textstudio/pkg/studio"
)

// ConfigResponse is the provider config with the token masked.
type ConfigResponse struct {
	Provider    string                   `json:"provider"`
	Token       string                   `json:"token"`
	Model       string                   `json:"model"`
	Endpoint    string                   `json:"endpoint"`
	CustomModel string                   `json:"customModel,omitempty"`
	Connection  gateway.ConnectionResult `json:"connection"`
}

func (a *API) configResponse(cfg providers.ProviderConfig) ConfigResponse {
	return ConfigResponse{
		Provider:    cfg.Provider,
		Token:       cfg.MaskedToken(),
		Model:       cfg.Model,
		Endpoint:    cfg.Endpoint,
		CustomModel: cfg.CustomModel,
		Connection:  a.gateway.TestConnection(&cfg),
	}
}

func (a *API) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, a.configResponse(a.gateway.Config()))
}

func (a *API) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var update gateway.ConfigUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if update.Provider != nil {
		if _, ok := providers.ParseProviderID(*update.Provider); !ok {
			writeBadRequest(w, r, fmt.Sprintf("unknown provider %q", *update.Provider))
			return
		}
	}

	cfg := a.gateway.Configure(update)
	a.logger.InfoContext(r.Context(), "provider configuration updated",
		"provider", cfg.Provider,
		"model", cfg.ResolvedModel(),
	)

	a.persist(r.Context(), "provider config", func(s *settings.Settings) error {
		return s.SaveProviderConfig(r.Context(), cfg)
	})

	writeJSON(w, r, http.StatusOK, a.configResponse(cfg))
}

func (a *API) handleTestConfig(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		writeJSON(w, r, http.StatusOK, a.gateway.TestConnection(nil))
		return
	}

	var update gateway.ConfigUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	target := update.Apply(a.gateway.Config())
	writeJSON(w, r, http.StatusOK, a.gateway.TestConnection(&target))
}

func (a *API) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, providers.Catalog())
}

func (a *API) handleHuggingFaceAvailability(w http.ResponseWriter, r *http.Request) {
	if a.modelChecker == nil {
		writeServerError(w, r, "model availability check is not configured", nil)
		return
	}

	model := strings.TrimSpace(r.URL.Query().Get("model"))
	if model == "" {
		writeBadRequest(w, r, "model query parameter is required")
		return
	}

	result := a.modelChecker.CheckModelAvailability(r.Context(), model, a.gateway.Config().TrimmedToken())
	writeJSON(w, r, http.StatusOK, result)
}

func (a *API) handleGitHubModels(w http.ResponseWriter, r *http.Request) {
	if a.modelLister == nil {
		writeServerError(w, r, "model listing is not configured", nil)
		return
	}

	models, err := a.modelLister.GetAvailableModels(r.Context(), a.gateway.Config().TrimmedToken())
	if err != nil {
		writeJSON(w, r, http.StatusBadGateway, ErrorResponse{Error: ErrorDetail{
			Provider:      string(providers.ProviderGitHub),
			OriginalError: err.Error(),
			Type:          ErrorTypeProvider,
		}})
		return
	}

	writeJSON(w, r, http.StatusOK, models)
}

func (a *API) handleGetPrompts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, a.prompts.Templates())
}

func (a *API) handlePutPrompts(w http.ResponseWriter, r *http.Request) {
	var templates studio.Templates
	if err := decodeJSON(r, &templates); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if templates.Format == nil && templates.Generate == nil {
		writeBadRequest(w, r, "at least one of format or generate is required")
		return
	}

	a.prompts.Set(templates)
	a.persist(r.Context(), "prompts", func(s *settings.Settings) error {
		return s.SavePrompts(r.Context(), templates)
	})

	writeJSON(w, r, http.StatusOK, a.prompts.Templates())
}
