package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/studio"
)

// Settings reads and writes typed settings documents on a Store.
type Settings struct {
	store Store
}

// New creates Settings backed by store.
func New(store Store) *Settings {
	return &Settings{store: store}
}

// Store returns the underlying store.
func (s *Settings) Store() Store {
	return s.store
}

// ProviderConfig loads the persisted provider configuration.
// found is false when nothing has been saved yet.
func (s *Settings) ProviderConfig(ctx context.Context) (cfg providers.ProviderConfig, found bool, err error) {
	found, err = s.load(ctx, KeyProviderConfig, &cfg)
	return cfg, found, err
}

// SaveProviderConfig persists cfg.
func (s *Settings) SaveProviderConfig(ctx context.Context, cfg providers.ProviderConfig) error {
	return s.save(ctx, KeyProviderConfig, cfg)
}

// Prompts loads the persisted prompt maps. A map that was never saved is nil.
func (s *Settings) Prompts(ctx context.Context) (studio.Templates, error) {
	var t studio.Templates
	if _, err := s.load(ctx, KeyFormatterPrompts, &t.Format); err != nil {
		return studio.Templates{}, err
	}
	if _, err := s.load(ctx, KeyGeneratorPrompts, &t.Generate); err != nil {
		return studio.Templates{}, err
	}
	return t, nil
}

// SavePrompts persists the non-nil maps of t.
func (s *Settings) SavePrompts(ctx context.Context, t studio.Templates) error {
	if t.Format != nil {
		if err := s.save(ctx, KeyFormatterPrompts, t.Format); err != nil {
			return err
		}
	}
	if t.Generate != nil {
		if err := s.save(ctx, KeyGeneratorPrompts, t.Generate); err != nil {
			return err
		}
	}
	return nil
}

func (s *Settings) load(ctx context.Context, key string, out any) (bool, error) {
	data, found, err := s.store.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("failed to decode setting %q: %w", key, err)
	}
	return true, nil
}

func (s *Settings) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode setting %q: %w", key, err)
	}
	return s.store.Put(ctx, key, data)
}
