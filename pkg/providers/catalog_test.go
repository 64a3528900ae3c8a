package providers

import (
	"errors"
	"testing"
)

func TestCatalog(t *testing.T) {
	entries := Catalog()
	if len(entries) != len(AllProviderIDs) {
		t.Fatalf("expected %d entries, got %d", len(AllProviderIDs), len(entries))
	}

	for i, id := range AllProviderIDs {
		if entries[i].ID != id {
			t.Errorf("entry %d: expected %s, got %s", i, id, entries[i].ID)
		}
		if id != ProviderMock && len(entries[i].ModelOptions) == 0 {
			t.Errorf("entry %s has no model options", id)
		}
		wantToken := id != ProviderMock
		if entries[i].TokenRequired != wantToken {
			t.Errorf("entry %s: expected TokenRequired=%v", id, wantToken)
		}
	}

	// Returned entries are copies
	entries[1].ModelOptions[0].Value = "mutated"
	fresh, _ := LookupCatalog(entries[1].ID)
	if fresh.ModelOptions[0].Value == "mutated" {
		t.Error("catalog was mutated through a returned entry")
	}
}

func TestLookupCatalog(t *testing.T) {
	entry, ok := LookupCatalog(ProviderAzure)
	if !ok {
		t.Fatal("expected azure entry")
	}
	if !entry.EndpointRequired {
		t.Error("expected azure to require an endpoint")
	}

	if _, ok := LookupCatalog("nope"); ok {
		t.Error("expected unknown provider lookup to fail")
	}
}

func TestCatalogEntry_Validate(t *testing.T) {
	azure, _ := LookupCatalog(ProviderAzure)
	mock, _ := LookupCatalog(ProviderMock)
	hf, _ := LookupCatalog(ProviderHuggingFace)

	tests := []struct {
		name      string
		entry     CatalogEntry
		cfg       ProviderConfig
		wantField string
	}{
		{name: "mock needs nothing", entry: mock, cfg: ProviderConfig{}},
		{name: "azure missing token", entry: azure, cfg: ProviderConfig{Token: "  ", Endpoint: "https://x"}, wantField: "token"},
		{name: "azure missing endpoint", entry: azure, cfg: ProviderConfig{Token: "k"}, wantField: "endpoint"},
		{name: "azure complete", entry: azure, cfg: ProviderConfig{Token: "k", Endpoint: "https://x"}},
		{name: "custom model missing", entry: hf, cfg: ProviderConfig{Token: "k", Model: ModelCustom}, wantField: "customModel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate(tt.cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, cfgErr.Field)
			}
		})
	}
}
