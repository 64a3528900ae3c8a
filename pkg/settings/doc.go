// Package settings persists user-facing studio state: the active provider
// configuration and the prompt-template maps.
//
// Values are stored as JSON documents under fixed keys (KeyProviderConfig,
// KeyFormatterPrompts, KeyGeneratorPrompts) in a key/value Store. Two
// backends are provided: MemoryStore for tests and ephemeral runs, and
// SQLiteStore for durable single-instance deployments.
//
// # Usage
//
//	store, err := settings.NewSQLiteStore("textstudio.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	s := settings.New(store)
//	cfg, found, err := s.ProviderConfig(ctx)
package settings
