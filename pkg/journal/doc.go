// Package journal records every completion attempt made through the gateway.
//
// A Recorder implements gateway.Observer. It turns each Outcome into a
// Record (UUID, hashed request, truncated and redacted prompt and reply,
// latency, error kind) and writes it asynchronously to a Storage backend so
// completions never block on disk.
//
// Storage backends:
//   - MemoryStorage: process-local, for tests and ephemeral runs
//   - SQLiteStorage: durable, on github.com/mattn/go-sqlite3
//
// A Pruner enforces retention by age and record count, and a Scheduler
// runs it on a cron schedule (github.com/robfig/cron/v3).
package journal
