package journal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/telemetry/logging"
)

// Config contains configuration for the Recorder.
type Config struct {
	// AsyncBuffer is the size of the write queue.
	// Default: 256
	AsyncBuffer int

	// WriteTimeout bounds enqueueing and each storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// MaxFieldLength truncates prompt and response text.
	// Default: 500
	MaxFieldLength int

	// Redactor scrubs credentials from stored text. Nil disables redaction.
	Redactor *logging.Redactor
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		AsyncBuffer:    256,
		WriteTimeout:   5 * time.Second,
		MaxFieldLength: 500,
		Redactor:       logging.NewRedactor(nil),
	}
}

// Recorder journals gateway completions asynchronously.
type Recorder struct {
	storage Storage
	config  *Config
	records chan *Record
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	logger  *slog.Logger
}

var _ gateway.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder writing to storage and starts its worker.
func NewRecorder(storage Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 256
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	if config.MaxFieldLength <= 0 {
		config.MaxFieldLength = 500
	}

	r := &Recorder{
		storage: storage,
		config:  config,
		records: make(chan *Record, config.AsyncBuffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "journal.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// ObserveCompletion implements gateway.Observer.
func (r *Recorder) ObserveCompletion(ctx context.Context, outcome gateway.Outcome) {
	record := r.newRecord(ctx, outcome)

	select {
	case <-r.done:
		r.logger.Warn("recorder closed, dropping record", "record_id", record.ID)
		return
	default:
	}

	select {
	case r.records <- record:
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("journal queue full, dropping record",
			"record_id", record.ID,
			"capacity", r.config.AsyncBuffer,
		)
	case <-r.done:
		r.logger.Warn("recorder closed, dropping record", "record_id", record.ID)
	}
}

func (r *Recorder) newRecord(ctx context.Context, outcome gateway.Outcome) *Record {
	record := &Record{
		ID:          uuid.New().String(),
		RequestID:   logging.GetRequestID(ctx),
		Time:        time.Now().UTC(),
		Provider:    outcome.Provider,
		Model:       outcome.Model,
		Messages:    len(outcome.Messages),
		RequestHash: HashMessages(outcome.Messages),
		Latency:     outcome.Duration,
		Status:      StatusSuccess,
	}

	if last, ok := providers.LastUserMessage(outcome.Messages); ok {
		record.Prompt = r.clean(last.Content)
	}
	if outcome.Result != nil {
		record.Response = r.clean(outcome.Result.Content)
	}
	if outcome.Err != nil {
		record.Status = StatusError
		record.Error = r.clean(outcome.Err.Error())
		record.ErrorKind = providers.ErrorKind(outcome.Err)
	}

	return record
}

func (r *Recorder) clean(s string) string {
	if r.config.Redactor != nil {
		s = r.config.Redactor.RedactString(s)
	}
	return truncate(s, r.config.MaxFieldLength)
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.records:
			r.write(record)
		case <-r.done:
			// Drain what is already queued
			for {
				select {
				case record := <-r.records:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store journal record",
			"record_id", record.ID,
			"error", err,
		)
		return
	}
	r.logger.Debug("journal record stored",
		"record_id", record.ID,
		"provider", record.Provider,
		"status", record.Status,
	)
}

// Close stops accepting records and waits for queued writes.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		close(r.done)
		r.wg.Wait()
	})
	return nil
}

// HashMessages returns the hex SHA-256 of the JSON-encoded messages.
func HashMessages(messages []providers.Message) string {
	data, err := json.Marshal(messages)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	s = s[:limit]
	for !utf8.ValidString(s) && len(s) > 0 {
		s = s[:len(s)-1]
	}
	return s + "..."
}
