package logger

import (
	"context"
	"os"
	"time"

	"github.com/ncobase/pagination/concurrency/worker"
	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/logging/logger/config"
	"github.com/sirupsen/logrus"
)

const (
	// hookTimeout bounds one log shipment
	hookTimeout   = 5 * time.Second
	hookQueueSize = 1024
)

// Indexer stores log documents
type Indexer interface {
	Index(ctx context.Context, req *search.IndexRequest) error
}

// SearchHook ships log entries to the search backend, one daily index
type SearchHook struct {
	indexer  Indexer
	config   *config.Config
	hostname string
	pool     *worker.Pool[*search.IndexRequest]
}

// NewSearchHook creates a hook writing through indexer
func NewSearchHook(indexer Indexer, cfg *config.Config) *SearchHook {
	if cfg == nil {
		cfg = &config.Config{}
	}
	hostname, _ := os.Hostname()
	return &SearchHook{indexer: indexer, config: cfg, hostname: hostname}
}

// Levels returns all log levels
func (h *SearchHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// NewAsyncSearchHook creates a hook that queues entries on a worker pool.
// Close must be called to flush the queue.
func NewAsyncSearchHook(indexer Indexer, cfg *config.Config, poolCfg *worker.Config) (*SearchHook, error) {
	h := NewSearchHook(indexer, cfg)
	pool, err := worker.NewPool(poolCfg, h.indexer.Index)
	if err != nil {
		return nil, err
	}
	pool.Start()
	h.pool = pool
	return h, nil
}

// Fire indexes entry, or queues it on an async hook
func (h *SearchHook) Fire(entry *logrus.Entry) error {
	req := &search.IndexRequest{
		Index:    h.config.BuildIndexName(entry.Time),
		Document: h.prepareLogDocument(entry),
	}
	if h.pool != nil {
		return h.pool.Submit(req)
	}

	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()
	return h.indexer.Index(ctx, req)
}

// Close flushes queued entries of an async hook
func (h *SearchHook) Close(ctx context.Context) error {
	if h.pool == nil {
		return nil
	}
	return h.pool.Stop(ctx)
}

// prepareLogDocument prepares the log document structure
func (h *SearchHook) prepareLogDocument(entry *logrus.Entry) map[string]any {
	logDoc := make(map[string]any, len(entry.Data)+5)

	for key, value := range entry.Data {
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		logDoc[key] = value
	}

	logDoc["@timestamp"] = entry.Time.Format(time.RFC3339)
	logDoc["timestamp"] = entry.Time.UnixMilli()
	logDoc["level"] = entry.Level.String()
	logDoc["message"] = entry.Message
	if h.hostname != "" {
		logDoc["hostname"] = h.hostname
	}

	return logDoc
}

// AddSearchHook ships every entry of l through indexer in the background.
// The returned func flushes pending entries.
func (l *Logger) AddSearchHook(indexer Indexer, cfg *config.Config) (func(), error) {
	h, err := NewAsyncSearchHook(indexer, cfg, &worker.Config{
		MaxWorkers:  1,
		QueueSize:   hookQueueSize,
		TaskTimeout: hookTimeout,
	})
	if err != nil {
		return nil, err
	}
	l.AddHook(h)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
		defer cancel()
		_ = h.Close(ctx)
	}, nil
}
