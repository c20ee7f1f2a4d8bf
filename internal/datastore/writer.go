// Package datastore records served quotes to Postgres in the background.
// Logging quotes is best effort and optional; serving works without it.
package datastore

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Quote is one served prediction together with the inputs that produced it.
type Quote struct {
	Time           time.Time `db:"time"`
	RequestID      string    `db:"request_id"`
	LotArea        float64   `db:"lot_area"`
	YearBuilt      int       `db:"year_built"`
	YearRemodAdd   int       `db:"year_remod_add"`
	YrSold         int       `db:"yr_sold"`
	OverallQual    int       `db:"overall_qual"`
	OverallCond    int       `db:"overall_cond"`
	PredictedPrice float64   `db:"predicted_price"`
}

// QuoteWriter is the interface the HTTP layer logs quotes through. It
// allows substituting the in-memory writer in tests.
type QuoteWriter interface {
	SaveQuote(q Quote)
	Close()
}

// Pool abstracts the pgxpool.Pool for testability.
type Pool interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var quoteColumns = []string{
	"time", "request_id", "lot_area", "year_built", "year_remod_add",
	"yr_sold", "overall_qual", "overall_cond", "predicted_price",
}

// Writer buffers quotes and batch-inserts them into the quotes table.
type Writer struct {
	pool          Pool
	logger        *zap.Logger
	batchSize     int
	flushInterval time.Duration

	mu     sync.Mutex
	buffer []Quote

	shutdownChan chan struct{}
	done         chan struct{}
}

// NewWriter creates a quote writer over the given pool. A nil pool yields
// a no-op writer so callers need not special-case a disabled database.
func NewWriter(pool Pool, batchSize int, flushInterval time.Duration, logger *zap.Logger) QuoteWriter {
	if pool == nil {
		logger.Info("quote log database not configured, using no-op writer")
		return &noopWriter{}
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = time.Second
	}

	w := &Writer{
		pool:          pool,
		logger:        logger,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		buffer:        make([]Quote, 0, batchSize),
		shutdownChan:  make(chan struct{}),
		done:          make(chan struct{}),
	}
	go w.run()
	return w
}

// SaveQuote buffers a quote for the next batch insert. It never blocks on
// the database.
func (w *Writer) SaveQuote(q Quote) {
	w.mu.Lock()
	w.buffer = append(w.buffer, q)
	shouldFlush := len(w.buffer) >= w.batchSize
	w.mu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// Close flushes any buffered quotes and stops the background loop.
func (w *Writer) Close() {
	close(w.shutdownChan)
	<-w.done
}

func (w *Writer) run() {
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()
	defer close(w.done)

	for {
		select {
		case <-ticker.C:
			w.flush()
		case <-w.shutdownChan:
			w.flush()
			return
		}
	}
}

func (w *Writer) flush() {
	w.mu.Lock()
	if len(w.buffer) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.buffer
	w.buffer = make([]Quote, 0, w.batchSize)
	w.mu.Unlock()

	rows := make([][]interface{}, len(batch))
	for i, q := range batch {
		rows[i] = []interface{}{
			q.Time, q.RequestID, q.LotArea, q.YearBuilt, q.YearRemodAdd,
			q.YrSold, q.OverallQual, q.OverallCond, q.PredictedPrice,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := w.pool.CopyFrom(ctx, pgx.Identifier{"quotes"}, quoteColumns, pgx.CopyFromRows(rows))
	if err != nil {
		// Quote logging is best effort: drop the batch and keep serving.
		w.logger.Error("failed to write quote batch", zap.Error(err), zap.Int("batchSize", len(batch)))
		return
	}
	w.logger.Debug("wrote quote batch", zap.Int64("count", count))
}

// noopWriter discards quotes. Used when no database is configured.
type noopWriter struct{}

func (*noopWriter) SaveQuote(Quote) {}
func (*noopWriter) Close()          {}
