// Package csvwriter writes batch prediction results to CSV.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// SubmissionWriter writes one (Id, SalePrice) row per prediction.
type SubmissionWriter struct {
	file   *os.File
	writer *csv.Writer
	logger *zap.Logger
	mu     sync.Mutex
}

// NewSubmissionWriter creates the output file and writes the header.
func NewSubmissionWriter(filePath string, logger *zap.Logger) (*SubmissionWriter, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Id", "SalePrice"}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	return &SubmissionWriter{
		file:   file,
		writer: writer,
		logger: logger,
	}, nil
}

// Write appends one prediction row.
func (w *SubmissionWriter) Write(id int64, price float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	record := []string{
		strconv.FormatInt(id, 10),
		strconv.FormatFloat(price, 'f', -1, 64),
	}
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record to CSV: %w", err)
	}
	return nil
}

// Flush flushes any buffered data to the underlying file.
func (w *SubmissionWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writer.Flush()
}

// Close flushes and closes the file.
func (w *SubmissionWriter) Close() error {
	w.Flush()
	if err := w.file.Close(); err != nil {
		return err
	}
	w.logger.Info("submission file written", zap.String("path", w.file.Name()))
	return nil
}
