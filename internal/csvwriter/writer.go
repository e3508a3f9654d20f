package csvwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/your-org/acai-demand-study/internal/config"
	"github.com/your-org/acai-demand-study/internal/regression"
	"github.com/your-org/acai-demand-study/internal/synth"
)

// Column headers of the output tables.
var (
	DatasetHeader  = []string{"Data", "Demanda", "Temperatura", "Fim_de_Semana", "Feriado", "Previsao"}
	ForecastHeader = []string{"Data", "Temperatura_Prevista", "Fim_de_Semana", "Demanda_Prevista"}
)

// Writer is a simple CSV writer.
type Writer struct {
	file   *os.File
	writer *csv.Writer
	logger *zap.Logger
	mu     sync.Mutex
	rows   int
}

// NewWriter creates (or truncates) filePath for writing.
func NewWriter(filePath string, logger *zap.Logger) (*Writer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	return &Writer{
		file:   file,
		writer: csv.NewWriter(file),
		logger: logger.With(zap.String("file", filePath)),
	}, nil
}

// Write writes a record to the CSV file.
func (w *Writer) Write(record []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record to CSV: %w", err)
	}
	w.rows++
	return nil
}

// Flush flushes any buffered data to the underlying file.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	flushErr := w.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush CSV: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close CSV file: %w", closeErr)
	}
	w.logger.Debug("CSV file closed", zap.Int("rows", w.rows))
	return nil
}

// WriteDataset writes the observations with their in-sample predictions.
func WriteDataset(path string, ds synth.Dataset, predictions []float64, logger *zap.Logger) error {
	if len(predictions) != len(ds) {
		return fmt.Errorf("dataset has %d rows but %d predictions", len(ds), len(predictions))
	}
	records := make([][]string, len(ds))
	for i, o := range ds {
		records[i] = []string{
			o.Date.Format(config.DateLayout),
			formatFloat(o.Demand),
			formatFloat(o.Temperature),
			strconv.Itoa(o.IsWeekend),
			strconv.Itoa(o.IsHoliday),
			formatFloat(predictions[i]),
		}
	}
	return writeTable(path, DatasetHeader, records, logger)
}

// WriteForecast writes the forecast table.
func WriteForecast(path string, forecast []regression.ForecastRecord, logger *zap.Logger) error {
	records := make([][]string, len(forecast))
	for i, f := range forecast {
		records[i] = []string{
			f.Date.Format(config.DateLayout),
			formatFloat(f.Temperature),
			strconv.Itoa(f.IsWeekend),
			formatFloat(f.Demand),
		}
	}
	return writeTable(path, ForecastHeader, records, logger)
}

func writeTable(path string, header []string, records [][]string, logger *zap.Logger) (err error) {
	w, err := NewWriter(path, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// formatFloat uses the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
