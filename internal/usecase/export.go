package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// Artifact file names read by the model trainers.
const (
	FileXTrain = "X_train.csv"
	FileXTest  = "X_test.csv"
	FileYTrain = "y_train.csv"
	FileYTest  = "y_test.csv"
)

// Exporter writes a prepared dataset to disk and, optionally, to a stream.
type Exporter struct {
	dir       string
	publisher drepo.DatasetPublisher
	l         *applogger.Logger
}

// NewExporter creates an exporter; publisher may be nil.
func NewExporter(dir string, publisher drepo.DatasetPublisher, l *applogger.Logger) *Exporter {
	return &Exporter{dir: dir, publisher: publisher, l: l}
}

// Export writes the CSV artifacts then publishes the rows when a publisher is set.
func (e *Exporter) Export(ctx context.Context, symbol string, ds *models.Dataset) ([]string, error) {
	paths, err := e.WriteCSV(ds)
	if err != nil {
		return nil, err
	}
	if e.publisher != nil {
		if err := e.publisher.PublishDataset(ctx, symbol, ds); err != nil {
			return paths, err
		}
	}
	return paths, nil
}

// WriteCSV writes the four artifacts. The first column of every file is event_date.
func (e *Exporter) WriteCSV(ds *models.Dataset) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	files := []struct {
		name string
		fn   func(w *csv.Writer) error
	}{
		{FileXTrain, func(w *csv.Writer) error { return writeMatrix(w, ds.Columns, ds.TrainDates, ds.XTrain) }},
		{FileXTest, func(w *csv.Writer) error { return writeMatrix(w, ds.Columns, ds.TestDates, ds.XTest) }},
		{FileYTrain, func(w *csv.Writer) error { return writeLabels(w, ds.TrainDates, ds.YTrain) }},
		{FileYTest, func(w *csv.Writer) error { return writeLabels(w, ds.TestDates, ds.YTest) }},
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(e.dir, f.name)
		if err := writeCSVFile(p, f.fn); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	e.l.Info("dataset exported",
		applogger.String("dir", e.dir),
		applogger.Int("train_rows", len(ds.XTrain)),
		applogger.Int("test_rows", len(ds.XTest)),
	)
	return paths, nil
}

// WriteJSON writes v as indented JSON under dir.
func WriteJSON(dir, name string, v interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return p, nil
}

func writeCSVFile(path string, fn func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := fn(w); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func writeMatrix(w *csv.Writer, columns []string, dates []time.Time, x [][]float64) error {
	if err := w.Write(append([]string{"event_date"}, columns...)); err != nil {
		return err
	}
	rec := make([]string, len(columns)+1)
	for i, row := range x {
		rec[0] = util.FormatDate(dates[i])
		for j, v := range row {
			rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeLabels(w *csv.Writer, dates []time.Time, y []bool) error {
	if err := w.Write([]string{"event_date", "target"}); err != nil {
		return err
	}
	for i, v := range y {
		label := "0"
		if v {
			label = "1"
		}
		if err := w.Write([]string{util.FormatDate(dates[i]), label}); err != nil {
			return err
		}
	}
	return nil
}
