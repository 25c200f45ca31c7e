package filerunner

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gosom/multirouter/gmaps"
)

// ResultWriter receives every trip result in input order.
type ResultWriter interface {
	Write(ctx context.Context, res *gmaps.TripResult) error
	Close() error
}

const absentValue = "None"

// CsvWriter writes trip results with every non numeric field quoted.
// Each row is flushed as soon as it is written.
type CsvWriter struct {
	mu       sync.Mutex
	fileName string
	file     *os.File
	buf      *bufio.Writer
	count    int

	OnWrite func(int)
}

// NewCsvWriter creates fileName and writes the header row.
func NewCsvWriter(fileName string) (*CsvWriter, error) {
	f, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create result file %s: %w", fileName, err)
	}

	w := CsvWriter{
		fileName: fileName,
		file:     f,
		buf:      bufio.NewWriter(f),
	}

	var header gmaps.TripResult
	if err := w.writeRecord(header.CsvHeaders()); err != nil {
		_ = f.Close()

		return nil, err
	}

	return &w, nil
}

func (w *CsvWriter) FileName() string {
	return w.fileName
}

// Count is the number of data rows written so far.
func (w *CsvWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.count
}

func (w *CsvWriter) Write(_ context.Context, res *gmaps.TripResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return fmt.Errorf("result file %s is closed", w.fileName)
	}

	if err := w.writeRecord(res.CsvRow()); err != nil {
		return err
	}

	w.count++

	if w.OnWrite != nil {
		w.OnWrite(1)
	}

	return nil
}

func (w *CsvWriter) writeRecord(cells []any) error {
	for i, cell := range cells {
		if i > 0 {
			if err := w.buf.WriteByte(','); err != nil {
				return err
			}
		}

		if _, err := w.buf.WriteString(formatCell(cell)); err != nil {
			return err
		}
	}

	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}

	return w.buf.Flush()
}

func formatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return quote(absentValue)
	case float64:
		return gmaps.FormatMiles(v)
	case int:
		return strconv.Itoa(v)
	case string:
		return quote(v)
	default:
		return quote(fmt.Sprint(v))
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Close flushes and closes the file. It is safe to call more than once.
func (w *CsvWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	flushErr := w.buf.Flush()
	err := w.file.Close()
	w.file = nil
	w.buf = nil

	if flushErr != nil {
		return flushErr
	}

	return err
}
