package runner

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// LocationReader streams location labels from a CSV list, one per record,
// taking the first column only. There is no header row.
type LocationReader struct {
	f   *os.File
	r   *csv.Reader
	pos int
}

func OpenLocations(path string) (*LocationReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open location list: %w", err)
	}

	lr := NewLocationReader(f)
	lr.f = f

	return lr, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewLocationReader reads locations from r. A leading UTF-8 BOM is skipped
// and stray quotes inside unquoted fields are kept as they are.
func NewLocationReader(r io.Reader) *LocationReader {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	return &LocationReader{r: cr}
}

// Next returns the next location and its zero based position. It returns
// io.EOF after the last record.
func (lr *LocationReader) Next() (int, string, error) {
	record, err := lr.r.Read()
	if errors.Is(err, io.EOF) {
		return 0, "", io.EOF
	}

	if err != nil {
		return 0, "", fmt.Errorf("failed to read location %d: %w", lr.pos+1, err)
	}

	pos := lr.pos
	lr.pos++

	return pos, record[0], nil
}

func (lr *LocationReader) Close() error {
	if lr.f == nil {
		return nil
	}

	return lr.f.Close()
}
