package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// KeyColumns form the natural key of an observation together with its
// indicator or description.
var KeyColumns = []string{"periodo", "pais", "provincia", "tamano_empresa", "sector"}

// nullKey stands in for null key parts so that nulls compare equal.
const nullKey = "nan"

// BatchError is a source file that could not be read or parsed.
type BatchError struct {
	Path string
	Err  error
}

func (e *BatchError) Error() string { return fmt.Sprintf("batch %s: %v", e.Path, e.Err) }

func (e *BatchError) Unwrap() error { return e.Err }

// Batch is one CSV file as header-keyed rows.
type Batch struct {
	Path    string
	Columns []string
	Rows    []map[string]string
}

// ReadBatch reads a CSV file whose header must contain valueColumn. Missing
// key columns are added with null values.
func ReadBatch(path, valueColumn string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &BatchError{Path: path, Err: err}
	}
	defer f.Close()

	b, err := parseBatch(f, valueColumn)
	if err != nil {
		return nil, &BatchError{Path: path, Err: err}
	}
	b.Path = path
	return b, nil
}

func parseBatch(r io.Reader, valueColumn string) (*Batch, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	b := &Batch{Columns: header}
	if !b.Has(valueColumn) {
		return nil, fmt.Errorf("value column %q not in header", valueColumn)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = strings.TrimSpace(record[i])
		}
		b.Rows = append(b.Rows, row)
	}

	for _, col := range KeyColumns {
		if !b.Has(col) {
			b.Columns = append(b.Columns, col)
			for _, row := range b.Rows {
				row[col] = ""
			}
		}
	}
	return b, nil
}

func (b *Batch) Has(col string) bool {
	for _, c := range b.Columns {
		if c == col {
			return true
		}
	}
	return false
}

func isNull(s string) bool {
	return s == "" || strings.EqualFold(s, nullKey) || strings.EqualFold(s, "null")
}

func nullable(s string) *string {
	if isNull(s) {
		return nil
	}
	return &s
}

// parsePeriod accepts integral years, including the "2023.0" form written by
// tools that store integer columns with nulls as floats.
func parsePeriod(s string) (*int, error) {
	if isNull(s) {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return nil, fmt.Errorf("invalid period %q", s)
	}
	n := int(f)
	return &n, nil
}

func parseValue(s string) (decimal.NullDecimal, error) {
	if isNull(s) {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid value %q", s)
	}
	return decimal.NewNullDecimal(d), nil
}

// naturalKey is the normalized key tuple of an observation.
type naturalKey [5]string

func newKey(period *int, country, province, size, sector *string) naturalKey {
	part := func(s *string) string {
		if s == nil {
			return nullKey
		}
		return *s
	}
	k := naturalKey{nullKey, part(country), part(province), part(size), part(sector)}
	if period != nil {
		k[0] = strconv.Itoa(*period)
	}
	return k
}
