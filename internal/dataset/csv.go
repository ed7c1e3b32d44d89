package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Row maps a column header to its raw string value.
type Row map[string]string

// RowReader turns CSV records into header-keyed rows.
type RowReader struct {
	csvreader *csv.Reader
	headers   []string
	line      int
}

// NewRowReader reads the header line from r.
func NewRowReader(r io.Reader) (*RowReader, error) {
	rdr := &RowReader{csvreader: csv.NewReader(r)}
	rdr.csvreader.TrimLeadingSpace = true

	headers, err := rdr.csvreader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range headers {
		// Excel-exported files often start with a UTF-8 byte order mark.
		headers[i] = normalizeText(strings.TrimPrefix(h, "\ufeff"))
	}
	rdr.headers = headers
	rdr.line = 1
	return rdr, nil
}

// Headers returns the normalized header names.
func (r *RowReader) Headers() []string {
	return r.headers
}

// Line returns the 1-based line number of the last record read.
func (r *RowReader) Line() int {
	return r.line
}

// Read returns the next row, or io.EOF.
func (r *RowReader) Read() (Row, error) {
	vals, err := r.csvreader.Read()
	if err != nil {
		return nil, err
	}
	r.line++
	if len(vals) != len(r.headers) {
		return nil, fmt.Errorf("header/value mismatch (%d/%d)", len(r.headers), len(vals))
	}

	row := make(Row, len(vals))
	for i := range vals {
		row[r.headers[i]] = vals[i]
	}
	return row, nil
}

// ReadCSV parses a full CSV stream into a Table.
func ReadCSV(r io.Reader) (*Table, error) {
	rdr, err := NewRowReader(r)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeMalformedRow, Message: "unreadable CSV header", Err: err}
	}
	if err := checkColumns(rdr.Headers()); err != nil {
		return nil, err
	}

	var records []LaunchRecord
	for {
		row, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The csv package reports its own line numbers; ours only counts successful reads.
			return nil, &LoadError{Code: ErrCodeMalformedRow, Message: fmt.Sprintf("line %d", rdr.Line()+1), Err: err}
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeMalformedRow, Message: fmt.Sprintf("line %d", rdr.Line()), Err: err}
		}
		records = append(records, rec)
	}

	return buildTable(records)
}

// checkColumns reports the first required column missing from headers.
func checkColumns(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, col := range RequiredColumns {
		if !present[col] {
			return &LoadError{Code: ErrCodeMissingColumn, Message: fmt.Sprintf("missing required column %q", col)}
		}
	}
	return nil
}

// parseRow converts raw column values into a validated LaunchRecord.
func parseRow(row Row) (LaunchRecord, error) {
	var rec LaunchRecord

	rec.Site = normalizeText(row[ColumnSite])
	rec.BoosterCategory = normalizeText(row[ColumnBoosterCategory])
	rec.BoosterVersion = normalizeText(row[ColumnBoosterVersion])

	payload, err := strconv.ParseFloat(strings.TrimSpace(row[ColumnPayload]), 64)
	if err != nil {
		return rec, fmt.Errorf("%q: %w", ColumnPayload, err)
	}
	rec.PayloadMassKg = payload

	class, err := strconv.ParseFloat(strings.TrimSpace(row[ColumnClass]), 64)
	if err != nil {
		return rec, fmt.Errorf("%q: %w", ColumnClass, err)
	}
	switch class {
	case 0:
		rec.Outcome = Failure
	case 1:
		rec.Outcome = Success
	default:
		return rec, fmt.Errorf("%q must be 0 or 1, got %v", ColumnClass, class)
	}

	if raw := strings.TrimSpace(row[ColumnFlightNumber]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return rec, fmt.Errorf("%q: %w", ColumnFlightNumber, err)
		}
		rec.FlightNumber = n
	}

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

func buildTable(records []LaunchRecord) (*Table, error) {
	if len(records) == 0 {
		return nil, &LoadError{Code: ErrCodeEmpty, Message: "dataset has no rows"}
	}
	t, err := NewTable(records)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeMalformedRow, Message: "invalid dataset", Err: err}
	}
	return t, nil
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
