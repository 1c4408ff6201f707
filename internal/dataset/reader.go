package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/john-thuo1/sentiment/internal/domain"
)

// Read detects the encoding of raw, decodes it and parses the CSV rows.
// Header names are trimmed and lower-cased. The schema is not validated.
func Read(name string, raw []byte) (*domain.Dataset, error) {
	charset, err := DetectEncoding(raw)
	if err != nil {
		return nil, err
	}
	text, err := Decode(raw, charset)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptyFile
		}
		return nil, fmt.Errorf("%w: read %q header: %v", domain.ErrMalformedCSV, name, err)
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = normalizeHeader(col)
	}

	ds := &domain.Dataset{
		SourceName: name,
		Encoding:   charset,
		Columns:    columns,
		Records:    make([]domain.ReviewRecord, 0, 64),
	}

	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: read %q row: %v", domain.ErrMalformedCSV, name, err)
		}
		if len(row) > len(columns) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: %q line %d: expected %d fields, saw %d",
				domain.ErrMalformedCSV, name, line, len(columns), len(row))
		}
		ds.Records = append(ds.Records, domain.ReviewRecord{Fields: alignRow(row, len(columns))})
	}

	populate(ds)
	slog.Info("CSV file read", "file", name, "encoding", charset, "rows", len(ds.Records))
	return ds, nil
}

// LoadReviews reads a raw review upload: the required columns are checked,
// the date column is normalized and every score is reset to the sentinel.
func LoadReviews(name string, raw []byte) (*domain.Dataset, error) {
	ds, err := Read(name, raw)
	if err != nil {
		return nil, err
	}
	if err := CheckColumns(ds.Columns, domain.RequiredColumns); err != nil {
		slog.Warn("missing required columns in CSV", "file", name, "error", err)
		return nil, err
	}
	if err := NormalizeDateColumn(ds); err != nil {
		return nil, err
	}

	for i := range ds.Records {
		ds.Records[i].SetScore(domain.UnscoredScore)
	}
	ds.Scored = false
	return ds, nil
}

// LoadScored reads a file previously exported by the analyzer.
func LoadScored(name string, raw []byte) (*domain.Dataset, error) {
	ds, err := Read(name, raw)
	if err != nil {
		return nil, err
	}
	if err := CheckColumns(ds.Columns, domain.ScoredColumns); err != nil {
		return nil, err
	}
	if err := NormalizeDateColumn(ds); err != nil {
		return nil, err
	}

	scoreIdx := ds.ColumnIndex(domain.ColumnSentimentScore)
	for i := range ds.Records {
		score, _ := parseScore(valueAt(ds.Records[i].Fields, scoreIdx))
		ds.Records[i].SetScore(score)
	}
	ds.Scored = true
	return ds, nil
}

// populate fills the typed record fields from the raw cells.
func populate(ds *domain.Dataset) {
	productIdx := ds.ColumnIndex(domain.ColumnProductName)
	reviewIdx := ds.ColumnIndex(domain.ColumnReview)
	monthIdx := ds.ColumnIndex(domain.ColumnMonth)
	yearIdx := ds.ColumnIndex(domain.ColumnYear)

	for i := range ds.Records {
		rec := &ds.Records[i]
		rec.ProductName = strings.TrimSpace(valueAt(rec.Fields, productIdx))
		rec.Review = valueAt(rec.Fields, reviewIdx)
		if m, ok := domain.ParseMonth(valueAt(rec.Fields, monthIdx)); ok {
			rec.Month = m
		}
		if y, ok := domain.ParseYear(valueAt(rec.Fields, yearIdx)); ok {
			rec.Year = y
		}
	}
}

func parseScore(raw string) (int, bool) {
	s := strings.TrimSuffix(strings.TrimSpace(raw), ".0")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 5 {
		return domain.UnscoredScore, false
	}
	return n, true
}

// alignRow pads short rows to the header width.
func alignRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func valueAt(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return record[index]
}

func normalizeHeader(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
	return strings.ToLower(s)
}
