package domain

import (
	"strconv"
	"strings"
	"time"
)

// ReviewRecord is one row of an uploaded review file.
type ReviewRecord struct {
	ProductName    string     `json:"product_name"`
	Review         string     `json:"review"`
	Month          time.Month `json:"month,omitempty"` // 0 when the cell is not a recognisable month
	Year           int        `json:"year,omitempty"`
	Date           time.Time  `json:"date,omitzero"`
	SentimentScore int        `json:"sentiment_score"`
	Overall        Label      `json:"overall"`

	// Fields holds the raw cells in Dataset.Columns order.
	Fields []string `json:"fields"`
}

// HasDate reports whether the record carries a parsed date.
func (r ReviewRecord) HasDate() bool {
	return !r.Date.IsZero()
}

// SetScore stores a score and the label derived from it.
func (r *ReviewRecord) SetScore(score int) {
	r.SentimentScore = score
	r.Overall = LabelForScore(score)
}

// Dataset is an ordered collection of review records sharing one header.
type Dataset struct {
	SourceName string         `json:"source_name"`
	Encoding   string         `json:"encoding"`
	Columns    []string       `json:"columns"`
	Records    []ReviewRecord `json:"records"`
	Scored     bool           `json:"scored"`
}

// ColumnIndex returns the position of a column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Head returns up to n leading records.
func (d *Dataset) Head(n int) []ReviewRecord {
	if n > len(d.Records) {
		n = len(d.Records)
	}
	return d.Records[:n]
}

// CanonicalMonths is the fixed January..December ordering used by month views.
var CanonicalMonths = []time.Month{
	time.January, time.February, time.March, time.April, time.May, time.June,
	time.July, time.August, time.September, time.October, time.November, time.December,
}

// ParseMonth accepts full English month names, three letter abbreviations
// and the numbers 1-12.
func ParseMonth(raw string) (time.Month, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	for _, m := range CanonicalMonths {
		name := strings.ToLower(m.String())
		if s == name || s == name[:3] {
			return m, true
		}
	}
	return 0, false
}

// ParseYear parses a year cell. Spreadsheet exports such as "2023.0" are accepted.
func ParseYear(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".0")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
