package dataset

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/john-thuo1/sentiment/internal/domain"
)

const (
	isoLayout = "2006-01-02"
	dmyLayout = "2-1-06"
)

// DateFormat names the layout a date column was recognised as.
type DateFormat string

const (
	DateFormatISO DateFormat = "YYYY-MM-DD"
	DateFormatDMY DateFormat = "DD-MM-YY"
)

var isoPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// NormalizeDates coerces a date column into calendar dates. When every
// non-empty value starts with an ISO date the column is left untouched;
// otherwise the whole column is reparsed as DD-MM-YY and rewritten in ISO
// form. Columns mixing both formats are rejected.
func NormalizeDates(values []string) ([]string, []time.Time, DateFormat, error) {
	normalized := make([]string, len(values))
	parsed := make([]time.Time, len(values))

	iso := true
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !isoPattern.MatchString(v) {
			iso = false
			break
		}
	}

	if iso {
		for i, v := range values {
			trimmed := strings.TrimSpace(v)
			normalized[i] = v
			if trimmed == "" {
				continue
			}
			t, err := time.Parse(isoLayout, trimmed[:10])
			if err != nil {
				return nil, nil, "", fmt.Errorf("%w: %q", domain.ErrInvalidDateFormat, v)
			}
			parsed[i] = t
		}
		return normalized, parsed, DateFormatISO, nil
	}

	for i, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		t, err := time.Parse(dmyLayout, trimmed)
		if err != nil {
			return nil, nil, "", fmt.Errorf("%w: %q", domain.ErrInvalidDateFormat, v)
		}
		parsed[i] = t
		normalized[i] = t.Format(isoLayout)
	}
	return normalized, parsed, DateFormatDMY, nil
}

// NormalizeDateColumn applies NormalizeDates to the dataset's date column, if any.
func NormalizeDateColumn(ds *domain.Dataset) error {
	idx := ds.ColumnIndex(domain.ColumnDate)
	if idx < 0 {
		return nil
	}

	values := make([]string, len(ds.Records))
	for i, rec := range ds.Records {
		values[i] = valueAt(rec.Fields, idx)
	}

	normalized, parsed, format, err := NormalizeDates(values)
	if err != nil {
		slog.Warn("date normalization failed", "file", ds.SourceName, "error", err)
		return err
	}

	for i := range ds.Records {
		ds.Records[i].Fields[idx] = normalized[i]
		ds.Records[i].Date = parsed[i]
	}
	slog.Debug("date column normalized", "file", ds.SourceName, "format", format)
	return nil
}
