package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/john-thuo1/sentiment/internal/domain"
)

const exportDateLayout = "02-01-06"

// Export writes the dataset as CSV. The sentiment score and overall columns
// are written in place when the header already has them and appended otherwise.
func Export(w io.Writer, ds *domain.Dataset) error {
	columns := append([]string(nil), ds.Columns...)
	scoreIdx := ds.ColumnIndex(domain.ColumnSentimentScore)
	if scoreIdx < 0 {
		scoreIdx = len(columns)
		columns = append(columns, domain.ColumnSentimentScore)
	}
	overallIdx := ds.ColumnIndex(domain.ColumnOverall)
	if overallIdx < 0 {
		overallIdx = len(columns)
		columns = append(columns, domain.ColumnOverall)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for i, rec := range ds.Records {
		for j := range row {
			row[j] = valueAt(rec.Fields, j)
		}
		row[scoreIdx] = strconv.Itoa(rec.SentimentScore)
		row[overallIdx] = string(rec.Overall)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportFileName builds "<stem>_updated_<DD-MM-YY>.csv" where stem is the
// upload's base name up to its first dot.
func ExportFileName(source string, now time.Time) string {
	stem, _, _ := strings.Cut(filepath.Base(source), ".")
	if stem == "" {
		stem = "reviews"
	}
	return fmt.Sprintf("%s_updated_%s.csv", stem, now.Format(exportDateLayout))
}
