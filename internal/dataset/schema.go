package dataset

import (
	"log/slog"

	"github.com/john-thuo1/sentiment/internal/domain"
)

// CheckColumns verifies that every required column is present. The returned
// *domain.SchemaError names exactly the missing columns, in required order.
func CheckColumns(columns, required []string) error {
	present := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		present[col] = struct{}{}
	}

	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &domain.SchemaError{Missing: missing}
	}

	slog.Debug("CSV structure checked")
	return nil
}
