package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/john-thuo1/sentiment/internal/domain"
)

func TestNormalizeDatesKeepsISOColumnUnchanged(t *testing.T) {
	t.Parallel()

	in := []string{"2023-01-15", "2024-12-31", "", "2022-06-01 10:30:00"}
	out, parsed, format, err := NormalizeDates(in)
	require.NoError(t, err)

	assert.Equal(t, DateFormatISO, format)
	assert.Equal(t, in, out)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), parsed[1])
	assert.True(t, parsed[2].IsZero())
	assert.Equal(t, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), parsed[3])
}

func TestNormalizeDatesReparsesDayMonthYear(t *testing.T) {
	t.Parallel()

	out, parsed, format, err := NormalizeDates([]string{"15-01-23", "3-2-24", "31-12-99"})
	require.NoError(t, err)

	assert.Equal(t, DateFormatDMY, format)
	assert.Equal(t, []string{"2023-01-15", "2024-02-03", "1999-12-31"}, out)
	assert.Equal(t, time.February, parsed[1].Month())
}

func TestNormalizeDatesRejectsMixedColumn(t *testing.T) {
	t.Parallel()

	// One non-ISO value forces the whole column through DD-MM-YY, which the ISO rows fail.
	_, _, _, err := NormalizeDates([]string{"2023-01-15", "15-01-23"})
	assert.ErrorIs(t, err, domain.ErrInvalidDateFormat)
}

func TestNormalizeDatesRejectsInvalidISODate(t *testing.T) {
	t.Parallel()

	_, _, _, err := NormalizeDates([]string{"2023-13-45"})
	assert.ErrorIs(t, err, domain.ErrInvalidDateFormat)
}

func TestNormalizeDateColumnSkipsMissingColumn(t *testing.T) {
	t.Parallel()

	ds := &domain.Dataset{Columns: []string{"review"}, Records: []domain.ReviewRecord{{Fields: []string{"ok"}}}}
	require.NoError(t, NormalizeDateColumn(ds))
	assert.False(t, ds.Records[0].HasDate())
}
