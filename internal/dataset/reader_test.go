package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/john-thuo1/sentiment/internal/domain"
)

const sampleCSV = "" +
	"Product_Name,Review,Month,Year,Date,Sentiment Score\n" +
	"Blender,Great product!,January,2023,2023-01-15,4\n" +
	"Kettle,Broke after a week,Feb,2023,2023-02-03,2\n" +
	"Toaster,\"Okay, nothing special\",3,2023,2023-03-20,\n"

func TestLoadReviewsLowercasesHeadersAndResetsScores(t *testing.T) {
	t.Parallel()

	ds, err := LoadReviews("reviews.csv", []byte(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"product_name", "review", "month", "year", "date", "sentiment score"}, ds.Columns)
	assert.Equal(t, "UTF-8", ds.Encoding)
	require.Len(t, ds.Records, 3)

	first := ds.Records[0]
	assert.Equal(t, "Blender", first.ProductName)
	assert.Equal(t, "Great product!", first.Review)
	assert.Equal(t, time.January, first.Month)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), first.Date)

	assert.Equal(t, time.February, ds.Records[1].Month)
	assert.Equal(t, time.March, ds.Records[2].Month)
	assert.Equal(t, "Okay, nothing special", ds.Records[2].Review)

	for _, rec := range ds.Records {
		assert.Equal(t, domain.UnscoredScore, rec.SentimentScore)
		assert.Equal(t, domain.LabelUnset, rec.Overall)
	}
	assert.False(t, ds.Scored)
}

func TestLoadReviewsReportsMissingColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		missing []string
	}{
		{name: "no month", header: "product_name,review,year", missing: []string{"month"}},
		{name: "only review", header: "review", missing: []string{"product_name", "month", "year"}},
		{name: "none", header: "text,stars", missing: []string{"product_name", "review", "month", "year"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadReviews("bad.csv", []byte(tc.header+"\nx\n"))
			var schemaErr *domain.SchemaError
			require.True(t, errors.As(err, &schemaErr), "expected schema error, got %v", err)
			assert.Equal(t, tc.missing, schemaErr.Missing)
		})
	}
}

func TestCheckColumnsAcceptsExtraColumns(t *testing.T) {
	t.Parallel()

	err := CheckColumns([]string{"id", "year", "month", "review", "product_name", "stars"}, domain.RequiredColumns)
	assert.NoError(t, err)
}

func TestLoadReviewsRejectsEmptyFile(t *testing.T) {
	t.Parallel()

	_, err := LoadReviews("empty.csv", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyFile)
}

func TestLoadReviewsPadsShortRows(t *testing.T) {
	t.Parallel()

	ds, err := LoadReviews("short.csv", []byte("product_name,review,month,year\nLamp,Bright\n"))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Len(t, ds.Records[0].Fields, 4)
	assert.Equal(t, time.Month(0), ds.Records[0].Month)
	assert.Equal(t, 0, ds.Records[0].Year)
}

func TestReadStripsByteOrderMark(t *testing.T) {
	t.Parallel()

	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Product_Name,Review,Month,Year\nA,b,May,2024\n")...)
	ds, err := Read("bom.csv", raw)
	require.NoError(t, err)
	assert.Equal(t, "product_name", ds.Columns[0])
}

func TestDecodeLatin1(t *testing.T) {
	t.Parallel()

	out, err := Decode([]byte{'C', 'a', 'f', 0xE9}, "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "Café", string(out))
}

func TestDecodeUnknownCharset(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("abc"), "no-such-charset")
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

func TestReadDetectsNonUTF8Upload(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	buf.WriteString("product_name,review,month,year\n")
	for i := 0; i < 20; i++ {
		buf.WriteString("Caf")
		buf.WriteByte(0xE9)
		buf.WriteString(" au lait,Le produit est tr")
		buf.WriteByte(0xE8)
		buf.WriteString("s bon et le service tr")
		buf.WriteByte(0xE8)
		buf.WriteString("s rapide,January,2023\n")
	}

	ds, err := Read("latin.csv", buf.Bytes())
	require.NoError(t, err)
	assert.NotEqual(t, "UTF-8", ds.Encoding)
	require.Len(t, ds.Records, 20)
	assert.True(t, utf8.ValidString(ds.Records[0].ProductName))
	assert.Contains(t, ds.Records[0].ProductName, "Caf")
}

func TestLoadReviewsDecodesGB18030(t *testing.T) {
	t.Parallel()

	const review = "这个电饭煲的质量很好，我们全家都非常喜欢，做出来的米饭很香，物流也很快，客服的态度是一流的"
	var text strings.Builder
	text.WriteString("product_name,review,month,year\n")
	for i := 0; i < 30; i++ {
		text.WriteString("电饭煲," + review + ",五月,2024\n")
	}
	raw, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte(text.String()))
	require.NoError(t, err)

	ds, err := LoadReviews("reviews.csv", raw)
	require.NoError(t, err)
	assert.Equal(t, "GB-18030", ds.Encoding)
	require.Len(t, ds.Records, 30)
	assert.Equal(t, "电饭煲", ds.Records[0].ProductName)
	assert.Equal(t, review, ds.Records[29].Review)
}

func TestDecodeCharsetNamesFromDetector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		charset string
		raw     []byte
	}{
		{"GB-18030", []byte("abc")},
		{"Shift_JIS", []byte("abc")},
		{"windows-1252", []byte("abc")},
		{"UTF-32LE", []byte{'a', 0, 0, 0, 'b', 0, 0, 0, 'c', 0, 0, 0}},
		{"UTF-32BE", []byte{0, 0, 0, 'a', 0, 0, 0, 'b', 0, 0, 0, 'c'}},
	}
	for _, tc := range tests {
		out, err := Decode(tc.raw, tc.charset)
		require.NoError(t, err, tc.charset)
		assert.Equal(t, "abc", string(out), tc.charset)
	}

	_, err := Decode([]byte("abc"), "ISO-2022-CN")
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

func TestLoadReviewsDecodesUTF16WithoutBOM(t *testing.T) {
	t.Parallel()

	plain := "product_name,review,month,year\nKettle,Boils fast,May,2024\n"
	for _, tc := range []struct {
		charset string
		endian  unicode.Endianness
	}{
		{"UTF-16LE", unicode.LittleEndian},
		{"UTF-16BE", unicode.BigEndian},
	} {
		raw, err := unicode.UTF16(tc.endian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(plain))
		require.NoError(t, err)

		ds, err := LoadReviews("reviews.csv", raw)
		require.NoError(t, err, tc.charset)
		assert.Equal(t, tc.charset, ds.Encoding)
		require.Len(t, ds.Records, 1)
		assert.Equal(t, "Boils fast", ds.Records[0].Review)
	}
}

func TestReadRejectsRowsWiderThanHeader(t *testing.T) {
	t.Parallel()

	_, err := Read("reviews.csv", []byte("product_name,review,month,year\nA,great,May,2024,EXTRA\n"))
	require.ErrorIs(t, err, domain.ErrMalformedCSV)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadScoredDerivesLabels(t *testing.T) {
	t.Parallel()

	raw := "product_name,review,sentiment score,overall\n" +
		"A,good,5,Positive\n" +
		"B,meh,3,Neutral\n" +
		"C,bad,1.0,Negative\n" +
		"D,???,,\n"
	ds, err := LoadScored("scored.csv", []byte(raw))
	require.NoError(t, err)
	require.Len(t, ds.Records, 4)
	assert.True(t, ds.Scored)

	assert.Equal(t, domain.LabelPositive, ds.Records[0].Overall)
	assert.Equal(t, domain.LabelNeutral, ds.Records[1].Overall)
	assert.Equal(t, 1, ds.Records[2].SentimentScore)
	assert.Equal(t, domain.LabelNegative, ds.Records[2].Overall)
	assert.Equal(t, 0, ds.Records[3].SentimentScore)
	assert.Equal(t, domain.LabelUnset, ds.Records[3].Overall)
}

func TestLoadScoredRequiresScoreColumn(t *testing.T) {
	t.Parallel()

	_, err := LoadScored("raw.csv", []byte("product_name,review,month,year\nA,b,May,2024\n"))
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"sentiment score"}, schemaErr.Missing)
}
