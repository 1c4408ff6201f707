// Package dataset reads, validates, normalizes and exports review CSV files.
package dataset

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/john-thuo1/sentiment/internal/domain"
)

const encodingUTF8 = "UTF-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// chardet names that neither index knows under the same spelling.
var charsetAliases = map[string]string{
	"GB-18030": "gb18030",
}

var utf32Encodings = map[string]encoding.Encoding{
	"UTF-32BE": utf32.UTF32(utf32.BigEndian, utf32.UseBOM),
	"UTF-32LE": utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
}

// DetectEncoding returns the most probable character set of raw.
// Input that is already valid UTF-8 (which includes plain ASCII) is reported as
// UTF-8; anything else goes through statistical detection.
func DetectEncoding(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		return encodingUTF8, nil
	}
	// NUL is valid UTF-8 but never appears in a text CSV.
	hasNUL := bytes.IndexByte(raw, 0) >= 0
	if !hasNUL && utf8.Valid(raw) {
		return encodingUTF8, nil
	}
	if hasNUL {
		if charset, ok := sniffUTF16(raw); ok {
			return charset, nil
		}
	}

	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil {
		return "", fmt.Errorf("%w: detect encoding: %v", domain.ErrEncoding, err)
	}
	return result.Charset, nil
}

// sniffUTF16 recognises BOM-less UTF-16 by the position of its zero bytes.
func sniffUTF16(raw []byte) (string, bool) {
	sample := raw
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	var even, odd int
	for i, b := range sample {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			even++
		} else {
			odd++
		}
	}
	pairs := len(sample) / 2
	if pairs == 0 {
		return "", false
	}
	switch {
	case odd > pairs/2 && even < pairs/10:
		return "UTF-16LE", true
	case even > pairs/2 && odd < pairs/10:
		return "UTF-16BE", true
	}
	return "", false
}

// Decode converts raw from the named encoding to UTF-8 and strips a leading BOM.
func Decode(raw []byte, charset string) ([]byte, error) {
	if charset == encodingUTF8 {
		return bytes.TrimPrefix(raw, utf8BOM), nil
	}

	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrEncoding, charset, err)
	}
	return bytes.TrimPrefix(decoded, utf8BOM), nil
}

func lookupEncoding(charset string) (encoding.Encoding, error) {
	name := strings.TrimSpace(charset)
	if alias, ok := charsetAliases[strings.ToUpper(name)]; ok {
		name = alias
	}
	if enc, ok := utf32Encodings[strings.ToUpper(name)]; ok {
		return enc, nil
	}
	// htmlindex maps legacy charsets such as ISO-2022-CN to the replacement encoding.
	if enc, err := htmlindex.Get(name); err == nil && enc != encoding.Replacement {
		return enc, nil
	}
	// ianaindex returns a nil encoding for registered but unimplemented charsets.
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: unsupported encoding %q", domain.ErrEncoding, charset)
}
