package ingest

import (
	"bytes"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as UTF-8 text without a leading byte-order mark.
// Undecodable input yields "", which the pipeline treats as nothing to analyze.
func Decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return ""
	}
	return string(data)
}
