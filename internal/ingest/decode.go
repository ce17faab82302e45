// Package ingest parses the scheduling platform's CSV exports into canonical
// domain values and validates their structure. Structural problems (missing
// or reordered columns, malformed dates, empty files) are fatal here, before
// the pipeline runs; the pipeline itself assumes well-typed canonical rows.
//
// This file handles byte-level decoding: exports arrive with UTF-8 BOMs or
// as UTF-16 depending on which tool last touched them, so everything is
// normalized to plain UTF-8 before CSV parsing.
package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeToUTF8 strips any BOM and converts UTF-16 input to UTF-8. Input that
// is already valid UTF-8 passes through unchanged.
func decodeToUTF8(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[3:], nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeUTF16(data[2:], false), nil
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data[2:], true), nil
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("input is neither valid UTF-8 nor BOM-marked UTF-16")
	}
	return data, nil
}

// decodeUTF16 converts UTF-16 code units (without BOM) to UTF-8 bytes. An
// odd trailing byte is dropped.
func decodeUTF16(data []byte, bigEndian bool) []byte {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		if bigEndian {
			units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
		} else {
			units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
		}
	}
	var buf bytes.Buffer
	buf.Grow(len(data))
	for _, r := range utf16.Decode(units) {
		buf.WriteRune(r)
	}
	return buf.Bytes()
}
