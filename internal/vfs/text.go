package vfs

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
)

// binarySniffLen bounds how much of a file IsBinary inspects.
const binarySniffLen = 8192

// DecodeText converts raw file bytes to editor text. Content is treated as
// UTF-8: a leading byte order mark is dropped and invalid sequences become
// U+FFFD. No other encodings are recognised.
func DecodeText(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(content)
	if err != nil {
		// The UTF-8 decoder replaces rather than rejects, so this is not
		// expected; fall back to the raw bytes.
		return string(bytes.ToValidUTF8(content, []byte("�")))
	}
	return string(out)
}

// EncodeText converts editor text back to bytes. Text is written as-is.
func EncodeText(text string) []byte {
	return []byte(text)
}

// IsBinary reports whether content looks like binary data: a NUL byte or
// more than 10% control characters within the first 8KB.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	sample := content
	if len(sample) > binarySniffLen {
		sample = sample[:binarySniffLen]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > 0.1
}
