package content

import "bytes"

// SniffLen is the number of leading bytes inspected when classifying content.
const SniffLen = 8000

// IsBinary reports whether data looks like binary rather than text.
// A NUL byte in the first SniffLen bytes marks binary, except when the data
// opens with a UTF-16 or UTF-32 byte order mark.
func IsBinary(data []byte) bool {
	if hasWideBOM(data) {
		return false
	}
	return bytes.IndexByte(data[:min(len(data), SniffLen)], 0) >= 0
}

func hasWideBOM(data []byte) bool {
	switch {
	case bytes.HasPrefix(data, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return true
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return true
	}
	return false
}
