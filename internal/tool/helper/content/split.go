package content

import "strings"

// SplitLines splits text on \n or \r\n without yielding a trailing empty line.
func SplitLines(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// TruncateRunes returns at most limit characters of text and whether
// anything was cut.
func TruncateRunes(text string, limit int) (string, bool) {
	if limit < 0 {
		limit = 0
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i], true
		}
		n++
	}
	return text, false
}
