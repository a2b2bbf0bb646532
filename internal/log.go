package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Prefix creates a consistent prefix for all file-based commands to use.
//
// i and n are the one-based ordinal and expected count.
func Prefix(i, n int, name string) string {
	return fmt.Sprintf(`[%d/%d] "%s" - `, i, n, TruncateRightWithSuffix(filepath.Base(name), 30, "..."))
}

// NewLogger returns a logger writing to stderr with the prefix from Prefix.
func NewLogger(i, n int, name string) *log.Logger {
	return log.New(os.Stderr, Prefix(i, n, name), 0)
}

// TruncateRightWithSuffix keeps the first size runes of text and only appends the suffix if truncation happens.
func TruncateRightWithSuffix(text string, size int, suffix string) string {
	rs := []rune(text)
	if len(rs) <= size {
		return text
	}

	return string(rs[:max(size, 0)]) + suffix
}
