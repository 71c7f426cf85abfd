package testutils

import "strings"

// GenerateOverBytesUnderRunes returns count runes of four bytes each.
func GenerateOverBytesUnderRunes(count int) string {
	symbol := "😁"
	return strings.Repeat(symbol, count)
}
