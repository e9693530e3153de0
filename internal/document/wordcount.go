package document

import "strings"

// CountWords returns the number of non-empty whitespace-delimited tokens in text
func CountWords(text string) int {
	return len(strings.Fields(text))
}
