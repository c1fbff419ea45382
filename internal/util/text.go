package util

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses all runs of whitespace (including newlines)
// into single spaces and trims the result.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// ContentHash returns the hex sha256 digest of the normalized text. The hash
// is the cache invalidation key for match records: any change to the CV text
// yields a different hash, so stale cache entries simply stop being looked up.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(NormalizeWhitespace(text)))
	return hex.EncodeToString(sum[:])
}
