package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace_CollapsesRuns(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeWhitespace("  a\n\nb\t c "))
}

func TestContentHash_StableAcrossWhitespace(t *testing.T) {
	a := ContentHash("John Doe\nPython developer")
	b := ContentHash("John   Doe Python \t developer")
	assert.Equal(t, a, b)
}

func TestContentHash_ChangesWithContent(t *testing.T) {
	a := ContentHash("John Doe Python developer")
	b := ContentHash("John Doe Java developer")
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
}
