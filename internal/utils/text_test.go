package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "hello", TruncateRunes("hello", 10), "short strings pass through")
	assert.Equal(t, "hel", TruncateRunes("hello", 3))
	assert.Equal(t, "", TruncateRunes("hello", 0))
}

func TestTruncateRunes_NeverSplitsMultiByteRunes(t *testing.T) {
	emoji := strings.Repeat("🎉", 50)

	truncated := TruncateRunes(emoji, 30)
	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, 30, utf8.RuneCountInString(truncated))

	accented := strings.Repeat("é", 50)
	truncated = TruncateRunes(accented, 30)
	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, 30, utf8.RuneCountInString(truncated))
}
