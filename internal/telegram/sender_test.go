package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessageShortTextUntouched(t *testing.T) {
	parts := SplitMessage("hello", 100)
	assert.Equal(t, []string{"hello"}, parts)
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	text := strings.Repeat("a", 60) + "\n" + strings.Repeat("b", 60)
	parts := SplitMessage(text, 100)

	require.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("a", 60)+"\n", parts[0])
	assert.Equal(t, strings.Repeat("b", 60), parts[1])
}

func TestSplitMessageHardSplitWithoutNewlines(t *testing.T) {
	text := strings.Repeat("x", 250)
	parts := SplitMessage(text, 100)

	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 100)
	assert.Len(t, parts[1], 100)
	assert.Len(t, parts[2], 50)
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestSplitMessageIgnoresEarlyNewline(t *testing.T) {
	// A newline in the first half of the chunk is not a good split
	// point; the chunk is cut at the limit instead.
	text := strings.Repeat("a", 10) + "\n" + strings.Repeat("b", 120)
	parts := SplitMessage(text, 100)

	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 100)
}
