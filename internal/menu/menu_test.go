package menu

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptSelections(t *testing.T) {
	cases := []struct {
		input string
		want  Selection
	}{
		{"1\n", SelectionFull},
		{"2\n", SelectionBinaries},
		{"3\n", SelectionConfig},
		{"4\n", SelectionCache},
		{"5\n", SelectionCancel},
		{"  3 \n", SelectionConfig}, // surrounding whitespace tolerated
		{"2", SelectionBinaries},    // EOF without newline still counts
	}

	for _, tc := range cases {
		var out bytes.Buffer
		got, err := Prompt(bufio.NewReader(strings.NewReader(tc.input)), &out)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
		assert.Contains(t, out.String(), "Choice [1-5]:")
	}
}

func TestPromptConsumesExactlyOneLine(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("1\ny\n"))
	var out bytes.Buffer

	got, err := Prompt(in, &out)
	require.NoError(t, err)
	assert.Equal(t, SelectionFull, got)

	// The follow-up answer is still readable on the same reader.
	rest, err := in.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "y\n", rest)
}

func TestPromptInvalidChoice(t *testing.T) {
	for _, input := range []string{"0\n", "6\n", "x\n", "\n", ""} {
		var out bytes.Buffer
		_, err := Prompt(bufio.NewReader(strings.NewReader(input)), &out)
		assert.ErrorIs(t, err, ErrInvalidChoice, "input %q", input)
	}
}

func TestSelectionString(t *testing.T) {
	assert.Equal(t, "full removal", SelectionFull.String())
	assert.Equal(t, "cancel", SelectionCancel.String())
	assert.Equal(t, "unknown", Selection(42).String())
}
