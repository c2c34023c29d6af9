package organizer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractiveConfirmer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes word", "yes\n", true},
		{"uppercase", "Y\n", true},
		{"no", "n\n", false},
		{"empty defaults to no", "\n", false},
		{"garbage", "maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := &InteractiveConfirmer{In: strings.NewReader(tt.input), Out: &out}
			got, err := c.Confirm("/in/a.mkv", "/out/a.mkv")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "/out/a.mkv")
		})
	}
}

func TestInteractiveConfirmer_SequentialPrompts(t *testing.T) {
	// Answers typed ahead of the prompts must each reach their own
	// prompt instead of being swallowed by read-ahead buffering.
	var out bytes.Buffer
	c := &InteractiveConfirmer{In: strings.NewReader("y\nn\nyes\n"), Out: &out}

	for i, want := range []bool{true, false, true} {
		got, err := c.Confirm("/in/a.mkv", "/out/a.mkv")
		require.NoError(t, err, "prompt %d", i)
		assert.Equal(t, want, got, "prompt %d", i)
	}
}

func TestNewConfirmer_NonTTYFallsBackToAuto(t *testing.T) {
	// Test processes never have a TTY on stdin.
	c := NewConfirmer(ConfirmInteractive)
	ok, err := c.Confirm("/in/a.mkv", "/out/a.mkv")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewConfirmer_Auto(t *testing.T) {
	c := NewConfirmer(ConfirmAuto)
	ok, err := c.Confirm("/in/a.mkv", "/out/a.mkv")
	require.NoError(t, err)
	assert.True(t, ok)
}
