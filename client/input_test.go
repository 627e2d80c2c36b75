package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInput(t *testing.T) {
	tests := map[string]Input{
		"up":      InputForward,
		"Forward": InputForward,
		"down":    InputBackward,
		"left":    InputRotateLeft,
		" right ": InputRotateRight,
		"space":   InputFire,
		"fire":    InputFire,
		"jump":    InputNone,
		"":        InputNone,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseInput(in), in)
	}
	assert.Equal(t, "fire", InputFire.String())
	assert.Equal(t, "none", Input(42).String())
}
