package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"lasertag/client"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []client.Input
		quit bool
	}{
		{"wasd", "wasd", []client.Input{client.InputForward, client.InputRotateLeft, client.InputBackward, client.InputRotateRight}, false},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []client.Input{client.InputForward, client.InputBackward, client.InputRotateRight, client.InputRotateLeft}, false},
		{"fire", " ", []client.Input{client.InputFire}, false},
		{"quit stops decoding", "w q w", []client.Input{client.InputForward, client.InputFire}, true},
		{"ctrl c", "\x03", nil, true},
		{"unknown keys ignored", "xyz", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, quit := decodeKeys([]byte(tt.in))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.quit, quit)
		})
	}
}

type recordingSink struct{ got []client.Input }

func (s *recordingSink) ApplyInput(in client.Input) bool {
	s.got = append(s.got, in)
	return true
}

func TestReadKeysQuitsAtEOF(t *testing.T) {
	sink := &recordingSink{}
	quits := 0
	readKeys(bufio.NewReader(strings.NewReader("w ")), sink, func() { quits++ })

	assert.Equal(t, []client.Input{client.InputForward, client.InputFire}, sink.got)
	assert.Equal(t, 1, quits)
}
