package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSizes(t *testing.T) {
	assert.Len(t, AppendJoinRequest(nil), ClientHeaderSize)
	assert.Len(t, AppendUpdate(nil, 1, PlayerRecord{}), UpdateSize)
	assert.Len(t, AppendSnapshot(nil, snap(1, 0, 0, 0)), ServerHeaderSize)
	assert.Len(t, AppendSnapshot(nil, snap(1, 0, 0, 0, rec(1, 0, 0), rec(2, 0, 0))), ServerHeaderSize+2*RecordSize)
	assert.Equal(t, 20+32*29, MaxSnapshotSize)
}

func TestJoinRequestLayout(t *testing.T) {
	assert.Equal(t, []byte{1, 0, 0, 0, 0}, AppendJoinRequest(nil))

	h, r, err := DecodeClientPacket(AppendJoinRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, ClientHeader{Request: true}, h)
	assert.Nil(t, r)
}

func TestUpdateLayout(t *testing.T) {
	in := PlayerRecord{PlayerNum: 3, X: 1.5, Y: -2, Orientation: 0.25, LaserActive: true}
	b := AppendUpdate(nil, 0x01020304, in)

	assert.Equal(t, byte(0), b[0])
	assert.Equal(t, []byte{4, 3, 2, 1}, b[1:5], "little endian sequence")
	assert.Equal(t, []byte{3, 0, 0, 0}, b[5:9])
	assert.Equal(t, byte(1), b[len(b)-1])

	h, out, err := DecodeClientPacket(b)
	require.NoError(t, err)
	assert.Equal(t, ClientHeader{Seq: 0x01020304}, h)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestDecodeSnapshot(t *testing.T) {
	t.Run("truncates to declared count", func(t *testing.T) {
		s := snap(9, -1, 4, 2, rec(1, 10, 10), rec(2, 0, 0))
		b := AppendSnapshot(nil, s)
		// 缓冲区填充部分：多出一条记录，但包头只声明了两条
		b = appendRecord(b, rec(3, 5, 5))

		got, err := DecodeSnapshot(b)
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.Equal(t, int32(-1), got.Header.RedScore)
	})

	t.Run("empty player set", func(t *testing.T) {
		got, err := DecodeSnapshot(AppendSnapshot(nil, snap(1, 0, 0, 0)))
		require.NoError(t, err)
		assert.Empty(t, got.Records)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := DecodeSnapshot(make([]byte, ServerHeaderSize-1))
		assert.ErrorIs(t, err, ErrShortPacket)
	})

	t.Run("missing records", func(t *testing.T) {
		s := snap(1, 0, 0, 0, rec(1, 0, 0), rec(2, 0, 0))
		b := AppendSnapshot(nil, s)
		_, err := DecodeSnapshot(b[:len(b)-1])
		assert.ErrorIs(t, err, ErrShortPacket)
	})

	t.Run("too many players", func(t *testing.T) {
		s := snap(1, 0, 0, 0)
		s.Header.NumPlayers = MaxPlayers + 1
		_, err := DecodeSnapshot(AppendSnapshot(nil, s))
		assert.ErrorIs(t, err, ErrTooManyPlayers)
	})
}

func TestDecodeClientPacketShort(t *testing.T) {
	_, _, err := DecodeClientPacket([]byte{0, 1})
	assert.ErrorIs(t, err, ErrShortPacket)
}
