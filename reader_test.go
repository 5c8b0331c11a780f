package cbor

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newReader builds a CborReader over hex-encoded test data, the same
// RFC 8949 appendix-A vectors the decoder's own tests draw on.
func newReader(t *testing.T, h string) *CborReader {
	t.Helper()
	data, err := hex.DecodeString(h)
	require.NoError(t, err)
	return NewCborReader(data)
}

func TestReaderUint64(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want uint64
	}{
		{"immediate", "00", 0},
		{"immediate_23", "17", 23},
		{"one_byte", "1818", 24},
		{"two_byte", "190100", 256},
		{"four_byte", "1a00010000", 65536},
		{"eight_byte_max", "1bffffffffffffffff", 18446744073709551615},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newReader(t, tt.hex).ReadUint64()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReaderNegativeIntegerRaw(t *testing.T) {
	// major type 1, argument 499 -> encoded value -1-499 = -500.
	got, err := newReader(t, "3901f3").ReadNegativeIntegerRaw()
	require.NoError(t, err)
	assert.Equal(t, uint64(499), got)
}

func TestReaderByteStringChunks(t *testing.T) {
	t.Run("definite", func(t *testing.T) {
		chunks, indefinite, err := newReader(t, "4401020304").ReadByteStringChunks()
		require.NoError(t, err)
		assert.False(t, indefinite)
		require.Len(t, chunks, 1)
		assert.Equal(t, []byte{1, 2, 3, 4}, chunks[0])
	})
	t.Run("indefinite", func(t *testing.T) {
		// (_ h'0102', h'030405')
		chunks, indefinite, err := newReader(t, "5f42010243030405ff").ReadByteStringChunks()
		require.NoError(t, err)
		assert.True(t, indefinite)
		require.Len(t, chunks, 2)
		assert.Equal(t, []byte{1, 2}, chunks[0])
		assert.Equal(t, []byte{3, 4, 5}, chunks[1])
	})
}

func TestReaderTextStringChunks(t *testing.T) {
	t.Run("definite", func(t *testing.T) {
		chunks, indefinite, err := newReader(t, "6161").ReadTextStringChunks()
		require.NoError(t, err)
		assert.False(t, indefinite)
		assert.Equal(t, []string{"a"}, chunks)
	})
	t.Run("indefinite", func(t *testing.T) {
		// (_ "strea", "ming")
		chunks, indefinite, err := newReader(t, "7f657374726561646d696e6767ff").ReadTextStringChunks()
		require.NoError(t, err)
		assert.True(t, indefinite)
		assert.Equal(t, []string{"strea", "ming"}, chunks)
	})
	t.Run("invalid_utf8", func(t *testing.T) {
		_, _, err := newReader(t, "63ff6162").ReadTextStringChunks()
		assert.ErrorIs(t, err, ErrInvalidUtf8)
	})
}

func TestReaderStartEndArray(t *testing.T) {
	t.Run("definite", func(t *testing.T) {
		r := newReader(t, "83010203")
		n, err := r.ReadStartArray()
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		for i := 0; i < 3; i++ {
			_, err := r.ReadUint64()
			require.NoError(t, err)
		}
		require.NoError(t, r.ReadEndArray())
	})
	t.Run("indefinite", func(t *testing.T) {
		// [_ 1, 2]
		r := newReader(t, "9f0102ff")
		n, err := r.ReadStartArray()
		require.NoError(t, err)
		assert.Equal(t, -1, n)
		for {
			state, err := r.PeekState()
			require.NoError(t, err)
			if state == StateEndArray {
				break
			}
			_, err = r.ReadUint64()
			require.NoError(t, err)
		}
		require.NoError(t, r.ReadEndArray())
	})
}

func TestReaderStartEndMap(t *testing.T) {
	// {1: 2, 3: 4}
	r := newReader(t, "a201020304")
	n, err := r.ReadStartMap()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for i := 0; i < 2; i++ {
		_, err := r.ReadUint64()
		require.NoError(t, err)
		_, err = r.ReadUint64()
		require.NoError(t, err)
	}
	require.NoError(t, r.ReadEndMap())
}

func TestReaderTag(t *testing.T) {
	r := newReader(t, "c074313937302d30312d30315430303a30303a30305a")
	tag, err := r.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, TagDateTimeString, tag)
}

func TestReaderSimpleValues(t *testing.T) {
	t.Run("false", func(t *testing.T) {
		b, err := newReader(t, "f4").ReadBoolean()
		require.NoError(t, err)
		assert.False(t, b)
	})
	t.Run("true", func(t *testing.T) {
		b, err := newReader(t, "f5").ReadBoolean()
		require.NoError(t, err)
		assert.True(t, b)
	})
	t.Run("null", func(t *testing.T) {
		require.NoError(t, newReader(t, "f6").ReadNull())
	})
	t.Run("undefined", func(t *testing.T) {
		require.NoError(t, newReader(t, "f7").ReadUndefined())
	})
}

func TestReaderFloats(t *testing.T) {
	t.Run("half", func(t *testing.T) {
		// 1.5 in half precision.
		f, err := newReader(t, "f93e00").ReadFloat16()
		require.NoError(t, err)
		assert.Equal(t, float32(1.5), f)
	})
	t.Run("single", func(t *testing.T) {
		f, err := newReader(t, "fa47c35000").ReadFloat32()
		require.NoError(t, err)
		assert.Equal(t, float32(100000), f)
	})
	t.Run("double", func(t *testing.T) {
		f, err := newReader(t, "fb3ff199999999999a").ReadFloat64()
		require.NoError(t, err)
		assert.InDelta(t, 1.1, f, 1e-12)
	})
}

func TestReaderPeekStateFinishedOnEmptyInput(t *testing.T) {
	state, err := newReader(t, "").PeekState()
	require.NoError(t, err)
	assert.Equal(t, StateFinished, state)
}

func TestReaderUnexpectedEndOfData(t *testing.T) {
	// major type 0, additional info 25 (2-byte argument) but no bytes follow.
	_, err := newReader(t, "19").ReadUint64()
	assert.ErrorIs(t, err, ErrUnexpectedEndOfData)
}
