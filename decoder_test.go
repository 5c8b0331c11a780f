package cbor

import (
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want Value
	}{
		{"uint_zero", "00", Value{Kind: KindUint, Uint: 0}},
		{"uint_23", "17", Value{Kind: KindUint, Uint: 23}},
		{"uint_24_one_byte", "1818", Value{Kind: KindUint, Uint: 24}},
		{"uint_65536_four_byte", "1a00010000", Value{Kind: KindUint, Uint: 65536}},
		{"neg_minus_one", "20", Value{Kind: KindNegInt, NegInt: -1}},
		{"neg_minus_500", "3901f3", Value{Kind: KindNegInt, NegInt: -500}},
		{"bool_false", "f4", Value{Kind: KindBool, Bool: false}},
		{"bool_true", "f5", Value{Kind: KindBool, Bool: true}},
		{"null", "f6", Value{Kind: KindNull}},
		{"undefined", "f7", Value{Kind: KindUndefined}},
		{"float_double_1_5", "fb3ff8000000000000", Value{Kind: KindFloat, Float: 1.5, FloatWidth: 64}},
		{"text_a", "6161", Value{Kind: KindText, Text: "a"}},
		{"bytes_01020304", "4401020304", Value{Kind: KindBytes, Bytes: []byte{1, 2, 3, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(mustHex(t, tt.hex))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got.String(), tt.want.String())
		})
	}
}

func TestDecodeUint64BoundaryPromotesToBigInt(t *testing.T) {
	// 0x1BFFFFFFFFFFFFFFFF is an 8-byte argument equal to 2^64-1, well past
	// the 2^63 promotion threshold.
	got, err := Decode(mustHex(t, "1bffffffffffffffff"))
	require.NoError(t, err)
	require.Equal(t, KindBigInt, got.Kind)
	want := new(big.Int)
	want.SetString("18446744073709551615", 10)
	assert.Equal(t, 0, want.Cmp(got.Big))
}

func TestDecodeNegativeIntegerPromotesToBigInt(t *testing.T) {
	// major type 1, 8-byte argument 2^64-1 -> value is -(2^64-1)-1 = -2^64.
	got, err := Decode(mustHex(t, "3bffffffffffffffff"))
	require.NoError(t, err)
	require.Equal(t, KindBigInt, got.Kind)
	want := new(big.Int)
	want.SetString("-18446744073709551616", 10)
	assert.Equal(t, 0, want.Cmp(got.Big))
}

func TestDecodeIndefiniteLengthTextString(t *testing.T) {
	// (_ "strea", "ming")
	got, err := Decode(mustHex(t, "7f657374726561646d696e6767ff"))
	require.NoError(t, err)
	require.Equal(t, KindTextIndefinite, got.Kind)
	assert.Equal(t, "streaming", got.TextJoined())
}

func TestDecodeIndefiniteLengthArray(t *testing.T) {
	// [_ 1, [2, 3], [_ 4, 5]]
	got, err := Decode(mustHex(t, "9f018202039f0405ffff"))
	require.NoError(t, err)
	require.Equal(t, KindArray, got.Kind)
	assert.True(t, got.ArrayIndefinite)
	require.Len(t, got.Array, 3)
	assert.Equal(t, uint64(1), got.Array[0].Uint)
}

func TestDecodeMapDuplicateKeyLastWriteWins(t *testing.T) {
	// {"a": 1, "a": 2}
	got, err := Decode(mustHex(t, "a2616101616102"))
	require.NoError(t, err)
	require.Equal(t, KindMap, got.Kind)
	require.Len(t, got.MapKeys, 1)
	assert.Equal(t, uint64(2), got.MapValues[0].Uint)
}

func TestDecodeMapDuplicateKeyStrictMode(t *testing.T) {
	_, err := Decode(mustHex(t, "a2616101616102"), WithDuplicateKeyMode(true))
	require.Error(t, err)
	var cborErr *CborError
	require.True(t, errors.As(err, &cborErr))
	assert.ErrorIs(t, cborErr.Err, ErrDuplicateKey)
}

func TestDecodeTagDateString(t *testing.T) {
	// 0(1970-01-01T00:00:00Z)
	got, err := Decode(mustHex(t, "c074313937302d30312d30315430303a30303a30305a"))
	require.NoError(t, err)
	require.Equal(t, KindDateString, got.Kind)
	assert.True(t, got.Time.Equal(time.Unix(0, 0).UTC()))
}

func TestDecodeTagEpochDate(t *testing.T) {
	// 1(1363896240)
	got, err := Decode(mustHex(t, "c11a514b67b0"))
	require.NoError(t, err)
	require.Equal(t, KindEpochDate, got.Kind)
	assert.Equal(t, int64(1363896240000), got.EpochMillis)
}

func TestDecodeTagDecimalFraction(t *testing.T) {
	// 4([-2, 27315]) == 273.15
	got, err := Decode(mustHex(t, "c48221196ab3"))
	require.NoError(t, err)
	require.Equal(t, KindDecimalFraction, got.Kind)
	require.Equal(t, KindNegInt, got.Exponent.Kind)
	assert.Equal(t, int64(-2), got.Exponent.NegInt)
	assert.Equal(t, uint64(27315), got.Mantissa.Uint)
}

func TestDecodeTagSetDedup(t *testing.T) {
	// 258([1, 2, 2, 3])
	got, err := Decode(mustHex(t, "d901028401020203"))
	require.NoError(t, err)
	require.Equal(t, KindSet, got.Kind)
	assert.Len(t, got.Array, 3)
}

func TestDecodeMultiTagNeverRefines(t *testing.T) {
	// 0(1(0)) - two tags stacked, must fall back to generic wrapper.
	got, err := Decode(mustHex(t, "c0c100"))
	require.NoError(t, err)
	require.Equal(t, KindTagged, got.Kind)
	assert.Equal(t, []uint64{0, 1}, got.Tags)
}

func TestDecodeParseFailures(t *testing.T) {
	tests := []struct {
		name    string
		hex     string
		wantErr error
	}{
		{"reserved_additional_info", "1c", ErrMalformedHeader},
		{"invalid_utf8_text", "63ff6162", ErrInvalidUtf8},
		{"tag4_wrong_array_length", "c48101", ErrMalformedTagPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(mustHex(t, tt.hex))
			require.Error(t, err)
			var cborErr *CborError
			require.True(t, errors.As(err, &cborErr))
			assert.ErrorIs(t, cborErr.Err, tt.wantErr)
		})
	}
}

func TestDecodeWithLenReportsTrailingBytes(t *testing.T) {
	data := mustHex(t, "00ff")
	v, n, err := DecodeWithLen(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v.Uint)
	assert.Equal(t, 1, n)

	_, _, err = DecodeWithLen(data, WithTrailingBytesCheck(true))
	require.Error(t, err)
	var cborErr *CborError
	require.True(t, errors.As(err, &cborErr))
	assert.ErrorIs(t, cborErr.Err, ErrTrailingBytes)
}

func TestDecodeMixedArray(t *testing.T) {
	// [1, "two", true]
	got, err := Decode(mustHex(t, "83016374776ff5"))
	require.NoError(t, err)
	require.Equal(t, KindArray, got.Kind)
	require.Len(t, got.Array, 3)
	assert.Equal(t, uint64(1), got.Array[0].Uint)
	assert.Equal(t, "two", got.Array[1].Text)
	assert.Equal(t, true, got.Array[2].Bool)
}
