package cbor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEqualScalars(t *testing.T) {
	assert.True(t, Value{Kind: KindUint, Uint: 7}.Equal(Value{Kind: KindUint, Uint: 7}))
	assert.False(t, Value{Kind: KindUint, Uint: 7}.Equal(Value{Kind: KindUint, Uint: 8}))
	assert.False(t, Value{Kind: KindUint, Uint: 7}.Equal(Value{Kind: KindNegInt, NegInt: 7}))

	big1 := Value{Kind: KindBigInt, Big: big.NewInt(100)}
	big2 := Value{Kind: KindBigInt, Big: new(big.Int).SetInt64(100)}
	assert.True(t, big1.Equal(big2))
}

func TestValueEqualContainersIgnoreOrderInMaps(t *testing.T) {
	a := Value{
		Kind:      KindMap,
		MapKeys:   []Value{{Kind: KindText, Text: "a"}, {Kind: KindText, Text: "b"}},
		MapValues: []Value{{Kind: KindUint, Uint: 1}, {Kind: KindUint, Uint: 2}},
	}
	b := Value{
		Kind:      KindMap,
		MapKeys:   []Value{{Kind: KindText, Text: "b"}, {Kind: KindText, Text: "a"}},
		MapValues: []Value{{Kind: KindUint, Uint: 2}, {Kind: KindUint, Uint: 1}},
	}
	assert.True(t, a.Equal(b))
}

func TestValueBytesJoinedIndefinite(t *testing.T) {
	v := Value{Kind: KindBytesIndefinite, BytesChunks: [][]byte{{1, 2}, {3}}}
	assert.Equal(t, []byte{1, 2, 3}, v.BytesJoined())
}

func TestValueTextJoinedIndefinite(t *testing.T) {
	v := Value{Kind: KindTextIndefinite, TextChunks: []string{"strea", "ming"}}
	assert.Equal(t, "streaming", v.TextJoined())
}

func TestValueStringRendersContainers(t *testing.T) {
	v := Value{
		Kind: KindArray,
		Array: []Value{
			{Kind: KindUint, Uint: 1},
			{Kind: KindText, Text: "x"},
		},
	}
	assert.Equal(t, `[1, "x"]`, v.String())
}

func TestValueEncodedTextBase64URL(t *testing.T) {
	v := Value{Kind: KindBase64String, BaseVariant: BaseVariantBase64URL, Bytes: []byte{0xff, 0xfe}}
	encoded, ok := v.EncodedText()
	assert.True(t, ok)
	assert.NotEmpty(t, encoded)
}

func TestDedupValuesPreservesFirstOccurrence(t *testing.T) {
	in := []Value{
		{Kind: KindUint, Uint: 1},
		{Kind: KindUint, Uint: 2},
		{Kind: KindUint, Uint: 2},
		{Kind: KindUint, Uint: 3},
	}
	out := dedupValues(in)
	assert.Len(t, out, 3)
	assert.Equal(t, uint64(1), out[0].Uint)
	assert.Equal(t, uint64(2), out[1].Uint)
	assert.Equal(t, uint64(3), out[2].Uint)
}
