package cbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagUnsignedBignum(t *testing.T) {
	// 2(h'010000000000000000') == 2^64
	got, err := Decode(mustHex(t, "c249010000000000000000"))
	require.NoError(t, err)
	require.Equal(t, KindBigInt, got.Kind)
	assert.Equal(t, "18446744073709551616", got.Big.String())
}

func TestTagNegativeBignum(t *testing.T) {
	// 3(h'010000000000000000') == -(2^64)-1
	got, err := Decode(mustHex(t, "c349010000000000000000"))
	require.NoError(t, err)
	require.Equal(t, KindBigInt, got.Kind)
	assert.Equal(t, "-18446744073709551617", got.Big.String())
}

func TestTagURI(t *testing.T) {
	// 32("http://a.b")
	got, err := Decode(mustHex(t, "d8206a687474703a2f2f612e62"))
	require.NoError(t, err)
	require.Equal(t, KindURI, got.Kind)
	assert.Equal(t, "http://a.b", got.Text)
}

func TestTagNotApplicableFallsThroughToGenericWrapper(t *testing.T) {
	// tag 32 (URI) over an integer: shape doesn't match, falls through.
	got, err := Decode(mustHex(t, "d82001"))
	require.NoError(t, err)
	require.Equal(t, KindTagged, got.Kind)
	assert.Equal(t, []uint64{32}, got.Tags)
	assert.Equal(t, uint64(1), got.Inner.Uint)
}

func TestTagBase64URLHint(t *testing.T) {
	// 21(h'00010203')
	got, err := Decode(mustHex(t, "d54400010203"))
	require.NoError(t, err)
	require.Equal(t, KindBase64String, got.Kind)
	assert.Equal(t, BaseVariantBase64URL, got.BaseVariant)
	assert.Equal(t, []byte{0, 1, 2, 3}, got.Bytes)
}

func TestApplyTagsNoTagsPassThrough(t *testing.T) {
	v := Value{Kind: KindUint, Uint: 42}
	out, err := applyTags(v, nil, nil)
	require.NoError(t, err)
	assert.True(t, v.Equal(out))
}

func TestDecodeWithTagObserverNotifiedOnMatch(t *testing.T) {
	var gotTag uint64
	var gotMatched bool
	var gotKind string
	observer := func(tag uint64, matched bool, kind string) {
		gotTag, gotMatched, gotKind = tag, matched, kind
	}

	// 32("http://a.b")
	_, err := Decode(mustHex(t, "d8206a687474703a2f2f612e62"), WithTagObserver(observer))
	require.NoError(t, err)
	assert.Equal(t, uint64(32), gotTag)
	assert.True(t, gotMatched)
	assert.Equal(t, "URI", gotKind)
}

func TestDecodeWithTagObserverNotifiedOnMismatch(t *testing.T) {
	var gotMatched bool
	observer := func(tag uint64, matched bool, kind string) {
		gotMatched = matched
	}

	// tag 32 (URI) over an integer: shape doesn't match.
	_, err := Decode(mustHex(t, "d82001"), WithTagObserver(observer))
	require.NoError(t, err)
	assert.False(t, gotMatched)
}
