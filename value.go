package cbor

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
)

// Kind discriminates the variants of a decoded CBOR Value. It plays the
// same role for the value tree that CborReaderState plays for the pull
// reader: a flat enum switched over, never a class hierarchy.
type Kind int

const (
	// KindUint is a native unsigned integer (argument < 2^63).
	KindUint Kind = iota
	// KindNegInt is a native negative integer (major type 1, argument < 2^63).
	KindNegInt
	// KindBigInt is an arbitrary-precision integer: either a native
	// integer promoted past the 2^63 threshold, or a tag 2/3 bignum.
	KindBigInt
	// KindBytes is a definite-length byte string.
	KindBytes
	// KindBytesIndefinite is an indefinite-length byte string, preserved
	// as its ordered list of definite chunks.
	KindBytesIndefinite
	// KindText is a definite-length, UTF-8 validated text string.
	KindText
	// KindTextIndefinite is an indefinite-length text string, preserved as
	// its ordered list of independently-validated chunks.
	KindTextIndefinite
	// KindArray is an ordered sequence of values.
	KindArray
	// KindMap is an ordered key/value mapping, first-insertion order
	// preserved, duplicate keys overwritten last-write-wins.
	KindMap
	// KindSet is a tag 258 array with duplicate elements removed.
	KindSet
	// KindBool is a boolean simple value.
	KindBool
	// KindNull is the null simple value.
	KindNull
	// KindUndefined is the undefined simple value.
	KindUndefined
	// KindFloat is an IEEE-754 float decoded from half/single/double
	// precision; FloatWidth records the source width.
	KindFloat
	// KindBigFloat is a tag 5 (mantissa, exponent) pair.
	KindBigFloat
	// KindDecimalFraction is a tag 4 (mantissa, exponent) pair.
	KindDecimalFraction
	// KindDateString is a tag 0 RFC 3339 timestamp.
	KindDateString
	// KindEpochDate is a tag 1 epoch timestamp (ms resolution).
	KindEpochDate
	// KindURI is a tag 32 text-string refinement.
	KindURI
	// KindMIME is a tag 36 text-string refinement.
	KindMIME
	// KindRegexp is a tag 35 text-string refinement.
	KindRegexp
	// KindBase64String is a tag 21/22/23/33/34 base-encoding hint.
	KindBase64String
	// KindTagged is a generic tagged wrapper for unrecognized tag shapes.
	KindTagged
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindUint:
		return "Uint"
	case KindNegInt:
		return "NegInt"
	case KindBigInt:
		return "BigInt"
	case KindBytes:
		return "Bytes"
	case KindBytesIndefinite:
		return "BytesIndefinite"
	case KindText:
		return "Text"
	case KindTextIndefinite:
		return "TextIndefinite"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindSet:
		return "Set"
	case KindBool:
		return "Bool"
	case KindNull:
		return "Null"
	case KindUndefined:
		return "Undefined"
	case KindFloat:
		return "Float"
	case KindBigFloat:
		return "BigFloat"
	case KindDecimalFraction:
		return "DecimalFraction"
	case KindDateString:
		return "DateString"
	case KindEpochDate:
		return "EpochDate"
	case KindURI:
		return "URI"
	case KindMIME:
		return "MIME"
	case KindRegexp:
		return "Regexp"
	case KindBase64String:
		return "Base64String"
	case KindTagged:
		return "Tagged"
	default:
		return "Unknown"
	}
}

// BaseVariant names the base-encoding hint carried by a KindBase64String
// value (tags 21/22/23 over byte strings, 33/34 over text strings).
type BaseVariant int

const (
	// BaseVariantNone is the zero value, unused by any real Value.
	BaseVariantNone BaseVariant = iota
	// BaseVariantBase64URL corresponds to tags 21 and 33.
	BaseVariantBase64URL
	// BaseVariantBase64 corresponds to tags 22 and 34.
	BaseVariantBase64
	// BaseVariantBase16 corresponds to tag 23.
	BaseVariantBase16
)

// Value is the decoded, immutable representation of a single CBOR item.
// Only the fields relevant to Kind are populated; this mirrors a tagged
// sum without resorting to an interface-per-variant hierarchy.
type Value struct {
	Kind Kind

	// Integers.
	Uint   uint64   // KindUint
	NegInt int64    // KindNegInt, already expressed as -1-n
	Big    *big.Int // KindBigInt

	// Byte strings.
	Bytes       []byte   // KindBytes, and the byte-string origin of KindBase64String
	BytesChunks [][]byte // KindBytesIndefinite, chunks in encounter order

	// Text strings.
	Text       string   // KindText, KindURI, KindMIME, KindRegexp, KindDateString, text-origin KindBase64String
	TextChunks []string // KindTextIndefinite, chunks in encounter order

	// Containers.
	Array           []Value // KindArray, KindSet
	ArrayIndefinite bool    // KindArray only

	MapKeys       []Value // KindMap, parallel to MapValues, insertion order
	MapValues     []Value
	MapIndefinite bool

	// Simple values.
	Bool bool // KindBool

	// Floats.
	Float      float64 // KindFloat
	FloatWidth int     // 16, 32, or 64

	// Big float / decimal fraction.
	Mantissa *Value // KindBigFloat, KindDecimalFraction
	Exponent *Value

	// Dates.
	Time           time.Time // KindDateString, KindEpochDate (zero if EpochMillisBig is set)
	EpochMillis    int64     // KindEpochDate, valid when EpochMillisBig is nil
	EpochMillisBig *big.Int  // KindEpochDate, set only when the millisecond count overflows int64

	// Base-encoding hint.
	BaseVariant BaseVariant // KindBase64String

	// Generic tagged wrapper.
	Tags  []uint64 // KindTagged, encounter order
	Inner *Value   // KindTagged
}

// IsNumeric reports whether v is one of the integer kinds accepted as a
// mantissa or exponent by tag 4 (decimal fraction) and tag 5 (big float).
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindUint, KindNegInt, KindBigInt:
		return true
	default:
		return false
	}
}

// BytesJoined returns the byte content of a byte-string value, joining an
// indefinite-length value's chunks into a single slice. It panics if v is
// not a byte-string kind; callers should check Kind first.
func (v Value) BytesJoined() []byte {
	switch v.Kind {
	case KindBytes:
		return v.Bytes
	case KindBytesIndefinite:
		var total int
		for _, c := range v.BytesChunks {
			total += len(c)
		}
		out := make([]byte, 0, total)
		for _, c := range v.BytesChunks {
			out = append(out, c...)
		}
		return out
	case KindBase64String:
		return v.Bytes
	default:
		panic(fmt.Sprintf("cbor: BytesJoined called on %s value", v.Kind))
	}
}

// TextJoined returns the text content of a text-string-shaped value,
// joining an indefinite-length value's chunks into a single string.
func (v Value) TextJoined() string {
	switch v.Kind {
	case KindTextIndefinite:
		var out []byte
		for _, c := range v.TextChunks {
			out = append(out, c...)
		}
		return string(out)
	case KindText, KindURI, KindMIME, KindRegexp, KindDateString, KindBase64String:
		return v.Text
	default:
		panic(fmt.Sprintf("cbor: TextJoined called on %s value", v.Kind))
	}
}

// EncodedText returns the base encoding of a KindBase64String value's
// payload: for byte-origin tags (21/22/23) it renders v.Bytes in the
// hinted encoding; for text-origin tags (33/34) the text already is that
// encoding and is returned unchanged.
func (v Value) EncodedText() (string, bool) {
	if v.Kind != KindBase64String {
		return "", false
	}
	if v.Bytes == nil {
		return v.Text, true
	}
	switch v.BaseVariant {
	case BaseVariantBase64URL:
		return base64.RawURLEncoding.EncodeToString(v.Bytes), true
	case BaseVariantBase64:
		return base64.StdEncoding.EncodeToString(v.Bytes), true
	case BaseVariantBase16:
		return hex.EncodeToString(v.Bytes), true
	default:
		return "", false
	}
}

// DecodedBytes decodes the payload of a text-origin KindBase64String value
// (tags 33/34) back into raw bytes. For byte-origin values it returns the
// bytes unchanged, since those were never re-encoded at decode time.
func (v Value) DecodedBytes() ([]byte, error) {
	if v.Kind != KindBase64String {
		return nil, fmt.Errorf("cbor: DecodedBytes called on %s value", v.Kind)
	}
	if v.Bytes != nil {
		return v.Bytes, nil
	}
	switch v.BaseVariant {
	case BaseVariantBase64URL:
		return base64.RawURLEncoding.DecodeString(v.Text)
	case BaseVariantBase64:
		return base64.StdEncoding.DecodeString(v.Text)
	default:
		return nil, fmt.Errorf("cbor: no byte decoding for base variant %d", v.BaseVariant)
	}
}

// Equal reports whether v and other are structurally equal, recursing
// through containers and tag wrappers. Map/set comparison needs this for
// duplicate-key overwrite and tag 258 deduplication (spec: "equality of
// contained maps/arrays must be structural").
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindUint:
		return v.Uint == other.Uint
	case KindNegInt:
		return v.NegInt == other.NegInt
	case KindBigInt:
		return v.Big.Cmp(other.Big) == 0
	case KindBytes:
		return bytesEqual(v.Bytes, other.Bytes)
	case KindBytesIndefinite:
		return chunksEqual(v.BytesChunks, other.BytesChunks)
	case KindText:
		return v.Text == other.Text
	case KindTextIndefinite:
		if len(v.TextChunks) != len(other.TextChunks) {
			return false
		}
		for i := range v.TextChunks {
			if v.TextChunks[i] != other.TextChunks[i] {
				return false
			}
		}
		return true
	case KindArray, KindSet:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.MapKeys) != len(other.MapKeys) {
			return false
		}
		for i := range v.MapKeys {
			ov, ok := other.lookup(v.MapKeys[i])
			if !ok || !v.MapValues[i].Equal(ov) {
				return false
			}
		}
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindNull, KindUndefined:
		return true
	case KindFloat:
		return math.Float64bits(v.Float) == math.Float64bits(other.Float)
	case KindBigFloat, KindDecimalFraction:
		return v.Mantissa.Equal(*other.Mantissa) && v.Exponent.Equal(*other.Exponent)
	case KindDateString:
		return v.Time.Equal(other.Time)
	case KindEpochDate:
		if v.EpochMillisBig != nil || other.EpochMillisBig != nil {
			return bigEqual(v.EpochMillisBig, other.EpochMillisBig)
		}
		return v.EpochMillis == other.EpochMillis
	case KindURI, KindMIME, KindRegexp:
		return v.Text == other.Text
	case KindBase64String:
		return v.BaseVariant == other.BaseVariant && bytesEqual(v.Bytes, other.Bytes) && v.Text == other.Text
	case KindTagged:
		if len(v.Tags) != len(other.Tags) {
			return false
		}
		for i := range v.Tags {
			if v.Tags[i] != other.Tags[i] {
				return false
			}
		}
		return v.Inner.Equal(*other.Inner)
	default:
		return false
	}
}

// String renders v as a compact debug tree, used by cmd/cbordump and by
// failing test assertions; it is not part of the decode contract.
func (v Value) String() string {
	switch v.Kind {
	case KindUint:
		return fmt.Sprintf("%d", v.Uint)
	case KindNegInt:
		return fmt.Sprintf("%d", v.NegInt)
	case KindBigInt:
		return v.Big.String()
	case KindBytes:
		return fmt.Sprintf("h'%x'", v.Bytes)
	case KindBytesIndefinite:
		return fmt.Sprintf("h'%x'", v.BytesJoined())
	case KindText:
		return fmt.Sprintf("%q", v.Text)
	case KindTextIndefinite:
		return fmt.Sprintf("%q", v.TextJoined())
	case KindArray, KindSet:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, len(v.MapKeys))
		for i := range v.MapKeys {
			parts[i] = v.MapKeys[i].String() + ": " + v.MapValues[i].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBigFloat, KindDecimalFraction:
		return fmt.Sprintf("%s(mantissa=%s, exponent=%s)", v.Kind, v.Mantissa.String(), v.Exponent.String())
	case KindDateString:
		return v.Time.Format(time.RFC3339Nano)
	case KindEpochDate:
		if v.EpochMillisBig != nil {
			return fmt.Sprintf("epoch(%sms)", v.EpochMillisBig.String())
		}
		return fmt.Sprintf("epoch(%dms)", v.EpochMillis)
	case KindURI, KindMIME, KindRegexp:
		return fmt.Sprintf("%s(%q)", v.Kind, v.Text)
	case KindBase64String:
		encoded, _ := v.EncodedText()
		return fmt.Sprintf("base64(%q)", encoded)
	case KindTagged:
		return fmt.Sprintf("tags%v(%s)", v.Tags, v.Inner.String())
	default:
		return "<invalid>"
	}
}

func (v Value) lookup(key Value) (Value, bool) {
	for i, k := range v.MapKeys {
		if k.Equal(key) {
			return v.MapValues[i], true
		}
	}
	return Value{}, false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func chunksEqual(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

// dedupValues removes duplicates from an array, preserving the first
// occurrence of each distinct element, for tag 258 (set) construction.
func dedupValues(in []Value) []Value {
	out := make([]Value, 0, len(in))
	for _, v := range in {
		dup := false
		for _, seen := range out {
			if seen.Equal(v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}
