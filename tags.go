package cbor

import (
	"math"
	"math/big"
	"strings"
	"time"
)

// applyTags implements the tag dispatcher (spec §4.8): an empty tag stack
// passes the value through unchanged; a single tag is checked against a
// recognized refinement for the value's shape and, on match, consumes the
// tag and emits the refined value; any multi-tag chain, or a single tag
// matching nothing, is preserved verbatim as a generic tagged wrapper.
// Chained custom refinements are intentionally not attempted (spec §9,
// "single-tag matching"). observe, when non-nil, is notified of every
// single-tag dispatch decision (see WithTagObserver); it is never called
// for multi-tag chains, since those never reach tryRefine at all.
func applyTags(v Value, tags []uint64, observe TagObserver) (Value, error) {
	if len(tags) == 0 {
		return v, nil
	}
	if len(tags) == 1 {
		refined, ok, err := tryRefine(tags[0], v)
		if err != nil {
			if observe != nil {
				observe(tags[0], false, "")
			}
			return Value{}, err
		}
		if ok {
			if observe != nil {
				observe(tags[0], true, refined.Kind.String())
			}
			return refined, nil
		}
		if observe != nil {
			observe(tags[0], false, v.Kind.String())
		}
	}
	return Value{Kind: KindTagged, Tags: append([]uint64(nil), tags...), Inner: &v}, nil
}

// tryRefine attempts the single recognized interpretation of tag over v.
// ok is false when tag doesn't apply to v's shape at all, in which case
// the caller falls back to a generic wrapper. A non-nil error is a hard
// failure (MalformedTagPayload, InvalidRFC3339) that must propagate
// rather than fall back, since the shape was recognized but invalid.
func tryRefine(tag uint64, v Value) (Value, bool, error) {
	switch tag {
	case uint64(TagDateTimeString):
		if !isTextKind(v.Kind) {
			return Value{}, false, nil
		}
		s := v.TextJoined()
		t, err := parseDateTimeString(s)
		if err != nil {
			return Value{}, false, ErrInvalidRFC3339
		}
		return Value{Kind: KindDateString, Text: s, Time: t}, true, nil

	case uint64(TagUnixTime):
		return refineEpochDate(v)

	case uint64(TagUnsignedBignum):
		if !isBytesKind(v.Kind) {
			return Value{}, false, nil
		}
		return Value{Kind: KindBigInt, Big: new(big.Int).SetBytes(v.BytesJoined())}, true, nil

	case uint64(TagNegativeBignum):
		if !isBytesKind(v.Kind) {
			return Value{}, false, nil
		}
		n := new(big.Int).SetBytes(v.BytesJoined())
		n.Add(n, big.NewInt(1))
		n.Neg(n)
		return Value{Kind: KindBigInt, Big: n}, true, nil

	case uint64(TagDecimalFraction), uint64(TagBigFloat):
		return refineNumericPair(tag, v)

	case uint64(TagExpectedBase64URL), uint64(TagExpectedBase64), uint64(TagExpectedBase16):
		if !isBytesKind(v.Kind) {
			return Value{}, false, nil
		}
		return Value{Kind: KindBase64String, Bytes: v.BytesJoined(), BaseVariant: baseVariantForTag(tag)}, true, nil

	case uint64(TagURI):
		if !isTextKind(v.Kind) {
			return Value{}, false, nil
		}
		return Value{Kind: KindURI, Text: v.TextJoined()}, true, nil

	case uint64(TagBase64URL), uint64(TagBase64):
		if !isTextKind(v.Kind) {
			return Value{}, false, nil
		}
		return Value{Kind: KindBase64String, Text: v.TextJoined(), BaseVariant: baseVariantForTag(tag)}, true, nil

	case uint64(TagRegularExpression):
		if !isTextKind(v.Kind) {
			return Value{}, false, nil
		}
		return Value{Kind: KindRegexp, Text: v.TextJoined()}, true, nil

	case uint64(TagMIMEMessage):
		if !isTextKind(v.Kind) {
			return Value{}, false, nil
		}
		return Value{Kind: KindMIME, Text: v.TextJoined()}, true, nil

	case uint64(TagSet):
		if v.Kind != KindArray {
			return Value{}, false, nil
		}
		return Value{Kind: KindSet, Array: dedupValues(v.Array)}, true, nil

	default:
		return Value{}, false, nil
	}
}

func isTextKind(k Kind) bool {
	return k == KindText || k == KindTextIndefinite
}

func isBytesKind(k Kind) bool {
	return k == KindBytes || k == KindBytesIndefinite
}

func baseVariantForTag(tag uint64) BaseVariant {
	switch CborTag(tag) {
	case TagExpectedBase64URL, TagBase64URL:
		return BaseVariantBase64URL
	case TagExpectedBase64, TagBase64:
		return BaseVariantBase64
	case TagExpectedBase16:
		return BaseVariantBase16
	default:
		return BaseVariantNone
	}
}

// refineEpochDate implements tag 1 over an integer (seconds * 1000ms) or a
// float (round(seconds * 1000)ms), per spec §4.2 and §4.7.
func refineEpochDate(v Value) (Value, bool, error) {
	switch v.Kind {
	case KindUint:
		if v.Uint > math.MaxInt64/1000 {
			millis := new(big.Int).Mul(new(big.Int).SetUint64(v.Uint), big.NewInt(1000))
			return Value{Kind: KindEpochDate, EpochMillisBig: millis}, true, nil
		}
		millis := int64(v.Uint) * 1000
		return Value{Kind: KindEpochDate, EpochMillis: millis, Time: time.UnixMilli(millis).UTC()}, true, nil
	case KindNegInt:
		if v.NegInt < math.MinInt64/1000 {
			millis := new(big.Int).Mul(big.NewInt(v.NegInt), big.NewInt(1000))
			return Value{Kind: KindEpochDate, EpochMillisBig: millis}, true, nil
		}
		millis := v.NegInt * 1000
		return Value{Kind: KindEpochDate, EpochMillis: millis, Time: time.UnixMilli(millis).UTC()}, true, nil
	case KindBigInt:
		millis := new(big.Int).Mul(v.Big, big.NewInt(1000))
		return Value{Kind: KindEpochDate, EpochMillisBig: millis}, true, nil
	case KindFloat:
		millis := int64(math.Round(v.Float * 1000))
		return Value{Kind: KindEpochDate, EpochMillis: millis, Time: time.UnixMilli(millis).UTC()}, true, nil
	default:
		return Value{}, false, nil
	}
}

// refineNumericPair implements tag 4 (decimal fraction) and tag 5 (big
// float): both require a two-element array [exponent, mantissa] of
// numeric values (RFC 8949 §3.4.3-3.4.4; spec.md's prose labels the pair
// "(mantissa, exponent)" but its own worked example, §8 scenario 12,
// encodes exponent first — this follows the worked example). A
// recognized array of the wrong length or element kind is a hard
// MalformedTagPayload failure, not a silent fall-through.
func refineNumericPair(tag uint64, v Value) (Value, bool, error) {
	if v.Kind != KindArray {
		return Value{}, false, nil
	}
	if len(v.Array) != 2 {
		return Value{}, false, ErrMalformedTagPayload
	}
	exponent, mantissa := v.Array[0], v.Array[1]
	if !exponent.IsNumeric() || !mantissa.IsNumeric() {
		return Value{}, false, ErrMalformedTagPayload
	}

	kind := KindDecimalFraction
	if CborTag(tag) == TagBigFloat {
		kind = KindBigFloat
	}
	return Value{Kind: kind, Mantissa: &mantissa, Exponent: &exponent}, true, nil
}

// parseDateTimeString parses a tag 0 payload. Matching the pinned,
// deliberately lossy behavior documented in spec.md §9: a `+` offset is
// found by splitting on the first occurrence, the offset is discarded,
// and the remaining wall-clock value is parsed as if it were UTC. This is
// a known limitation carried forward rather than silently corrected.
func parseDateTimeString(s string) (time.Time, error) {
	idx := strings.IndexByte(s, '+')
	if idx < 0 {
		return time.Parse(time.RFC3339Nano, s)
	}

	datePart := s[:idx]
	if t, err := time.Parse("2006-01-02T15:04:05", datePart); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05.999999999", datePart)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
