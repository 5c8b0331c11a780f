package cbor

import "math/big"

// bigIntThreshold is the argument value at or above which an integer
// (major type 0 or 1) is represented as a big integer instead of a native
// KindUint/KindNegInt (spec §8 Testable Properties: "a decoded unsigned
// argument >= 2^63 is represented as a big integer; strictly less, as a
// native integer"). This also governs major type 1, since -1-n must fit
// in an int64.
const bigIntThreshold = uint64(1) << 63

func (st *decodeState) decodeUnsignedInteger() (Value, error) {
	arg, err := st.r.ReadUint64()
	if err != nil {
		return Value{}, wrapReaderErr(err, st.r)
	}
	if arg >= bigIntThreshold {
		return Value{Kind: KindBigInt, Big: new(big.Int).SetUint64(arg)}, nil
	}
	return Value{Kind: KindUint, Uint: arg}, nil
}

func (st *decodeState) decodeNegativeInteger() (Value, error) {
	arg, err := st.r.ReadNegativeIntegerRaw()
	if err != nil {
		return Value{}, wrapReaderErr(err, st.r)
	}
	if arg >= bigIntThreshold {
		b := new(big.Int).SetUint64(arg)
		b.Add(b, big.NewInt(1))
		b.Neg(b)
		return Value{Kind: KindBigInt, Big: b}, nil
	}
	return Value{Kind: KindNegInt, NegInt: -1 - int64(arg)}, nil
}

func (st *decodeState) decodeByteString() (Value, error) {
	chunks, indefinite, err := st.r.ReadByteStringChunks()
	if err != nil {
		return Value{}, wrapReaderErr(err, st.r)
	}
	if !indefinite {
		return Value{Kind: KindBytes, Bytes: chunks[0]}, nil
	}
	return Value{Kind: KindBytesIndefinite, BytesChunks: chunks}, nil
}

func (st *decodeState) decodeTextString() (Value, error) {
	chunks, indefinite, err := st.r.ReadTextStringChunks()
	if err != nil {
		return Value{}, wrapReaderErr(err, st.r)
	}
	if !indefinite {
		return Value{Kind: KindText, Text: chunks[0]}, nil
	}
	return Value{Kind: KindTextIndefinite, TextChunks: chunks}, nil
}
