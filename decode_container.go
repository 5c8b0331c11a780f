package cbor

func (st *decodeState) decodeArray() (Value, error) {
	n, err := st.r.ReadStartArray()
	if err != nil {
		return Value{}, wrapReaderErr(err, st.r)
	}
	indefinite := n == -1

	var items []Value
	if indefinite {
		for {
			state, err := st.r.PeekState()
			if err != nil {
				return Value{}, wrapReaderErr(err, st.r)
			}
			if state == StateEndArray {
				break
			}
			item, err := st.decodeItem()
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
	} else {
		items = make([]Value, 0, n)
		for i := 0; i < n; i++ {
			item, err := st.decodeItem()
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
	}

	if err := st.r.ReadEndArray(); err != nil {
		return Value{}, wrapReaderErr(err, st.r)
	}
	return Value{Kind: KindArray, Array: items, ArrayIndefinite: indefinite}, nil
}

// decodeMap decodes a map, resolving duplicate keys according to
// opts.failOnDuplicateKey: last-write-wins by default (spec §4.6, §9), or
// a hard ErrDuplicateKey failure when strict mode is requested (§5).
// Keys may be any CBOR value, including containers, so duplicate
// detection uses structural Value.Equal rather than a native map.
func (st *decodeState) decodeMap() (Value, error) {
	n, err := st.r.ReadStartMap()
	if err != nil {
		return Value{}, wrapReaderErr(err, st.r)
	}
	indefinite := n == -1

	m := Value{Kind: KindMap, MapIndefinite: indefinite}
	insert := func(key, val Value) error {
		for i, existing := range m.MapKeys {
			if existing.Equal(key) {
				if st.opts.failOnDuplicateKey {
					return NewCborError(ErrDuplicateKey, st.r.CurrentOffset(), "duplicate map key")
				}
				m.MapValues[i] = val
				return nil
			}
		}
		m.MapKeys = append(m.MapKeys, key)
		m.MapValues = append(m.MapValues, val)
		return nil
	}

	readPair := func() error {
		key, err := st.decodeItem()
		if err != nil {
			return err
		}
		val, err := st.decodeItem()
		if err != nil {
			return err
		}
		return insert(key, val)
	}

	if indefinite {
		for {
			state, err := st.r.PeekState()
			if err != nil {
				return Value{}, wrapReaderErr(err, st.r)
			}
			if state == StateEndMap {
				break
			}
			if err := readPair(); err != nil {
				return Value{}, err
			}
		}
	} else {
		for i := 0; i < n; i++ {
			if err := readPair(); err != nil {
				return Value{}, err
			}
		}
	}

	if err := st.r.ReadEndMap(); err != nil {
		return Value{}, wrapReaderErr(err, st.r)
	}
	return m, nil
}
