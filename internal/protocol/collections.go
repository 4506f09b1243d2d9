package protocol

import "mcserverd/internal/buffer"

// WriteVec writes a VarInt length prefix followed by each element encoded
// with writeElem (the Vec<T> wire shape).
func WriteVec[T any](c *buffer.Cursor, items []T, writeElem func(*buffer.Cursor, T)) {
	VarInt(len(items)).WriteTo(c)
	for _, it := range items {
		writeElem(c, it)
	}
}

// ReadVec reads a VarInt length prefix followed by that many elements.
func ReadVec[T any](c *buffer.Cursor, readElem func(*buffer.Cursor) (T, error)) ([]T, error) {
	n, err := ReadVarInt(c)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrMalformedVarint
	}
	items := make([]T, 0, n)
	for i := VarInt(0); i < n; i++ {
		v, err := readElem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// WriteArray writes N concatenated encodings with no length prefix — the
// fixed-width [T; N] wire shape. Callers are responsible for supplying
// exactly N elements.
func WriteArray[T any](c *buffer.Cursor, items []T, writeElem func(*buffer.Cursor, T)) {
	for _, it := range items {
		writeElem(c, it)
	}
}

// ReadArray reads exactly n concatenated elements with no length prefix.
func ReadArray[T any](c *buffer.Cursor, n int, readElem func(*buffer.Cursor) (T, error)) ([]T, error) {
	items := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := readElem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// WriteKnownOption writes a boolean presence flag followed by the value
// iff present. The schema — not a heuristic — determines that a field is
// a KnownOption rather than a TrailingOption.
func WriteKnownOption[T any](c *buffer.Cursor, value *T, writeElem func(*buffer.Cursor, T)) {
	if value == nil {
		c.WriteByte(0x00)
		return
	}
	c.WriteByte(0x01)
	writeElem(c, *value)
}

// ReadKnownOption reads the presence flag and, iff set, the value.
func ReadKnownOption[T any](c *buffer.Cursor, readElem func(*buffer.Cursor) (T, error)) (*T, error) {
	b, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, nil
	}
	v, err := readElem(c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ReadTrailingOption reads a value only if unread bytes remain in c — used
// only at message tails, per schema, never as a generic heuristic over
// arbitrary fields.
func ReadTrailingOption[T any](c *buffer.Cursor, readElem func(*buffer.Cursor) (T, error)) (*T, error) {
	if c.Len() == 0 {
		return nil, nil
	}
	v, err := readElem(c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
