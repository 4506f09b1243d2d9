package protocol

import (
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"

	"mcserverd/internal/buffer"
)

// cursorReader adapts a Cursor's remaining bytes to io.Reader so the NBT
// decoder can consume exactly as many bytes as the tag tree needs, leaving
// the cursor's read position advanced in lockstep — NbtBlob is an opaque
// sub-codec over the *current* cursor, not a length-prefixed field.
type cursorReader struct{ c *buffer.Cursor }

func (r cursorReader) Read(p []byte) (int, error) {
	n := len(p)
	if avail := r.c.Len(); avail < n {
		n = avail
	}
	if n == 0 {
		return 0, io.EOF
	}
	b, err := r.c.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	copy(p, b)
	return n, nil
}

// cursorWriter adapts a Cursor as an io.Writer for the NBT encoder.
type cursorWriter struct{ c *buffer.Cursor }

func (w cursorWriter) Write(p []byte) (int, error) {
	w.c.WriteBytes(p)
	return len(p), nil
}

// WriteNBT encodes v as a root TAG_Compound (empty root name, matching the
// vanilla network NBT convention) directly onto c.
func WriteNBT(c *buffer.Cursor, v any) error {
	enc := nbt.NewEncoder(cursorWriter{c})
	if err := enc.Encode(v, ""); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNBT, err)
	}
	return nil
}

// ReadNBT decodes a root TAG_Compound from c into T, consuming exactly the
// bytes the tag tree occupies.
func ReadNBT[T any](c *buffer.Cursor) (T, error) {
	var out T
	dec := nbt.NewDecoder(cursorReader{c})
	if _, err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidNBT, err)
	}
	return out, nil
}

// NBTBytes encodes v to a standalone byte slice without touching a cursor —
// used to build the embedded dimension registry asset once at startup.
func NBTBytes(v any) ([]byte, error) {
	c := buffer.New()
	if err := WriteNBT(c, v); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}
