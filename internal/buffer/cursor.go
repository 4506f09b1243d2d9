// Package buffer implements ByteCursor, a growable byte array with
// independent read/write cursors and bit-level accessors, usable both as a
// sink for writers and a source for readers within the same instance.
package buffer

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrUnexpectedEOF is returned by any read operation that would advance the
// read cursor past the write cursor.
var ErrUnexpectedEOF = errors.New("buffer: read past write cursor")

// Cursor is a growable byte buffer with a read cursor (rpos), a write cursor
// (wpos, always len(buf)) and independent sub-byte cursors for bit-level
// access. The default byte order is big-endian, matching every multi-byte
// field on the Minecraft wire.
type Cursor struct {
	buf   []byte
	rpos  int
	order binary.ByteOrder

	rbit  uint8
	rbyte byte

	wbit  uint8
	wbyte byte
}

// New returns an empty Cursor ready for writing.
func New() *Cursor {
	return &Cursor{order: binary.BigEndian}
}

// NewFromBytes wraps an existing byte slice as a read-only source: the
// write cursor starts at len(b) so every byte is immediately readable.
func NewFromBytes(b []byte) *Cursor {
	return &Cursor{buf: b, order: binary.BigEndian}
}

// SetLittleEndian switches the cursor's multi-byte integer/float order.
// Every Minecraft wire field is big-endian; this exists for completeness
// and for tests that exercise the order switch itself.
func (c *Cursor) SetLittleEndian() { c.order = binary.LittleEndian }

// SetBigEndian restores the default big-endian order.
func (c *Cursor) SetBigEndian() { c.order = binary.BigEndian }

// Len reports the number of unread bytes between the read and write cursors.
func (c *Cursor) Len() int { return len(c.buf) - c.rpos }

// WritePos reports the current write cursor position (== len of the
// underlying buffer).
func (c *Cursor) WritePos() int { return len(c.buf) }

// ReadPos reports the current read cursor position.
func (c *Cursor) ReadPos() int { return c.rpos }

// Bytes returns a copy of the written prefix of the buffer (to_bytes).
func (c *Cursor) Bytes() []byte {
	out := make([]byte, len(c.buf))
	copy(out, c.buf)
	return out
}

// Remaining returns the unread slice without copying; callers must not
// retain it across further writes, which may reallocate the backing array.
func (c *Cursor) Remaining() []byte { return c.buf[c.rpos:] }

// MutableTail returns the live backing slice from byte offset start to the
// write cursor, without copying. It exists for callers that must mutate
// already-written bytes in place (e.g. decrypting a freshly appended
// ciphertext chunk before parsing it) where Bytes()'s copy would make the
// mutation invisible to the cursor. Callers must not retain the slice
// across further writes, which may reallocate the backing array.
func (c *Cursor) MutableTail(start int) []byte { return c.buf[start:] }

// Skip advances the read cursor by n bytes without copying them out,
// flushing any pending sub-byte read cursor first. It fails with
// ErrUnexpectedEOF, leaving the read cursor unchanged, if fewer than n
// unread bytes remain.
func (c *Cursor) Skip(n int) error {
	if err := c.requireFlushedRead(n); err != nil {
		return err
	}
	c.rpos += n
	return nil
}

// Mark flushes any pending sub-byte read cursor and returns the current
// read position, for codecs (FrameCodec) that must roll back to the start
// of a frame when the underlying source hasn't buffered enough bytes yet.
func (c *Cursor) Mark() int {
	c.FlushReadBit()
	return c.rpos
}

// Rewind resets the read cursor (and its sub-byte state) to a position
// previously returned by Mark.
func (c *Cursor) Rewind(mark int) {
	c.rpos = mark
	c.rbit = 0
}

// Compact discards the already-consumed prefix (everything before the read
// cursor), sliding remaining bytes to the front and resetting the read
// cursor to zero. The connection task calls this between read passes so
// its per-direction accumulator doesn't grow unbounded across the
// lifetime of a connection.
func (c *Cursor) Compact() {
	if c.rpos == 0 {
		return
	}
	n := copy(c.buf, c.buf[c.rpos:])
	c.buf = c.buf[:n]
	c.rpos = 0
	c.rbit = 0
}

// Reset clears the buffer and both cursors.
func (c *Cursor) Reset() {
	c.buf = c.buf[:0]
	c.rpos = 0
	c.rbit, c.wbit = 0, 0
	c.rbyte, c.wbyte = 0, 0
}

// --- byte-granular writes ---

// WriteByte appends a single byte. It flushes any pending sub-byte write
// cursor first, per the ByteCursor contract.
func (c *Cursor) WriteByte(b byte) error {
	c.FlushWriteBit()
	c.buf = append(c.buf, b)
	return nil
}

// WriteBytes appends raw bytes verbatim.
func (c *Cursor) WriteBytes(b []byte) {
	c.FlushWriteBit()
	c.buf = append(c.buf, b...)
}

func (c *Cursor) WriteUint16(v uint16) {
	c.FlushWriteBit()
	var tmp [2]byte
	c.order.PutUint16(tmp[:], v)
	c.buf = append(c.buf, tmp[:]...)
}

func (c *Cursor) WriteUint32(v uint32) {
	c.FlushWriteBit()
	var tmp [4]byte
	c.order.PutUint32(tmp[:], v)
	c.buf = append(c.buf, tmp[:]...)
}

func (c *Cursor) WriteUint64(v uint64) {
	c.FlushWriteBit()
	var tmp [8]byte
	c.order.PutUint64(tmp[:], v)
	c.buf = append(c.buf, tmp[:]...)
}

func (c *Cursor) WriteInt16(v int16) { c.WriteUint16(uint16(v)) }
func (c *Cursor) WriteInt32(v int32) { c.WriteUint32(uint32(v)) }
func (c *Cursor) WriteInt64(v int64) { c.WriteUint64(uint64(v)) }

func (c *Cursor) WriteFloat32(v float32) { c.WriteUint32(math.Float32bits(v)) }
func (c *Cursor) WriteFloat64(v float64) { c.WriteUint64(math.Float64bits(v)) }

// --- byte-granular reads ---

func (c *Cursor) requireFlushedRead(n int) error {
	c.FlushReadBit()
	if c.rpos+n > len(c.buf) {
		return ErrUnexpectedEOF
	}
	return nil
}

// ReadByte reads a single byte, advancing the read cursor.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.requireFlushedRead(1); err != nil {
		return 0, err
	}
	b := c.buf[c.rpos]
	c.rpos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrUnexpectedEOF
	}
	if err := c.requireFlushedRead(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.rpos:c.rpos+n])
	c.rpos += n
	return out, nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	if err := c.requireFlushedRead(2); err != nil {
		return 0, err
	}
	v := c.order.Uint16(c.buf[c.rpos:])
	c.rpos += 2
	return v, nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.requireFlushedRead(4); err != nil {
		return 0, err
	}
	v := c.order.Uint32(c.buf[c.rpos:])
	c.rpos += 4
	return v, nil
}

func (c *Cursor) ReadUint64() (uint64, error) {
	if err := c.requireFlushedRead(8); err != nil {
		return 0, err
	}
	v := c.order.Uint64(c.buf[c.rpos:])
	c.rpos += 8
	return v, nil
}

func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err
}

func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.ReadUint64()
	return math.Float64frombits(v), err
}

// --- bit-level accessors, MSB to LSB within the current byte ---

// WriteBit writes a single bit, MSB-first, auto-advancing the byte cursor
// once 8 bits have accumulated.
func (c *Cursor) WriteBit(bit bool) {
	if bit {
		c.wbyte |= 1 << (7 - c.wbit)
	}
	c.wbit++
	if c.wbit == 8 {
		c.buf = append(c.buf, c.wbyte)
		c.wbit = 0
		c.wbyte = 0
	}
}

// FlushWriteBit pads and commits a partially written byte, resetting the
// sub-byte write cursor to the next whole byte.
func (c *Cursor) FlushWriteBit() {
	if c.wbit == 0 {
		return
	}
	c.buf = append(c.buf, c.wbyte)
	c.wbit = 0
	c.wbyte = 0
}

// ReadBit reads a single bit, MSB-first, pulling a fresh byte from the
// buffer whenever the sub-byte read cursor wraps.
func (c *Cursor) ReadBit() (bool, error) {
	if c.rbit == 0 {
		if c.rpos >= len(c.buf) {
			return false, ErrUnexpectedEOF
		}
		c.rbyte = c.buf[c.rpos]
		c.rpos++
	}
	bit := (c.rbyte>>(7-c.rbit))&1 == 1
	c.rbit++
	if c.rbit == 8 {
		c.rbit = 0
	}
	return bit, nil
}

// FlushReadBit discards any unread bits of the current byte, resetting the
// sub-byte read cursor to the next whole byte boundary.
func (c *Cursor) FlushReadBit() {
	c.rbit = 0
}
