// Package frame implements the length-prefixed packet framing described in
// §4.3: two reader modes and two writer modes selected by whether the
// connection's compression threshold is non-negative.
package frame

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"mcserverd/internal/buffer"
	"mcserverd/internal/protocol"
)

// MaxDataLen bounds any decompressed packet payload (id + data).
const MaxDataLen = 2_097_152

// ErrIncomplete signals a partial frame: benign, retried once more bytes
// arrive. The cursor's read position is never advanced past the point it
// held when Read was called.
var ErrIncomplete = errors.New("frame: incomplete frame")

// ErrOversizedFrame signals a declared or inflated payload beyond
// MaxDataLen.
var ErrOversizedFrame = errors.New("frame: payload exceeds MAX_DATA_LEN")

// Frame is a decoded (id, payload) pair.
type Frame struct {
	ID      int32
	Payload []byte
}

func rewindIfIncomplete(c *buffer.Cursor, mark int, err error) error {
	if errors.Is(err, buffer.ErrUnexpectedEOF) {
		c.Rewind(mark)
		return ErrIncomplete
	}
	return err
}

// ReadUncompressed decodes <VarInt TotalLen><VarInt PacketId><payload>.
func ReadUncompressed(c *buffer.Cursor) (Frame, error) {
	mark := c.Mark()

	total, err := protocol.ReadVarInt(c)
	if err != nil {
		return Frame{}, rewindIfIncomplete(c, mark, err)
	}
	id, err := protocol.ReadVarInt(c)
	if err != nil {
		return Frame{}, rewindIfIncomplete(c, mark, err)
	}

	n := int(total) - protocol.VarInt(id).Size()
	if n < 0 {
		return Frame{}, fmt.Errorf("frame: negative payload length (total=%d, id=%d)", total, id)
	}
	if n > MaxDataLen {
		return Frame{}, ErrOversizedFrame
	}
	if c.Len() < n {
		c.Rewind(mark)
		return Frame{}, ErrIncomplete
	}
	payload, err := c.ReadBytes(n)
	if err != nil {
		return Frame{}, rewindIfIncomplete(c, mark, err)
	}
	return Frame{ID: int32(id), Payload: payload}, nil
}

// ReadCompressed decodes the threshold-mode frame: <TotalLen><DataLen>
// followed either by DataLen==0's bypassed raw bytes, or zlib-compressed
// bytes that inflate to exactly DataLen bytes of <id><payload>.
func ReadCompressed(c *buffer.Cursor) (Frame, error) {
	mark := c.Mark()

	total, err := protocol.ReadVarInt(c)
	if err != nil {
		return Frame{}, rewindIfIncomplete(c, mark, err)
	}
	dataLen, err := protocol.ReadVarInt(c)
	if err != nil {
		return Frame{}, rewindIfIncomplete(c, mark, err)
	}

	if dataLen == 0 {
		n := int(total) - protocol.VarInt(0).Size()
		if n < 0 {
			return Frame{}, fmt.Errorf("frame: negative bypass payload length (total=%d)", total)
		}
		if c.Len() < n {
			c.Rewind(mark)
			return Frame{}, ErrIncomplete
		}
		raw, err := c.ReadBytes(n)
		if err != nil {
			return Frame{}, rewindIfIncomplete(c, mark, err)
		}
		return decodeInner(raw)
	}

	if int(dataLen) > MaxDataLen {
		return Frame{}, ErrOversizedFrame
	}

	compressedLen := int(total) - protocol.VarInt(dataLen).Size()
	if compressedLen < 0 {
		return Frame{}, fmt.Errorf("frame: negative compressed length (total=%d, dataLen=%d)", total, dataLen)
	}
	if c.Len() < compressedLen {
		c.Rewind(mark)
		return Frame{}, ErrIncomplete
	}
	compressed, err := c.ReadBytes(compressedLen)
	if err != nil {
		return Frame{}, rewindIfIncomplete(c, mark, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return Frame{}, fmt.Errorf("frame: zlib init: %w", err)
	}
	defer zr.Close()

	inflated := make([]byte, dataLen)
	if _, err := io.ReadFull(zr, inflated); err != nil {
		return Frame{}, fmt.Errorf("frame: zlib inflate: %w", err)
	}
	return decodeInner(inflated)
}

func decodeInner(raw []byte) (Frame, error) {
	inner := buffer.NewFromBytes(raw)
	id, err := protocol.ReadVarInt(inner)
	if err != nil {
		return Frame{}, fmt.Errorf("frame: decoding inner packet id: %w", err)
	}
	return Frame{ID: int32(id), Payload: inner.Remaining()}, nil
}

// WriteUncompressed emits VarInt(size(id)+len(payload)), VarInt(id), payload.
func WriteUncompressed(c *buffer.Cursor, id int32, payload []byte) {
	idv := protocol.VarInt(id)
	protocol.VarInt(idv.Size() + len(payload)).WriteTo(c)
	idv.WriteTo(c)
	c.WriteBytes(payload)
}

// WriteCompressed composes raw = VarInt(id) ‖ payload. If len(raw) is
// below threshold it bypasses compression with a DataLen==0 marker;
// otherwise it zlib-deflates raw.
func WriteCompressed(c *buffer.Cursor, id int32, payload []byte, threshold int32) error {
	raw := buffer.New()
	protocol.VarInt(id).WriteTo(raw)
	raw.WriteBytes(payload)
	rawBytes := raw.Bytes()

	if len(rawBytes) < int(threshold) {
		zero := protocol.VarInt(0)
		protocol.VarInt(zero.Size() + len(rawBytes)).WriteTo(c)
		zero.WriteTo(c)
		c.WriteBytes(rawBytes)
		return nil
	}

	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	if _, err := zw.Write(rawBytes); err != nil {
		return fmt.Errorf("frame: zlib deflate: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("frame: zlib deflate: %w", err)
	}

	dataLenV := protocol.VarInt(len(rawBytes))
	protocol.VarInt(dataLenV.Size() + zbuf.Len()).WriteTo(c)
	dataLenV.WriteTo(c)
	c.WriteBytes(zbuf.Bytes())
	return nil
}

// Codec dispatches Read/Write between the two modes based on the
// connection's compression threshold (negative disables compression).
type Codec struct{}

func (Codec) Read(c *buffer.Cursor, threshold int32) (Frame, error) {
	if threshold < 0 {
		return ReadUncompressed(c)
	}
	return ReadCompressed(c)
}

func (Codec) Write(c *buffer.Cursor, id int32, payload []byte, threshold int32) error {
	if threshold < 0 {
		WriteUncompressed(c, id, payload)
		return nil
	}
	return WriteCompressed(c, id, payload, threshold)
}
