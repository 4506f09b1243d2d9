package protocol

import "mcserverd/internal/buffer"

// Position packs three signed integers into a single 64-bit big-endian
// word: bits 63..38 = x (26-bit), bits 37..12 = z (26-bit), bits 11..0 = y
// (12-bit), each sign-extended on decode.
type Position struct {
	X, Z int32 // representable range [-2^25, 2^25)
	Y    int32 // representable range [-2^11, 2^11)
}

// WritePosition packs and writes a Position.
func WritePosition(c *buffer.Cursor, p Position) {
	v := (uint64(uint32(p.X)&0x3FFFFFF) << 38) |
		(uint64(uint32(p.Z)&0x3FFFFFF) << 12) |
		(uint64(uint32(p.Y) & 0xFFF))
	c.WriteUint64(v)
}

// ReadPosition reads and unpacks a Position, sign-extending each field.
func ReadPosition(c *buffer.Cursor) (Position, error) {
	v, err := c.ReadUint64()
	if err != nil {
		return Position{}, err
	}
	x := int32(v >> 38)
	z := int32((v >> 12) & 0x3FFFFFF)
	y := int32(v & 0xFFF)

	if x >= 1<<25 {
		x -= 1 << 26
	}
	if z >= 1<<25 {
		z -= 1 << 26
	}
	if y >= 1<<11 {
		y -= 1 << 12
	}
	return Position{X: x, Y: y, Z: z}, nil
}
