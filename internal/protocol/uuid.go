package protocol

import (
	"github.com/google/uuid"

	"mcserverd/internal/buffer"
)

// WriteUUID writes a UUID as two consecutive big-endian 64-bit words (most
// significant first) — which is simply the UUID's raw 16-byte network-order
// representation.
func WriteUUID(c *buffer.Cursor, id uuid.UUID) {
	c.WriteBytes(id[:])
}

// ReadUUID reads a 16-byte UUID.
func ReadUUID(c *buffer.Cursor) (uuid.UUID, error) {
	b, err := c.ReadBytes(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var id uuid.UUID
	copy(id[:], b)
	return id, nil
}
