package protocol

import (
	"fmt"

	"mcserverd/internal/buffer"
)

// WriteOrdinal writes the zero-based declaration index of an enum variant
// as a VarInt. Declaration order is the source of truth and MUST stay
// stable across builds.
func WriteOrdinal(c *buffer.Cursor, index int) {
	VarInt(index).WriteTo(c)
}

// ReadOrdinal reads a VarInt ordinal and bounds-checks it against the
// number of declared variants, returning ErrUnknownVariant when it falls
// outside [0, numVariants).
func ReadOrdinal(c *buffer.Cursor, numVariants int) (int, error) {
	v, err := ReadVarInt(c)
	if err != nil {
		return 0, err
	}
	if int(v) < 0 || int(v) >= numVariants {
		return 0, fmt.Errorf("%w: ordinal %d (of %d variants)", ErrUnknownVariant, v, numVariants)
	}
	return int(v), nil
}
