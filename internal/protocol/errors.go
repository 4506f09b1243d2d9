// Package protocol implements the typed field codec for the Minecraft Java
// Edition wire protocol: VarInt/VarLong, prefixed strings, namespaced keys,
// bit-packed positions, UUIDs, length-prefixed collections, and the Json,
// Ordinal and KnownOption wrappers used by the registry's packet codecs.
package protocol

import "errors"

// Decode failure taxonomy, per the error handling design. Every sentinel
// here is fatal for the packet being decoded; callers wrap it with
// connection identity before logging.
var (
	ErrMalformedVarint = errors.New("protocol: malformed varint")
	ErrInvalidUTF8     = errors.New("protocol: invalid utf-8 string")
	ErrInvalidJSON     = errors.New("protocol: invalid json payload")
	ErrInvalidNBT      = errors.New("protocol: invalid nbt payload")
	ErrInvalidKey      = errors.New("protocol: invalid namespaced key")
	ErrUnknownVariant  = errors.New("protocol: unknown enum variant ordinal")
	ErrUnexpectedEOF   = errors.New("protocol: unexpected end of buffer")
	ErrStringTooLong   = errors.New("protocol: string exceeds declared limit")
	ErrNameTooLong     = errors.New("protocol: player name exceeds 16 characters")
)
