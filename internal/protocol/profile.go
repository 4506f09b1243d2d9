package protocol

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"mcserverd/internal/buffer"
)

// Property is a single signed or unsigned game-profile property (e.g.
// "textures" skin data).
type Property struct {
	Name      string
	Value     string
	Signature *string
}

func writeProperty(c *buffer.Cursor, p Property) {
	WriteString(c, p.Name)
	WriteString(c, p.Value)
	WriteKnownOption(c, p.Signature, WriteString)
}

func readProperty(c *buffer.Cursor) (Property, error) {
	name, err := ReadString(c)
	if err != nil {
		return Property{}, err
	}
	value, err := ReadString(c)
	if err != nil {
		return Property{}, err
	}
	sig, err := ReadKnownOption(c, ReadString)
	if err != nil {
		return Property{}, err
	}
	return Property{Name: name, Value: value, Signature: sig}, nil
}

// GameProfile identifies a player: a UUID, a display name capped at 16
// characters, and zero or more signed properties.
type GameProfile struct {
	ID         uuid.UUID
	Name       string
	Properties []Property
}

// WriteGameProfile writes id, then name, then the properties vector — the
// order confirmed by the reference implementation's profile field codec.
func WriteGameProfile(c *buffer.Cursor, p GameProfile) {
	WriteUUID(c, p.ID)
	WriteString(c, p.Name)
	WriteVec(c, p.Properties, writeProperty)
}

// ReadGameProfile reads a GameProfile, rejecting names over 16 characters.
func ReadGameProfile(c *buffer.Cursor) (GameProfile, error) {
	id, err := ReadUUID(c)
	if err != nil {
		return GameProfile{}, err
	}
	name, err := ReadString(c)
	if err != nil {
		return GameProfile{}, err
	}
	if utf8.RuneCountInString(name) > 16 {
		return GameProfile{}, ErrNameTooLong
	}
	props, err := ReadVec(c, readProperty)
	if err != nil {
		return GameProfile{}, err
	}
	return GameProfile{ID: id, Name: name, Properties: props}, nil
}
