package registry

import (
	"github.com/google/uuid"

	"mcserverd/internal/buffer"
	"mcserverd/internal/protocol"
)

// LoginStartPacket is 0x00 serverbound in Login. The post-1.19.3 shape
// carries an optional UUID instead of the older signature-data fields.
type LoginStartPacket struct {
	Name    string
	HasUUID bool
	UUID    uuid.UUID
}

func ReadLoginStart(c *buffer.Cursor) (LoginStartPacket, error) {
	var p LoginStartPacket
	name, err := protocol.ReadString(c)
	if err != nil {
		return p, err
	}
	p.Name = name
	hasUUID, err := c.ReadByte()
	if err != nil {
		return p, err
	}
	p.HasUUID = hasUUID != 0
	if p.HasUUID {
		id, err := protocol.ReadUUID(c)
		if err != nil {
			return p, err
		}
		p.UUID = id
	}
	return p, nil
}

func WriteLoginStart(c *buffer.Cursor, p LoginStartPacket) {
	protocol.WriteString(c, p.Name)
	if p.HasUUID {
		c.WriteByte(1)
		protocol.WriteUUID(c, p.UUID)
	} else {
		c.WriteByte(0)
	}
}

// EncryptionResponsePacket is 0x01 serverbound in Login, simplified
// post-1.19.3 shape: no salt or message signature, per resolved design
// notes.
type EncryptionResponsePacket struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func ReadEncryptionResponse(c *buffer.Cursor) (EncryptionResponsePacket, error) {
	var p EncryptionResponsePacket
	secret, err := protocol.ReadVec[byte](c, readByteElem)
	if err != nil {
		return p, err
	}
	token, err := protocol.ReadVec[byte](c, readByteElem)
	if err != nil {
		return p, err
	}
	p.SharedSecret = secret
	p.VerifyToken = token
	return p, nil
}

func WriteEncryptionResponse(c *buffer.Cursor, p EncryptionResponsePacket) {
	protocol.WriteVec(c, p.SharedSecret, writeByteElem)
	protocol.WriteVec(c, p.VerifyToken, writeByteElem)
}

func readByteElem(c *buffer.Cursor) (byte, error) { return c.ReadByte() }
func writeByteElem(c *buffer.Cursor, b byte)       { c.WriteByte(b) }

// LoginPluginResponsePacket is 0x02 serverbound in Login. Per §4.6 this is
// currently observational: the dispatcher records it without further
// action.
type LoginPluginResponsePacket struct {
	MessageID  int32
	Successful bool
	Data       []byte
}

func ReadLoginPluginResponse(c *buffer.Cursor) (LoginPluginResponsePacket, error) {
	var p LoginPluginResponsePacket
	id, err := protocol.ReadVarInt(c)
	if err != nil {
		return p, err
	}
	p.MessageID = int32(id)
	ok, err := c.ReadByte()
	if err != nil {
		return p, err
	}
	p.Successful = ok != 0
	if c.Len() > 0 {
		data, err := c.ReadBytes(c.Len())
		if err != nil {
			return p, err
		}
		p.Data = data
	}
	return p, nil
}

// LoginDisconnectPacket is 0x00 clientbound in Login: a JSON chat reason.
type LoginDisconnectPacket struct {
	Reason ChatComponent
}

func WriteLoginDisconnect(c *buffer.Cursor, p LoginDisconnectPacket) error {
	return protocol.WriteJSON(c, p.Reason)
}

// EncryptionRequestPacket is 0x01 clientbound in Login.
type EncryptionRequestPacket struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func WriteEncryptionRequest(c *buffer.Cursor, p EncryptionRequestPacket) {
	protocol.WriteString(c, p.ServerID)
	protocol.WriteVec(c, p.PublicKey, writeByteElem)
	protocol.WriteVec(c, p.VerifyToken, writeByteElem)
}

// LoginSuccessPacket is 0x02 clientbound in Login.
type LoginSuccessPacket struct {
	Profile protocol.GameProfile
}

func WriteLoginSuccess(c *buffer.Cursor, p LoginSuccessPacket) {
	protocol.WriteGameProfile(c, p.Profile)
}

func ReadLoginSuccess(c *buffer.Cursor) (LoginSuccessPacket, error) {
	profile, err := protocol.ReadGameProfile(c)
	return LoginSuccessPacket{Profile: profile}, err
}

// SetCompressionPacket is 0x03 clientbound in Login.
type SetCompressionPacket struct {
	Threshold int32
}

func WriteSetCompression(c *buffer.Cursor, p SetCompressionPacket) {
	protocol.VarInt(p.Threshold).WriteTo(c)
}

func ReadSetCompression(c *buffer.Cursor) (SetCompressionPacket, error) {
	v, err := protocol.ReadVarInt(c)
	return SetCompressionPacket{Threshold: int32(v)}, err
}

// LoginPluginRequestPacket is 0x04 clientbound in Login: a server-initiated
// plugin channel query. The core only needs to be able to emit one; it
// never generates message ids of its own in the absence of game logic, so
// this exists primarily as a registry/table entry for forward extension.
type LoginPluginRequestPacket struct {
	MessageID int32
	Channel   protocol.Key
	Data      []byte
}

func WriteLoginPluginRequest(c *buffer.Cursor, p LoginPluginRequestPacket) {
	protocol.VarInt(p.MessageID).WriteTo(c)
	protocol.WriteKey(c, p.Channel)
	c.WriteBytes(p.Data)
}
