// Package registry exposes the protocol's packet table as data: Table
// names every registered (phase, direction, id) triple, and typed
// Read/Write functions alongside it encode and decode each packet's
// payload. The dispatcher checks an incoming id against Table before it
// picks a handler; the table is the place to register new packets.
package registry

import (
	"fmt"

	"github.com/google/uuid"

	"mcserverd/internal/buffer"
	"mcserverd/internal/protocol"
)

// Phase identifies one of the four protocol states.
type Phase int

const (
	Handshake Phase = iota
	Status
	Login
	Play
)

func (p Phase) String() string {
	switch p {
	case Handshake:
		return "Handshake"
	case Status:
		return "Status"
	case Login:
		return "Login"
	case Play:
		return "Play"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Direction distinguishes client→server from server→client packets.
type Direction int

const (
	Serverbound Direction = iota
	Clientbound
)

// Packet ids, named per §4.5. ProtocolVersion targets 760 ("1.19.2").
const ProtocolVersion = 760

const (
	HandshakeID = 0x00

	StatusRequestID  = 0x00
	StatusPingID     = 0x01
	StatusResponseID = 0x00
	StatusPongID     = 0x01

	LoginStartID          = 0x00
	EncryptionResponseID  = 0x01
	LoginPluginResponseID = 0x02
	LoginDisconnectID     = 0x00
	EncryptionRequestID   = 0x01
	LoginSuccessID        = 0x02
	SetCompressionID      = 0x03
	LoginPluginRequestID  = 0x04

	LoginPlayID      = 0x28
	PlayDisconnectID = 0x1a
)

// HandshakePacket is 0x00 serverbound in Handshake.
type HandshakePacket struct {
	ProtocolVersion int32
	Address         string
	Port            uint16
	NextState       int32
}

// ErrInvalidNextState flags a handshake whose next_state is outside {1,2}.
var ErrInvalidNextState = fmt.Errorf("registry: handshake next_state must be 1 or 2")

func WriteHandshake(c *buffer.Cursor, p HandshakePacket) {
	protocol.VarInt(p.ProtocolVersion).WriteTo(c)
	protocol.WriteString(c, p.Address)
	c.WriteUint16(p.Port)
	protocol.VarInt(p.NextState).WriteTo(c)
}

func ReadHandshake(c *buffer.Cursor) (HandshakePacket, error) {
	var p HandshakePacket
	ver, err := protocol.ReadVarInt(c)
	if err != nil {
		return p, err
	}
	addr, err := protocol.ReadString(c)
	if err != nil {
		return p, err
	}
	port, err := c.ReadUint16()
	if err != nil {
		return p, err
	}
	next, err := protocol.ReadVarInt(c)
	if err != nil {
		return p, err
	}
	p = HandshakePacket{ProtocolVersion: int32(ver), Address: addr, Port: port, NextState: int32(next)}
	if p.NextState != 1 && p.NextState != 2 {
		return p, ErrInvalidNextState
	}
	return p, nil
}

// StatusRequestPacket (0x00 serverbound, Status) carries no fields.
type StatusRequestPacket struct{}

func ReadStatusRequest(c *buffer.Cursor) (StatusRequestPacket, error) {
	return StatusRequestPacket{}, nil
}

// PingPongPacket is shared shape for 0x01 Ping (serverbound) and 0x01 Pong
// (clientbound): a single echoed i64.
type PingPongPacket struct {
	Payload int64
}

func WritePingPong(c *buffer.Cursor, p PingPongPacket) {
	c.WriteInt64(p.Payload)
}

func ReadPingPong(c *buffer.Cursor) (PingPongPacket, error) {
	v, err := c.ReadInt64()
	return PingPongPacket{Payload: v}, err
}

// StatusResponsePacket is 0x00 clientbound in Status: a JSON status blob.
type StatusResponsePacket struct {
	Status ServerStatus
}

// ServerStatus is the JSON payload of StatusResponse.
type ServerStatus struct {
	Version     ServerStatusVersion `json:"version"`
	Players     ServerStatusPlayers `json:"players"`
	Description ChatComponent       `json:"description"`
	Favicon     string              `json:"favicon,omitempty"`
}

type ServerStatusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type ServerStatusPlayers struct {
	Max    int                  `json:"max"`
	Online int                  `json:"online"`
	Sample []ServerStatusSample `json:"sample,omitempty"`
}

type ServerStatusSample struct {
	Name string    `json:"name"`
	ID   uuid.UUID `json:"id"`
}

// ChatComponent is the opaque value the codec serializes as JSON, per the
// spec's "chat text-component builder" external collaborator. A bare text
// component is sufficient for everything the core itself emits (status
// descriptions, disconnect reasons).
type ChatComponent struct {
	Text string `json:"text"`
}

func WriteStatusResponse(c *buffer.Cursor, p StatusResponsePacket) error {
	return protocol.WriteJSON(c, p.Status)
}

func ReadStatusResponse(c *buffer.Cursor) (StatusResponsePacket, error) {
	s, err := protocol.ReadJSON[ServerStatus](c)
	return StatusResponsePacket{Status: s}, err
}
