package registry

import (
	"mcserverd/internal/buffer"
	"mcserverd/internal/protocol"
)

// GameMode mirrors the ordinal wire encoding of the configured default game
// mode, per §6.
type GameMode int32

const (
	Survival GameMode = iota
	Creative
	Adventure
	Spectator
)

// DeathLocation is the optional "last death" bundle carried in LoginPlay.
type DeathLocation struct {
	Dimension protocol.Key
	Position  protocol.Position
}

// LoginPlayPacket is the initial world/dimension bundle the dispatcher
// sends immediately after LoginSuccess, per §4.6's Login→Play transition.
type LoginPlayPacket struct {
	EntityID            int32
	IsHardcore          bool
	GameMode            GameMode
	PreviousGameMode    int8
	DimensionNames      []protocol.Key
	RegistryCodec       []byte // pre-serialized NBT blob, written verbatim
	DimensionType       protocol.Key
	DimensionName       protocol.Key
	HashedSeed          int64
	MaxPlayers          int32
	ViewDistance        int32
	SimulationDistance  int32
	ReduceDebugInfo     bool
	EnableRespawnScreen bool
	IsDebug             bool
	IsFlat              bool
	HasDeathLocation    bool
	DeathLocation       DeathLocation
}

func WriteLoginPlay(c *buffer.Cursor, p LoginPlayPacket) {
	c.WriteInt32(p.EntityID)
	c.WriteByte(boolByte(p.IsHardcore))
	c.WriteByte(byte(p.GameMode))
	c.WriteByte(byte(p.PreviousGameMode))
	protocol.WriteVec(c, p.DimensionNames, protocol.WriteKey)
	c.WriteBytes(p.RegistryCodec)
	protocol.WriteKey(c, p.DimensionType)
	protocol.WriteKey(c, p.DimensionName)
	c.WriteInt64(p.HashedSeed)
	protocol.VarInt(p.MaxPlayers).WriteTo(c)
	protocol.VarInt(p.ViewDistance).WriteTo(c)
	protocol.VarInt(p.SimulationDistance).WriteTo(c)
	c.WriteByte(boolByte(p.ReduceDebugInfo))
	c.WriteByte(boolByte(p.EnableRespawnScreen))
	c.WriteByte(boolByte(p.IsDebug))
	c.WriteByte(boolByte(p.IsFlat))
	c.WriteByte(boolByte(p.HasDeathLocation))
	if p.HasDeathLocation {
		protocol.WriteKey(c, p.DeathLocation.Dimension)
		protocol.WritePosition(c, p.DeathLocation.Position)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// PlayDisconnectPacket is the Play-phase clientbound Disconnect.
type PlayDisconnectPacket struct {
	Reason ChatComponent
}

func WritePlayDisconnect(c *buffer.Cursor, p PlayDisconnectPacket) error {
	return protocol.WriteJSON(c, p.Reason)
}
