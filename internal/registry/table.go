package registry

// Descriptor names one (phase, direction, id) slot in the table without
// tying it to a concrete Go type — the dispatcher uses this purely to
// validate "is this id registered for this phase" and for log messages,
// while the typed Read/Write functions above do the actual codec work.
type Descriptor struct {
	Phase     Phase
	Direction Direction
	ID        int32
	Name      string
}

// Table is the static (phase, direction, id) → name registry described in
// §4.5. It is data, not a switch statement: the dispatcher walks it to
// decide whether an incoming id is valid before attempting to decode it.
var Table = []Descriptor{
	{Handshake, Serverbound, HandshakeID, "Handshake"},

	{Status, Serverbound, StatusRequestID, "StatusRequest"},
	{Status, Serverbound, StatusPingID, "Ping"},
	{Status, Clientbound, StatusResponseID, "StatusResponse"},
	{Status, Clientbound, StatusPongID, "Pong"},

	{Login, Serverbound, LoginStartID, "LoginStart"},
	{Login, Serverbound, EncryptionResponseID, "EncryptionResponse"},
	{Login, Serverbound, LoginPluginResponseID, "LoginPluginResponse"},
	{Login, Clientbound, LoginDisconnectID, "LoginDisconnect"},
	{Login, Clientbound, EncryptionRequestID, "EncryptionRequest"},
	{Login, Clientbound, LoginSuccessID, "LoginSuccess"},
	{Login, Clientbound, SetCompressionID, "SetCompression"},
	{Login, Clientbound, LoginPluginRequestID, "LoginPluginRequest"},

	{Play, Clientbound, LoginPlayID, "LoginPlay"},
	{Play, Clientbound, PlayDisconnectID, "Disconnect"},
}

// Lookup returns the descriptor registered for (phase, direction, id), and
// whether one exists. An id absent from the table for its phase is, per
// §7, an UnregisteredPacket error at the call site.
func Lookup(phase Phase, dir Direction, id int32) (Descriptor, bool) {
	for _, d := range Table {
		if d.Phase == phase && d.Direction == dir && d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}
