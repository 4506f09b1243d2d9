package session

import (
	"net"

	"go.uber.org/atomic"

	"mcserverd/internal/cryptoengine"
	"mcserverd/internal/protocol"
	"mcserverd/internal/registry"
)

// ConnectionState is the per-connection record described in §3: protocol
// phase, compression threshold, cipher, pending login identity, the
// negotiated profile, and the socket/outbox the connection task owns.
// A ConnectionState is created when the listener accepts a socket and
// lives exactly as long as the connection task.
type ConnectionState struct {
	Phase registry.Phase

	// Threshold is the compression threshold in bytes; negative disables
	// compression. Per §3 the transition to enabled is one-way.
	Threshold int32

	// cipher is nil until encryption is activated; per the invariant in
	// §3 it is either set for both directions or neither. It's written by
	// the dispatcher from readLoop's goroutine and read by writeLoop's
	// goroutine, so it's an atomic pointer rather than a plain field.
	cipher atomic.Pointer[cryptoengine.StreamPair]

	PendingName string
	VerifyToken []byte

	Profile *protocol.GameProfile

	PeerAddr net.Addr
	Outbox   *Outbox
}

// NewConnectionState builds a fresh state in the Handshake phase with
// compression disabled, for a socket whose peer address is addr.
func NewConnectionState(addr net.Addr) *ConnectionState {
	return &ConnectionState{
		Phase:     registry.Handshake,
		Threshold: -1,
		Outbox:    NewOutbox(),
		PeerAddr:  addr,
	}
}

// CompressionEnabled reports whether the one-way compression transition
// has happened.
func (s *ConnectionState) CompressionEnabled() bool { return s.Threshold >= 0 }

// Cipher returns the active stream cipher pair, or nil before encryption is
// activated.
func (s *ConnectionState) Cipher() *cryptoengine.StreamPair { return s.cipher.Load() }

// SetCipher activates encryption, publishing the cipher pair for writeLoop
// to observe.
func (s *ConnectionState) SetCipher(pair *cryptoengine.StreamPair) { s.cipher.Store(pair) }

// EncryptionEnabled reports whether the cipher has been activated.
func (s *ConnectionState) EncryptionEnabled() bool { return s.cipher.Load() != nil }
