package session

import "errors"

// Dispatcher-level error taxonomy, per §7. Decode-layer sentinels live in
// their owning packages (protocol, frame, cryptoengine, auth); these two
// are specific to phase/registry enforcement and belong here.
var (
	// ErrUnregisteredPacket is a known id in the wrong phase, or an id with
	// no registry entry at all.
	ErrUnregisteredPacket = errors.New("session: unregistered packet for current phase")
	// ErrPhaseViolation covers handshake next_state outside {1,2} and any
	// attempt to dispatch a packet against a phase transition the DAG in
	// §3 forbids.
	ErrPhaseViolation = errors.New("session: illegal phase transition")
)

// errGracefulClose signals the connection task to flush pending writes and
// close the socket without logging it as a failure — the Status-phase
// Ping→Pong exchange in §4.6 is terminal by design, not an error.
var errGracefulClose = errors.New("session: graceful close after flush")

