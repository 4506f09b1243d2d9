package session

import (
	"errors"
	"fmt"
	"io"
	"net"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mcserverd/internal/auth"
	"mcserverd/internal/buffer"
	"mcserverd/internal/cryptoengine"
	"mcserverd/internal/frame"
	"mcserverd/internal/registry"
)

// readChunkSize is how many bytes the read loop asks the socket for per
// syscall; the accumulator grows/compacts around whatever actually arrives.
const readChunkSize = 4096

// Conn runs one cooperative task per accepted socket, per §4.7. It owns
// the TCP stream, a single reusable read accumulator, the outbound queue,
// and the ConnectionState the Dispatcher mutates.
type Conn struct {
	netConn    net.Conn
	dispatcher *Dispatcher
	logger     *zap.Logger
	state      *ConnectionState
	onClose    func(net.Addr)

	accumulator *buffer.Cursor
	codec       frame.Codec
}

// NewConn wraps an accepted socket. onClose, if non-nil, is invoked with
// the peer address once the connection task terminates, so a ServerContext
// can deregister the client.
func NewConn(netConn net.Conn, dispatcher *Dispatcher, logger *zap.Logger, onClose func(net.Addr)) *Conn {
	return &Conn{
		netConn:     netConn,
		dispatcher:  dispatcher,
		logger:      logger,
		state:       NewConnectionState(netConn.RemoteAddr()),
		onClose:     onClose,
		accumulator: buffer.New(),
	}
}

// Outbox exposes the connection's outbound queue so a ServerContext can
// register it for future cross-connection routing (broadcasts, kicks).
func (c *Conn) Outbox() *Outbox {
	return c.state.Outbox
}

// PeerAddr returns the remote address this connection task was built for.
func (c *Conn) PeerAddr() net.Addr {
	return c.state.PeerAddr
}

// Run drives the read and write loops until both terminate, then
// deregisters the connection. It does not return until the connection is
// fully torn down.
//
// Closing order matters: readLoop closes only the outbox when it exits,
// so writeLoop gets a chance to flush any best-effort disconnect packet
// queued right before the error that ended readLoop. writeLoop is the one
// that closes the socket, either once the outbox drains (graceful) or on
// its own write failure — either way it also unblocks a readLoop still
// parked in a blocking Read.
func (c *Conn) Run() {
	var g errgroup.Group
	g.Go(func() error {
		err := c.readLoop()
		c.state.Outbox.Close()
		return err
	})
	g.Go(func() error {
		err := c.writeLoop()
		c.netConn.Close()
		return err
	})

	err := g.Wait()
	if c.onClose != nil {
		c.onClose(c.state.PeerAddr)
	}
	if err != nil && !isBenignClose(err) {
		fields := []zap.Field{
			zap.Stringer("peer", c.state.PeerAddr),
			zap.String("phase", c.state.Phase.String()),
			zap.Error(err),
		}
		if errors.Is(err, cryptoengine.ErrAuthFailure) || errors.Is(err, auth.ErrAuthFailure) {
			c.logger.Info("connection terminated", fields...)
		} else {
			c.logger.Warn("connection terminated", fields...)
		}
	}
}

func isBenignClose(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, errGracefulClose) || errors.Is(err, net.ErrClosed)
}

// readLoop appends socket bytes to the accumulator, decrypts in place when
// the cipher is active, and drains every complete frame through the
// dispatcher before blocking on the next socket read.
func (c *Conn) readLoop() error {
	chunk := make([]byte, readChunkSize)
	for {
		n, err := c.netConn.Read(chunk)
		if n > 0 {
			start := c.accumulator.WritePos()
			c.accumulator.WriteBytes(chunk[:n])
			if cipher := c.state.Cipher(); cipher != nil {
				buf := c.accumulator.MutableTail(start)
				cipher.Decrypt.XORKeyStream(buf, buf)
			}
			if derr := c.drainFrames(); derr != nil {
				return derr
			}
			c.accumulator.Compact()
		}
		if err != nil {
			if err == io.EOF {
				return io.EOF
			}
			return fmt.Errorf("session: socket read: %w", err)
		}
	}
}

func (c *Conn) drainFrames() error {
	for {
		fr, err := c.codec.Read(c.accumulator, c.state.Threshold)
		if err != nil {
			if errors.Is(err, frame.ErrIncomplete) {
				return nil
			}
			return err
		}
		if derr := c.dispatcher.Dispatch(c.state, fr.ID, fr.Payload); derr != nil {
			if errors.Is(derr, errGracefulClose) {
				return errGracefulClose
			}
			c.sendDisconnect(derr)
			return derr
		}
	}
}

// sendDisconnect makes a best-effort attempt to notify the peer why the
// connection is closing, per §7's disconnect-before-close policy.
func (c *Conn) sendDisconnect(cause error) {
	reason := registry.ChatComponent{Text: "Disconnected: " + cause.Error()}
	switch c.state.Phase {
	case registry.Login:
		_ = c.dispatcher.sendPacket(c.state, registry.LoginDisconnectID, func(out *buffer.Cursor) error {
			return registry.WriteLoginDisconnect(out, registry.LoginDisconnectPacket{Reason: reason})
		})
	case registry.Play:
		_ = c.dispatcher.sendPacket(c.state, registry.PlayDisconnectID, func(out *buffer.Cursor) error {
			return registry.WritePlayDisconnect(out, registry.PlayDisconnectPacket{Reason: reason})
		})
	}
}

// writeLoop drains the outbox, encrypting each frame's bytes in place
// before writing them to the socket when the cipher is active.
func (c *Conn) writeLoop() error {
	for {
		b, ok := c.state.Outbox.Recv()
		if !ok {
			return errGracefulClose
		}
		if cipher := c.state.Cipher(); cipher != nil {
			cipher.Encrypt.XORKeyStream(b, b)
		}
		if _, err := c.netConn.Write(b); err != nil {
			return fmt.Errorf("session: socket write: %w", err)
		}
	}
}
