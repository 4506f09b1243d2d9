package server

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mcserverd/internal/auth"
	"mcserverd/internal/session"
)

// Listener is the process-wide TCP accept loop described in §4.7: it binds
// one socket, spawns one connection task per accepted client, and keeps the
// ServerContext's clients registry and Dispatcher in sync with who is
// actually connected.
type Listener struct {
	ctx        *ServerContext
	dispatcher *session.Dispatcher
	netListen  net.Listener
}

// NewListener binds address (host:port, per ServerContext.Config) and wires
// a Dispatcher whose PlayerCount reports the ServerContext's live count.
func NewListener(ctx *ServerContext, authClient auth.Client) (*Listener, error) {
	addr := fmt.Sprintf("%s:%d", ctx.Config.Address, ctx.Config.Port)
	nl, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("server: binding %s: %w", addr, err)
	}

	dispatcher, err := session.NewDispatcher(ctx.Config, ctx.Keys, authClient, ctx.Logger, ctx.NextEntityID)
	if err != nil {
		nl.Close()
		return nil, err
	}
	dispatcher.PlayerCount = ctx.ConnectedCount

	return &Listener{ctx: ctx, dispatcher: dispatcher, netListen: nl}, nil
}

// Addr returns the bound local address, useful for tests that bind :0.
func (l *Listener) Addr() net.Addr {
	return l.netListen.Addr()
}

// Serve accepts connections until ctx is canceled or the listener socket is
// closed, spawning one connection task per client per §4.7/§4.8. It returns
// nil on a clean shutdown triggered by ctx cancellation.
func (l *Listener) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return l.netListen.Close()
	})
	g.Go(func() error {
		for {
			netConn, err := l.netListen.Accept()
			if err != nil {
				select {
				case <-gctx.Done():
					return nil
				default:
					return fmt.Errorf("server: accept: %w", err)
				}
			}
			l.spawn(netConn)
		}
	})
	return g.Wait()
}

// Close stops accepting new connections immediately.
func (l *Listener) Close() error {
	return l.netListen.Close()
}

func (l *Listener) spawn(netConn net.Conn) {
	conn := session.NewConn(netConn, l.dispatcher, l.ctx.Logger, l.ctx.PlayerLeft)
	l.ctx.PlayerJoined(conn.PeerAddr(), conn.Outbox())
	l.ctx.Logger.Info("client connected", zap.Stringer("peer", conn.PeerAddr()))
	go conn.Run()
}
