package session_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"go.uber.org/zap"

	"mcserverd/internal/buffer"
	"mcserverd/internal/config"
	"mcserverd/internal/cryptoengine"
	"mcserverd/internal/protocol"
	"mcserverd/internal/registry"
	"mcserverd/internal/session"
)

type fakeAuthClient struct {
	profile protocol.GameProfile
	err     error
}

func (f *fakeAuthClient) HasJoined(ctx context.Context, username, serverHash, clientIP string) (protocol.GameProfile, error) {
	return f.profile, f.err
}

func newTestDispatcher(t *testing.T, cfg *config.ServerConfig, authClient *fakeAuthClient) *session.Dispatcher {
	t.Helper()
	keys, err := cryptoengine.Generate()
	if err != nil {
		t.Fatal(err)
	}
	var next int32
	d, err := session.NewDispatcher(cfg, keys, authClient, zap.NewNop(), func() int32 {
		next++
		return next
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func newTestAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 54321}
}

func TestHandshakeTransitionsToStatus(t *testing.T) {
	cfg := &config.ServerConfig{MaxPlayers: 20, CompressionThreshold: -1}
	d := newTestDispatcher(t, cfg, &fakeAuthClient{})
	state := session.NewConnectionState(newTestAddr())

	payload := buffer.New()
	registry.WriteHandshake(payload, registry.HandshakePacket{ProtocolVersion: 760, Address: "localhost", Port: 25565, NextState: 1})

	if err := d.Dispatch(state, registry.HandshakeID, payload.Bytes()); err != nil {
		t.Fatal(err)
	}
	if state.Phase != registry.Status {
		t.Fatalf("phase = %v, want Status", state.Phase)
	}
}

func TestHandshakeInvalidNextStateIsPhaseViolation(t *testing.T) {
	cfg := &config.ServerConfig{MaxPlayers: 20, CompressionThreshold: -1}
	d := newTestDispatcher(t, cfg, &fakeAuthClient{})
	state := session.NewConnectionState(newTestAddr())

	payload := buffer.New()
	registry.WriteHandshake(payload, registry.HandshakePacket{ProtocolVersion: 760, Address: "x", Port: 1, NextState: 1})
	// Corrupt next_state directly on the wire to bypass WriteHandshake's own
	// well-formed values and exercise the dispatcher's validation.
	raw := payload.Bytes()
	raw[len(raw)-1] = 99

	err := d.Dispatch(state, registry.HandshakeID, raw)
	if !errors.Is(err, session.ErrPhaseViolation) || !errors.Is(err, registry.ErrInvalidNextState) {
		t.Fatalf("err = %v, want ErrPhaseViolation wrapping ErrInvalidNextState", err)
	}
}

func TestStatusRequestThenPingClosesGracefully(t *testing.T) {
	cfg := &config.ServerConfig{MaxPlayers: 20, Motd: "hello", CompressionThreshold: -1}
	d := newTestDispatcher(t, cfg, &fakeAuthClient{})
	state := session.NewConnectionState(newTestAddr())
	state.Phase = registry.Status

	if err := d.Dispatch(state, registry.StatusRequestID, nil); err != nil {
		t.Fatal(err)
	}
	statusBytes, ok := state.Outbox.Recv()
	if !ok {
		t.Fatal("expected a queued StatusResponse frame")
	}
	if len(statusBytes) == 0 {
		t.Fatal("empty status response frame")
	}

	ping := buffer.New()
	registry.WritePingPong(ping, registry.PingPongPacket{Payload: 12345})
	err := d.Dispatch(state, registry.StatusPingID, ping.Bytes())
	if err == nil || !isGracefulClose(err) {
		t.Fatalf("err = %v, want graceful close signal", err)
	}
	pongBytes, ok := state.Outbox.Recv()
	if !ok || len(pongBytes) == 0 {
		t.Fatal("expected a queued Pong frame")
	}
}

// isGracefulClose checks the dispatcher signaled a terminal-but-benign
// close (Status phase Ping→Pong) without depending on the unexported
// sentinel from outside the package.
func isGracefulClose(err error) bool {
	return err != nil && err.Error() == "session: graceful close after flush"
}

func TestOfflineLoginFlowSendsSuccessAndLoginPlay(t *testing.T) {
	cfg := &config.ServerConfig{MaxPlayers: 20, CompressionThreshold: 256, ViewDistance: 10, SimulationDistance: 10}
	d := newTestDispatcher(t, cfg, &fakeAuthClient{})
	state := session.NewConnectionState(newTestAddr())
	state.Phase = registry.Login

	start := buffer.New()
	registry.WriteLoginStart(start, registry.LoginStartPacket{Name: "Alex"})
	if err := d.Dispatch(state, registry.LoginStartID, start.Bytes()); err != nil {
		t.Fatal(err)
	}
	if state.Phase != registry.Play {
		t.Fatalf("phase = %v, want Play", state.Phase)
	}
	if state.Profile == nil {
		t.Fatal("expected profile to be set for offline login")
	}

	var gotCompression, gotSuccess, gotLoginPlay bool
	for i := 0; i < 3; i++ {
		b, ok := state.Outbox.Recv()
		if !ok {
			break
		}
		if len(b) == 0 {
			continue
		}
		switch {
		case !gotCompression:
			gotCompression = true
		case !gotSuccess:
			gotSuccess = true
		default:
			gotLoginPlay = true
		}
	}
	if !gotCompression || !gotSuccess || !gotLoginPlay {
		t.Fatalf("expected SetCompression, LoginSuccess, LoginPlay in order; got compression=%v success=%v loginplay=%v", gotCompression, gotSuccess, gotLoginPlay)
	}
}

func TestOnlineLoginBadVerifyTokenFailsFatally(t *testing.T) {
	cfg := &config.ServerConfig{MaxPlayers: 20, OnlineMode: true, CompressionThreshold: -1}
	d := newTestDispatcher(t, cfg, &fakeAuthClient{})
	state := session.NewConnectionState(newTestAddr())
	state.Phase = registry.Login
	state.PendingName = "Alex"
	state.VerifyToken = d.Keys.VerifyToken()

	wrongSecret := make([]byte, 16)
	wrongToken := []byte{9, 9, 9, 9}
	encSecret := rsaEncryptForTest(t, d.Keys.PublicKeyDER(), wrongSecret)
	encToken := rsaEncryptForTest(t, d.Keys.PublicKeyDER(), wrongToken)

	resp := buffer.New()
	registry.WriteEncryptionResponse(resp, registry.EncryptionResponsePacket{SharedSecret: encSecret, VerifyToken: encToken})

	err := d.Dispatch(state, registry.EncryptionResponseID, resp.Bytes())
	if !errors.Is(err, cryptoengine.ErrAuthFailure) {
		t.Fatalf("err = %v, want ErrAuthFailure", err)
	}
	if state.Profile != nil {
		t.Fatal("profile should not be set after a failed handshake")
	}
}
