package session

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"mcserverd/internal/auth"
	"mcserverd/internal/buffer"
	"mcserverd/internal/config"
	"mcserverd/internal/cryptoengine"
	"mcserverd/internal/frame"
	"mcserverd/internal/protocol"
	"mcserverd/internal/registry"
)

// Dispatcher is the per-phase packet handler and phase-transition driver
// described in §4.6. One Dispatcher is shared (read-only after
// construction) across every connection task; all per-connection mutable
// state lives in ConnectionState.
type Dispatcher struct {
	Config       *config.ServerConfig
	Keys         *cryptoengine.KeyPair
	Auth         auth.Client
	Logger       *zap.Logger
	NextEntityID func() int32

	// PlayerCount, when set, backs the Status response's online count. A
	// nil PlayerCount reports zero, which is what a bare Dispatcher built
	// outside a ServerContext (e.g. in package tests) wants.
	PlayerCount func() int

	registryCodec []byte
}

// NewDispatcher builds a Dispatcher, pre-serializing the embedded
// dimension registry NBT blob once so every LoginPlay reuses the same
// bytes instead of re-encoding per connection.
func NewDispatcher(cfg *config.ServerConfig, keys *cryptoengine.KeyPair, authClient auth.Client, logger *zap.Logger, nextEntityID func() int32) (*Dispatcher, error) {
	codec, err := registry.DefaultRegistryCodec()
	if err != nil {
		return nil, fmt.Errorf("session: building registry codec: %w", err)
	}
	return &Dispatcher{
		Config:        cfg,
		Keys:          keys,
		Auth:          authClient,
		Logger:        logger,
		NextEntityID:  nextEntityID,
		registryCodec: codec,
	}, nil
}

// Dispatch routes one decoded frame through the phase table in §4.6,
// mutating state as needed. It returns errGracefulClose when the
// connection should close after its outbound queue drains (e.g. after a
// status Pong), and any other error is fatal per §7.
func (d *Dispatcher) Dispatch(state *ConnectionState, id int32, payload []byte) error {
	if _, ok := registry.Lookup(state.Phase, registry.Serverbound, id); !ok {
		return fmt.Errorf("%w: phase=%s id=0x%02x", ErrUnregisteredPacket, state.Phase, id)
	}

	c := buffer.NewFromBytes(payload)
	switch state.Phase {
	case registry.Handshake:
		return d.handleHandshake(state, c)
	case registry.Status:
		return d.handleStatus(state, id, c)
	case registry.Login:
		return d.handleLogin(state, id, c)
	case registry.Play:
		d.Logger.Debug("play packet received, no game handler wired", zap.Int32("id", id))
		return nil
	default:
		return fmt.Errorf("%w: unknown phase %v", ErrPhaseViolation, state.Phase)
	}
}

func (d *Dispatcher) handleHandshake(state *ConnectionState, c *buffer.Cursor) error {
	hs, err := registry.ReadHandshake(c)
	if err != nil {
		if errors.Is(err, registry.ErrInvalidNextState) {
			return fmt.Errorf("%w: %w", ErrPhaseViolation, err)
		}
		return err
	}
	switch hs.NextState {
	case 1:
		state.Phase = registry.Status
	case 2:
		state.Phase = registry.Login
	default:
		return fmt.Errorf("%w: next_state=%d", ErrPhaseViolation, hs.NextState)
	}
	return nil
}

func (d *Dispatcher) handleStatus(state *ConnectionState, id int32, c *buffer.Cursor) error {
	switch id {
	case registry.StatusRequestID:
		favicon, err := d.Config.FaviconDataURI()
		if err != nil {
			d.Logger.Warn("failed to load favicon", zap.Error(err))
		}
		online := 0
		if d.PlayerCount != nil {
			online = d.PlayerCount()
		}
		status := registry.ServerStatus{
			Version:     registry.ServerStatusVersion{Name: "1.19.2", Protocol: registry.ProtocolVersion},
			Players:     registry.ServerStatusPlayers{Max: int(d.Config.MaxPlayers), Online: online},
			Description: registry.ChatComponent{Text: d.Config.Motd},
			Favicon:     favicon,
		}
		return d.sendPacket(state, registry.StatusResponseID, func(out *buffer.Cursor) error {
			return registry.WriteStatusResponse(out, registry.StatusResponsePacket{Status: status})
		})
	case registry.StatusPingID:
		ping, err := registry.ReadPingPong(c)
		if err != nil {
			return err
		}
		if err := d.sendPacket(state, registry.StatusPongID, func(out *buffer.Cursor) error {
			registry.WritePingPong(out, ping)
			return nil
		}); err != nil {
			return err
		}
		return errGracefulClose
	default:
		return fmt.Errorf("%w: phase=Status id=0x%02x", ErrUnregisteredPacket, id)
	}
}

func (d *Dispatcher) handleLogin(state *ConnectionState, id int32, c *buffer.Cursor) error {
	switch id {
	case registry.LoginStartID:
		return d.handleLoginStart(state, c)
	case registry.EncryptionResponseID:
		return d.handleEncryptionResponse(state, c)
	case registry.LoginPluginResponseID:
		resp, err := registry.ReadLoginPluginResponse(c)
		if err != nil {
			return err
		}
		d.Logger.Debug("login plugin response received", zap.Int32("message_id", resp.MessageID), zap.Bool("successful", resp.Successful))
		return nil
	default:
		return fmt.Errorf("%w: phase=Login id=0x%02x", ErrUnregisteredPacket, id)
	}
}

func (d *Dispatcher) handleLoginStart(state *ConnectionState, c *buffer.Cursor) error {
	ls, err := registry.ReadLoginStart(c)
	if err != nil {
		return err
	}
	state.PendingName = ls.Name

	if d.Config.OnlineMode {
		state.VerifyToken = append([]byte(nil), d.Keys.VerifyToken()...)
		return d.sendPacket(state, registry.EncryptionRequestID, func(out *buffer.Cursor) error {
			registry.WriteEncryptionRequest(out, registry.EncryptionRequestPacket{
				ServerID:    "",
				PublicKey:   d.Keys.PublicKeyDER(),
				VerifyToken: state.VerifyToken,
			})
			return nil
		})
	}

	return d.finishOfflineLogin(state)
}

func (d *Dispatcher) finishOfflineLogin(state *ConnectionState) error {
	if d.Config.CompressionThreshold >= 0 {
		if err := d.enableCompression(state); err != nil {
			return err
		}
	}
	profile := auth.OfflineProfile(state.PendingName)
	state.Profile = &profile
	if err := d.sendLoginSuccess(state, profile); err != nil {
		return err
	}
	return d.transitionToPlay(state)
}

func (d *Dispatcher) handleEncryptionResponse(state *ConnectionState, c *buffer.Cursor) error {
	resp, err := registry.ReadEncryptionResponse(c)
	if err != nil {
		return err
	}
	result, err := d.Keys.CompleteExchange(resp.SharedSecret, resp.VerifyToken)
	if err != nil {
		return err
	}

	streams, err := cryptoengine.NewStreamPair(result.SharedSecret[:])
	if err != nil {
		return err
	}
	state.SetCipher(streams)

	if d.Config.OnlineMode {
		serverHash := d.Keys.ServerHash(result.SharedSecret[:])
		profile, err := d.Auth.HasJoined(context.Background(), state.PendingName, serverHash, clientIP(state.PeerAddr))
		if err != nil {
			return err
		}
		state.Profile = &profile
	} else {
		profile := auth.OfflineProfile(state.PendingName)
		state.Profile = &profile
	}

	if d.Config.CompressionThreshold >= 0 {
		if err := d.enableCompression(state); err != nil {
			return err
		}
	}
	if err := d.sendLoginSuccess(state, *state.Profile); err != nil {
		return err
	}
	return d.transitionToPlay(state)
}

func (d *Dispatcher) enableCompression(state *ConnectionState) error {
	if err := d.sendPacket(state, registry.SetCompressionID, func(out *buffer.Cursor) error {
		registry.WriteSetCompression(out, registry.SetCompressionPacket{Threshold: d.Config.CompressionThreshold})
		return nil
	}); err != nil {
		return err
	}
	state.Threshold = d.Config.CompressionThreshold
	return nil
}

func (d *Dispatcher) sendLoginSuccess(state *ConnectionState, profile protocol.GameProfile) error {
	return d.sendPacket(state, registry.LoginSuccessID, func(out *buffer.Cursor) error {
		registry.WriteLoginSuccess(out, registry.LoginSuccessPacket{Profile: profile})
		return nil
	})
}

func (d *Dispatcher) transitionToPlay(state *ConnectionState) error {
	state.Phase = registry.Play
	gm := d.Config.DefaultGamemode.Ordinal()
	login := registry.LoginPlayPacket{
		EntityID:            d.NextEntityID(),
		GameMode:            gm,
		PreviousGameMode:    -1,
		DimensionNames:      []protocol.Key{registry.OverworldKey},
		RegistryCodec:       d.registryCodec,
		DimensionType:       registry.OverworldKey,
		DimensionName:       registry.OverworldKey,
		HashedSeed:          0,
		MaxPlayers:          int32(d.Config.MaxPlayers),
		ViewDistance:        int32(d.Config.ViewDistance),
		SimulationDistance:  int32(d.Config.SimulationDistance),
		ReduceDebugInfo:     d.Config.ReduceDebugInfo,
		EnableRespawnScreen: d.Config.EnableRespawnScreen,
	}
	return d.sendPacket(state, registry.LoginPlayID, func(out *buffer.Cursor) error {
		registry.WriteLoginPlay(out, login)
		return nil
	})
}

// sendPacket encodes id+payload through the frame codec at the
// connection's current compression threshold and enqueues the resulting
// bytes on the outbox; the write-side goroutine in the connection task
// handles encryption, since that depends on write-order which only it
// controls.
func (d *Dispatcher) sendPacket(state *ConnectionState, id int32, write func(*buffer.Cursor) error) error {
	payload := buffer.New()
	if err := write(payload); err != nil {
		return err
	}
	out := buffer.New()
	codec := frame.Codec{}
	if err := codec.Write(out, id, payload.Bytes(), state.Threshold); err != nil {
		return err
	}
	state.Outbox.Send(out.Bytes())
	return nil
}

func clientIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
