package registry_test

import (
	"testing"

	"github.com/google/uuid"

	"mcserverd/internal/buffer"
	"mcserverd/internal/protocol"
	"mcserverd/internal/registry"
)

func TestHandshakeRoundTrip(t *testing.T) {
	c := buffer.New()
	want := registry.HandshakePacket{ProtocolVersion: 760, Address: "localhost", Port: 25565, NextState: 1}
	registry.WriteHandshake(c, want)

	got, err := registry.ReadHandshake(c)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestHandshakeInvalidNextStateIsFatal(t *testing.T) {
	c := buffer.New()
	registry.WriteHandshake(c, registry.HandshakePacket{ProtocolVersion: 760, Address: "x", Port: 1, NextState: 99})
	if _, err := registry.ReadHandshake(c); err != registry.ErrInvalidNextState {
		t.Fatalf("err = %v, want ErrInvalidNextState", err)
	}
}

func TestPingPongRoundTrip(t *testing.T) {
	c := buffer.New()
	registry.WritePingPong(c, registry.PingPongPacket{Payload: 12345})
	got, err := registry.ReadPingPong(c)
	if err != nil {
		t.Fatal(err)
	}
	if got.Payload != 12345 {
		t.Fatalf("payload = %d, want 12345", got.Payload)
	}
}

func TestStatusResponseRoundTrip(t *testing.T) {
	c := buffer.New()
	want := registry.ServerStatus{
		Version:     registry.ServerStatusVersion{Name: "1.19.2", Protocol: registry.ProtocolVersion},
		Players:     registry.ServerStatusPlayers{Max: 20, Online: 1},
		Description: registry.ChatComponent{Text: "hello"},
	}
	if err := registry.WriteStatusResponse(c, registry.StatusResponsePacket{Status: want}); err != nil {
		t.Fatal(err)
	}
	got, err := registry.ReadStatusResponse(c)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status.Version.Name != "1.19.2" || got.Status.Players.Max != 20 {
		t.Fatalf("got %+v", got.Status)
	}
}

func TestLoginStartRoundTripWithAndWithoutUUID(t *testing.T) {
	c := buffer.New()
	registry.WriteLoginStart(c, registry.LoginStartPacket{Name: "Alex", HasUUID: false})
	got, err := registry.ReadLoginStart(c)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Alex" || got.HasUUID {
		t.Fatalf("got %+v", got)
	}

	id := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")
	registry.WriteLoginStart(c, registry.LoginStartPacket{Name: "Notch", HasUUID: true, UUID: id})
	got, err = registry.ReadLoginStart(c)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Notch" || !got.HasUUID || got.UUID != id {
		t.Fatalf("got %+v", got)
	}
}

func TestEncryptionResponseRoundTrip(t *testing.T) {
	c := buffer.New()
	want := registry.EncryptionResponsePacket{SharedSecret: []byte{1, 2, 3, 4}, VerifyToken: []byte{9, 8, 7, 6}}
	registry.WriteEncryptionResponse(c, want)
	got, err := registry.ReadEncryptionResponse(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.SharedSecret) != string(want.SharedSecret) || string(got.VerifyToken) != string(want.VerifyToken) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoginPluginResponseTrailingData(t *testing.T) {
	c := buffer.New()
	protocol.VarInt(7).WriteTo(c)
	c.WriteByte(1)
	c.WriteBytes([]byte{1, 2, 3})

	got, err := registry.ReadLoginPluginResponse(c)
	if err != nil {
		t.Fatal(err)
	}
	if got.MessageID != 7 || !got.Successful || string(got.Data) != string([]byte{1, 2, 3}) {
		t.Fatalf("got %+v", got)
	}
}

func TestDefaultRegistryCodecProducesNBT(t *testing.T) {
	b, err := registry.DefaultRegistryCodec()
	if err != nil {
		t.Fatal(err)
	}
	if len(b) == 0 {
		t.Fatal("expected non-empty NBT blob")
	}
}

func TestLookupFindsRegisteredIDs(t *testing.T) {
	if _, ok := registry.Lookup(registry.Login, registry.Serverbound, registry.LoginStartID); !ok {
		t.Fatal("expected LoginStart to be registered")
	}
	if _, ok := registry.Lookup(registry.Play, registry.Serverbound, 0x7f); ok {
		t.Fatal("expected unregistered id to miss")
	}
}
