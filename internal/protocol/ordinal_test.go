package protocol_test

import (
	"testing"

	"mcserverd/internal/buffer"
	"mcserverd/internal/protocol"
)

type gameMode int

const (
	gmSurvival gameMode = iota
	gmCreative
	gmAdventure
	gmSpectator
)

func TestOrdinalRoundTrip(t *testing.T) {
	c := buffer.New()
	protocol.WriteOrdinal(c, int(gmAdventure))
	got, err := protocol.ReadOrdinal(c, 4)
	if err != nil || gameMode(got) != gmAdventure {
		t.Fatalf("ReadOrdinal() = %v, %v", got, err)
	}
}

func TestOrdinalOutOfRange(t *testing.T) {
	c := buffer.New()
	protocol.WriteOrdinal(c, 99)
	if _, err := protocol.ReadOrdinal(c, 4); err == nil {
		t.Fatal("expected ErrUnknownVariant")
	}
}
