package protocol_test

import (
	"testing"

	"mcserverd/internal/buffer"
	"mcserverd/internal/protocol"
)

type sampleStatus struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int     `json:"protocol"`
	} `json:"version"`
	Description string `json:"description"`
}

func TestJSONRoundTrip(t *testing.T) {
	var in sampleStatus
	in.Version.Name = "1.19.2"
	in.Version.Protocol = 760
	in.Description = "a server"

	c := buffer.New()
	if err := protocol.WriteJSON(c, in); err != nil {
		t.Fatal(err)
	}
	out, err := protocol.ReadJSON[sampleStatus](c)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("ReadJSON() = %+v, want %+v", out, in)
	}
}

func TestJSONInvalidPayload(t *testing.T) {
	c := buffer.New()
	protocol.WriteString(c, "{not json")
	if _, err := protocol.ReadJSON[sampleStatus](c); err == nil {
		t.Fatal("expected error for invalid json")
	}
}
