package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mcserverd/internal/auth"
)

func TestMojangClientHasJoinedSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "Notch" {
			t.Errorf("username query param = %q, want Notch", r.URL.Query().Get("username"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch","properties":[{"name":"textures","value":"abc123","signature":"sig"}]}`))
	}))
	defer srv.Close()

	client := auth.NewMojangClientWithBaseURL(srv.URL, time.Second)
	profile, err := client.HasJoined(context.Background(), "Notch", "somehash", "")
	if err != nil {
		t.Fatalf("HasJoined: %v", err)
	}
	if profile.Name != "Notch" {
		t.Fatalf("name = %q, want Notch", profile.Name)
	}
	if profile.ID.String() != "069a79f4-44e9-4726-a5be-fca90e38aaf5" {
		t.Fatalf("id = %q", profile.ID.String())
	}
	if len(profile.Properties) != 1 || profile.Properties[0].Name != "textures" {
		t.Fatalf("properties = %+v", profile.Properties)
	}
	if profile.Properties[0].Signature == nil || *profile.Properties[0].Signature != "sig" {
		t.Fatalf("signature not carried through")
	}
}

func TestMojangClientHasJoinedNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := auth.NewMojangClientWithBaseURL(srv.URL, time.Second)
	if _, err := client.HasJoined(context.Background(), "Notch", "somehash", ""); err == nil {
		t.Fatal("expected ErrAuthFailure for non-200 response")
	}
}

func TestMojangClientHasJoinedMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := auth.NewMojangClientWithBaseURL(srv.URL, time.Second)
	if _, err := client.HasJoined(context.Background(), "Notch", "somehash", ""); err == nil {
		t.Fatal("expected ErrAuthFailure for malformed body")
	}
}
