// Package auth issues the Mojang "hasJoined" session-server request on
// behalf of online-mode logins, and derives deterministic offline-mode
// UUIDs.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"

	"mcserverd/internal/protocol"
)

// ErrAuthFailure covers a failed request, a non-200 response, an
// unparseable body, or a malformed profile id from the session server.
var ErrAuthFailure = errors.New("auth: session server authentication failure")

const hasJoinedURL = "https://sessionserver.mojang.com/session/minecraft/hasJoined"

// defaultTimeout bounds the outbound HTTPS call per §9 ("budget ≤3s with a
// hard timeout").
const defaultTimeout = 3 * time.Second

// Client is the collaborator a Dispatcher calls during online-mode login.
// It is an interface so tests can inject a fake session-server response
// without reaching the network.
type Client interface {
	HasJoined(ctx context.Context, username, serverHash, clientIP string) (protocol.GameProfile, error)
}

// MojangClient talks to Mojang's real session server over fasthttp, which
// the rest of the retrieved corpus (go.minekube.com/gate) already uses as
// its HTTP client of choice for proxy-side outbound calls.
type MojangClient struct {
	client  *fasthttp.Client
	timeout time.Duration
	baseURL string
}

// NewMojangClient builds a MojangClient with the spec's default 3s budget.
func NewMojangClient() *MojangClient {
	return &MojangClient{
		client:  &fasthttp.Client{Name: "mcserverd/authclient"},
		timeout: defaultTimeout,
		baseURL: hasJoinedURL,
	}
}

// NewMojangClientWithBaseURL builds a MojangClient against an alternate
// session-server endpoint, for tests and for operators proxying Mojang's
// API through their own infrastructure.
func NewMojangClientWithBaseURL(baseURL string, timeout time.Duration) *MojangClient {
	return &MojangClient{
		client:  &fasthttp.Client{Name: "mcserverd/authclient"},
		timeout: timeout,
		baseURL: baseURL,
	}
}

type hasJoinedResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties []struct {
		Name      string `json:"name"`
		Value     string `json:"value"`
		Signature string `json:"signature,omitempty"`
	} `json:"properties"`
}

// HasJoined issues the GET request described in §4.4 and §6. Non-200 and
// JSON-parse failures are both ErrAuthFailure.
func (m *MojangClient) HasJoined(ctx context.Context, username, serverHash, clientIP string) (protocol.GameProfile, error) {
	q := url.Values{}
	q.Set("username", username)
	q.Set("serverId", serverHash)
	if clientIP != "" {
		q.Set("ip", clientIP)
	}
	full := m.baseURL + "?" + q.Encode()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(full)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := m.timeout
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d < deadline {
			deadline = d
		}
	}
	if err := m.client.DoTimeout(req, resp, deadline); err != nil {
		return protocol.GameProfile{}, fmt.Errorf("%w: requesting hasJoined: %v", ErrAuthFailure, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return protocol.GameProfile{}, fmt.Errorf("%w: session server returned status %d", ErrAuthFailure, resp.StatusCode())
	}

	var parsed hasJoinedResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return protocol.GameProfile{}, fmt.Errorf("%w: parsing session response: %v", ErrAuthFailure, err)
	}
	id, err := parseMojangUUID(parsed.ID)
	if err != nil {
		return protocol.GameProfile{}, fmt.Errorf("%w: parsing profile id: %v", ErrAuthFailure, err)
	}

	profile := protocol.GameProfile{ID: id, Name: parsed.Name}
	for _, p := range parsed.Properties {
		prop := protocol.Property{Name: p.Name, Value: p.Value}
		if p.Signature != "" {
			sig := p.Signature
			prop.Signature = &sig
		}
		profile.Properties = append(profile.Properties, prop)
	}
	return profile, nil
}
