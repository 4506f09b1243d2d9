package auth

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mcserverd/internal/protocol"
)

// offlinePrefix is prepended to the username before hashing, matching the
// Notchian server's "OfflinePlayer:<name>" convention.
const offlinePrefix = "OfflinePlayer:"

// OfflineUUID derives the deterministic UUIDv3-shaped identifier assigned
// to a player when online-mode is disabled: an MD5 digest of
// "OfflinePlayer:<name>" directly (no namespace prefix) with the RFC 4122
// variant and version-3 bits set over the raw digest. This is not
// uuid.NewMD5: that function hashes a 16-byte namespace ahead of the name,
// which does not match the vanilla server's formula of hashing the name
// alone.
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte(offlinePrefix + name))
	var id uuid.UUID
	copy(id[:], sum[:])
	id[6] = id[6]&0x0f | 0x30
	id[8] = id[8]&0x3f | 0x80
	return id
}

// OfflineProfile builds the GameProfile a connection adopts when
// online-mode is disabled: no properties, no skin, just a stable identity.
func OfflineProfile(name string) protocol.GameProfile {
	return protocol.GameProfile{ID: OfflineUUID(name), Name: name}
}

// parseMojangUUID parses the session server's undashed hex UUID form
// ("id":"4566e69fc90748ee8d71d7ba5aa00d20") alongside the standard dashed
// form, since Mojang's API has used both historically.
func parseMojangUUID(raw string) (uuid.UUID, error) {
	if strings.Contains(raw, "-") {
		return uuid.Parse(raw)
	}
	if len(raw) != 32 {
		return uuid.UUID{}, fmt.Errorf("auth: malformed profile id %q", raw)
	}
	dashed := raw[0:8] + "-" + raw[8:12] + "-" + raw[12:16] + "-" + raw[16:20] + "-" + raw[20:32]
	return uuid.Parse(dashed)
}
