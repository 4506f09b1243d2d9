package protocol

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"mcserverd/internal/buffer"
)

// MaxStringBytes bounds the declared VarInt length of any String field the
// registry accepts, guarding against unbounded allocation from a hostile
// length prefix.
const MaxStringBytes = 32767 * 4 // worst case 4 bytes/rune at the 32767-char vanilla cap

// WriteString writes a VarInt byte-length prefix followed by the UTF-8
// bytes of s.
func WriteString(c *buffer.Cursor, s string) {
	b := []byte(s)
	VarInt(len(b)).WriteTo(c)
	c.WriteBytes(b)
}

// ReadString reads a VarInt-prefixed UTF-8 string. A non-UTF-8 payload is
// ErrInvalidUTF8; a declared length beyond MaxStringBytes is
// ErrStringTooLong.
func ReadString(c *buffer.Cursor) (string, error) {
	n, err := ReadVarInt(c)
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > MaxStringBytes {
		return "", ErrStringTooLong
	}
	b, err := c.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

var (
	keyNamespaceRe = regexp.MustCompile(`^[a-z0-9._-]+$`)
	keyValueRe     = regexp.MustCompile(`^[a-z0-9._/-]+$`)
)

// Key is a namespaced identifier ("namespace:value") as used for
// registries, dimensions and channels.
type Key struct {
	Namespace string
	Value     string
}

// NewKey validates namespace and value against the Minecraft identifier
// grammar and the 256-byte total-length cap.
func NewKey(namespace, value string) (Key, error) {
	k := Key{Namespace: namespace, Value: value}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

// MinecraftKey builds a Key in the "minecraft" namespace, panicking on an
// invalid value — for use with compile-time-known constants only.
func MinecraftKey(value string) Key {
	k, err := NewKey("minecraft", value)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Key) String() string { return k.Namespace + ":" + k.Value }

// Validate checks the namespace/value grammar and the total length cap.
func (k Key) Validate() error {
	if len(k.String()) >= 256 {
		return fmt.Errorf("%w: %q exceeds 256 bytes", ErrInvalidKey, k)
	}
	if !keyNamespaceRe.MatchString(k.Namespace) {
		return fmt.Errorf("%w: invalid namespace %q", ErrInvalidKey, k.Namespace)
	}
	if !keyValueRe.MatchString(k.Value) {
		return fmt.Errorf("%w: invalid value %q", ErrInvalidKey, k.Value)
	}
	return nil
}

// WriteKey writes a Key as its canonical "namespace:value" String.
func WriteKey(c *buffer.Cursor, k Key) {
	WriteString(c, k.String())
}

// ReadKey reads a String field and parses/validates it as a Key.
func ReadKey(c *buffer.Cursor) (Key, error) {
	s, err := ReadString(c)
	if err != nil {
		return Key{}, err
	}
	return ParseKey(s)
}

// ParseKey splits and validates a "namespace:value" string.
func ParseKey(s string) (Key, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return NewKey(s[:i], s[i+1:])
		}
	}
	return Key{}, fmt.Errorf("%w: missing ':' separator in %q", ErrInvalidKey, s)
}
