package cryptoengine

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// cfb8 implements AES CFB-8 (8-bit feedback), which the standard library's
// cipher.NewCFB does not provide — that constructor only builds full
// block-width CFB. Minecraft's stream cipher specifically needs the 8-bit
// variant so ciphertext length always equals plaintext length one byte at
// a time.
type cfb8 struct {
	block   cipher.Block
	iv      []byte
	decrypt bool
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) *cfb8 {
	ivCopy := make([]byte, len(iv))
	copy(ivCopy, iv)
	return &cfb8{block: block, iv: ivCopy, decrypt: decrypt}
}

// XORKeyStream implements cipher.Stream. CFB8 feeds the running IV through
// the block cipher one byte at a time: the first keystream byte XORs the
// input byte, and the IV shifts left by one byte with the new ciphertext
// (or, when decrypting, the input ciphertext byte) appended.
func (s *cfb8) XORKeyStream(dst, src []byte) {
	tmp := make([]byte, len(s.iv))
	for i := range src {
		s.block.Encrypt(tmp, s.iv)
		keystreamByte := tmp[0]

		out := src[i] ^ keystreamByte
		dst[i] = out

		feedback := out
		if s.decrypt {
			feedback = src[i]
		}
		copy(s.iv, s.iv[1:])
		s.iv[len(s.iv)-1] = feedback
	}
}

// StreamPair holds the two independent CFB8 cipher.Stream instances a
// connection needs once encryption is activated: one for bytes read off
// the socket, one for bytes written to it. Both are keyed and seeded with
// the same 16-byte shared secret, per spec.
type StreamPair struct {
	Decrypt cipher.Stream
	Encrypt cipher.Stream
}

// NewStreamPair builds the AES-128/CFB8 cipher pair from a 16-byte shared
// secret, using the secret as both the AES key and the initial IV for both
// directions (they diverge immediately as each stream's IV advances
// independently).
func NewStreamPair(sharedSecret []byte) (*StreamPair, error) {
	if len(sharedSecret) != 16 {
		return nil, fmt.Errorf("cryptoengine: shared secret must be 16 bytes, got %d", len(sharedSecret))
	}
	block, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, fmt.Errorf("cryptoengine: building AES cipher: %w", err)
	}
	return &StreamPair{
		Decrypt: newCFB8(block, sharedSecret, true),
		Encrypt: newCFB8(block, sharedSecret, false),
	}, nil
}
