// Package cryptoengine implements the server's RSA keypair and verify
// token (for the Login-phase key exchange) and the per-connection AES-128
// CFB8 stream cipher activated once a shared secret has been negotiated.
package cryptoengine

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/subtle"
	"crypto/x509"
	"errors"
	"fmt"
	"math/big"
)

// ErrAuthFailure covers every fatal key-exchange failure: verify-token
// mismatch, RSA decryption failure, or a malformed shared secret.
var ErrAuthFailure = errors.New("cryptoengine: authentication failure")

const rsaKeyBits = 1024
const verifyTokenLen = 4
const sharedSecretLen = 16

// KeyPair holds the server's RSA keypair and verify token, generated once
// at startup and read-only thereafter.
type KeyPair struct {
	private     *rsa.PrivateKey
	publicDER   []byte
	verifyToken [verifyTokenLen]byte
}

// Generate creates a fresh 1024-bit RSA keypair and a random 4-byte verify
// token, and pre-serializes the public key as PKCS#8 SubjectPublicKeyInfo
// DER for transmission in EncryptionRequest.
func Generate() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("cryptoengine: generating RSA keypair: %w", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("cryptoengine: marshaling public key: %w", err)
	}
	var token [verifyTokenLen]byte
	if _, err := rand.Read(token[:]); err != nil {
		return nil, fmt.Errorf("cryptoengine: generating verify token: %w", err)
	}
	return &KeyPair{private: priv, publicDER: der, verifyToken: token}, nil
}

// PublicKeyDER returns the PKCS#8 SubjectPublicKeyInfo DER encoding sent in
// EncryptionRequest.
func (k *KeyPair) PublicKeyDER() []byte { return k.publicDER }

// VerifyToken returns the 4-byte nonce sent in EncryptionRequest, to be
// echoed back (RSA-encrypted) in EncryptionResponse.
func (k *KeyPair) VerifyToken() []byte { return k.verifyToken[:] }

// decryptPKCS1v15 RSA-decrypts a PKCS#1 v1.5 padded ciphertext with the
// server's private key.
func (k *KeyPair) decryptPKCS1v15(ciphertext []byte) ([]byte, error) {
	return rsa.DecryptPKCS1v15(rand.Reader, k.private, ciphertext)
}

// ExchangeResult is the outcome of a successful encryption handshake: the
// validated 16-byte shared secret ready to seed the stream cipher.
type ExchangeResult struct {
	SharedSecret [sharedSecretLen]byte
}

// CompleteExchange RSA-decrypts the client's shared secret and verify
// token, and constant-time compares the decrypted token against the one
// this KeyPair issued. Any mismatch, decode failure, or wrong-length
// shared secret is ErrAuthFailure.
func (k *KeyPair) CompleteExchange(encryptedSecret, encryptedVerifyToken []byte) (*ExchangeResult, error) {
	secret, err := k.decryptPKCS1v15(encryptedSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypting shared secret: %v", ErrAuthFailure, err)
	}
	if len(secret) != sharedSecretLen {
		return nil, fmt.Errorf("%w: shared secret length %d, want %d", ErrAuthFailure, len(secret), sharedSecretLen)
	}
	token, err := k.decryptPKCS1v15(encryptedVerifyToken)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypting verify token: %v", ErrAuthFailure, err)
	}
	if subtle.ConstantTimeCompare(token, k.verifyToken[:]) != 1 {
		return nil, fmt.Errorf("%w: verify token mismatch", ErrAuthFailure)
	}
	var out ExchangeResult
	copy(out.SharedSecret[:], secret)
	return &out, nil
}

// ServerHash computes the Mojang "server hash" used in the hasJoined
// request: SHA-1 over ("" ‖ sharedSecret ‖ serverPublicKeyDER), interpreted
// as a signed big-endian integer and formatted as signed lowercase hex
// with no leading zeros.
func (k *KeyPair) ServerHash(sharedSecret []byte) string {
	return ServerHash(sharedSecret, k.publicDER)
}

// ServerHash is the free function form, taking the public key DER
// explicitly so it can be exercised without a live KeyPair in tests.
func ServerHash(sharedSecret, publicKeyDER []byte) string {
	h := sha1.New()
	h.Write([]byte(""))
	h.Write(sharedSecret)
	h.Write(publicKeyDER)
	digest := h.Sum(nil)

	n := new(big.Int).SetBytes(digest)
	// SHA-1 produces a 20-byte digest; treat the top bit as the sign per
	// the Mojang digest convention (two's complement over the digest
	// width) before formatting.
	if digest[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(digest)*8)))
	}
	if n.Sign() < 0 {
		return "-" + new(big.Int).Neg(n).Text(16)
	}
	return n.Text(16)
}
