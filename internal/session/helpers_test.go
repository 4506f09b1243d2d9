package session_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"testing"
)

func rsaEncryptForTest(t *testing.T, der, plaintext []byte) []byte {
	t.Helper()
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		t.Fatal(err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		t.Fatal("not an RSA public key")
	}
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, plaintext)
	if err != nil {
		t.Fatal(err)
	}
	return ct
}
