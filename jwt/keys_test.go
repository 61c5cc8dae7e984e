package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
)

func TestParsePrivateKeyPEMFormats(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	pkcs1 := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
	if _, err := ParsePrivateKeyPEM(pkcs1); err != nil {
		t.Errorf("PKCS#1 key rejected: %v", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalPKCS8PrivateKey failed: %v", err)
	}
	pkcs8 := string(pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: der,
	}))
	if _, err := ParsePrivateKeyPEM(pkcs8); err != nil {
		t.Errorf("PKCS#8 key rejected: %v", err)
	}

	if _, err := ParsePrivateKeyPEM("not a key"); err == nil {
		t.Error("expected garbage input to be rejected")
	}
}

func TestPublicPEMFromPrivate(t *testing.T) {
	priv, _ := testKeys(t)

	derived, err := PublicPEMFromPrivate(priv)
	if err != nil {
		t.Fatalf("PublicPEMFromPrivate failed: %v", err)
	}
	if !strings.Contains(derived, "BEGIN PUBLIC KEY") {
		t.Errorf("derived key is not PKIX PEM:\n%s", derived)
	}
	if _, err := ParsePublicKeyPEM(derived); err != nil {
		t.Errorf("derived key failed to parse: %v", err)
	}
}

func TestKeyIDIsStableFingerprint(t *testing.T) {
	_, pub := testKeys(t)

	first := KeyID(pub)
	second := KeyID(pub)
	if first != second {
		t.Error("key ID must be deterministic")
	}
	if len(first) != 32 {
		t.Errorf("key ID %q is not a 32-char hex digest", first)
	}
	if KeyID(pub+"\n") == first {
		t.Error("different PEM text must yield a different key ID")
	}
}
