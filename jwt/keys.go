package jwt

import (
	"crypto/md5"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
)

var errNotRSAKey = errors.New("key is not an RSA key")

// ParsePrivateKeyPEM parses an RSA private key from PKCS#1 or PKCS#8 PEM.
func ParsePrivateKeyPEM(privateKeyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, errors.New("no PEM block in private key")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errNotRSAKey
	}
	return key, nil
}

// ParsePublicKeyPEM parses an RSA public key from PKIX or PKCS#1 PEM.
func ParsePublicKeyPEM(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("no PEM block in public key")
	}

	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errNotRSAKey
	}
	return key, nil
}

// PublicPEMFromPrivate derives the public counterpart of an RSA private key
// and returns it in PKIX ("PUBLIC KEY") PEM form. Used when no explicit
// public key is configured.
func PublicPEMFromPrivate(privateKeyPEM string) (string, error) {
	key, err := ParsePrivateKeyPEM(privateKeyPEM)
	if err != nil {
		return "", err
	}

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}

	encoded := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	})
	return string(encoded), nil
}

// KeyID returns a stable, content-derived identifier for a public key: the
// hex MD5 digest of its PEM text. A JWKS endpoint serving rotated keys can
// derive the same ID on any instance without coordination. This is a
// fingerprint, not an integrity mechanism.
func KeyID(publicKeyPEM string) string {
	digest := md5.Sum([]byte(publicKeyPEM))
	return hex.EncodeToString(digest[:])
}
