package jwks

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/authcore-dev/authcore/jwt"
)

// jwk is a single JSON Web Key. Only the RSA signature fields this module
// issues and consumes are modeled.
type jwk struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type document struct {
	Keys []jwk `json:"keys"`
}

// KeySet is the serving side of key distribution: one RSA public key plus
// its content-derived kid, rendered as a JWKS document.
type KeySet struct {
	keyID string
	key   *rsa.PublicKey
}

// NewKeySet builds a key set from a PEM public key and its kid.
func NewKeySet(publicKeyPEM, keyID string) (*KeySet, error) {
	key, err := jwt.ParsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return nil, err
	}
	return &KeySet{keyID: keyID, key: key}, nil
}

// KeyID returns the kid of the served key.
func (s *KeySet) KeyID() string {
	return s.keyID
}

// MarshalJSON renders the RFC 7517 document {"keys":[...]}.
func (s *KeySet) MarshalJSON() ([]byte, error) {
	doc := document{
		Keys: []jwk{{
			Kty: "RSA",
			Alg: "RS256",
			Use: "sig",
			Kid: s.keyID,
			N:   base64.RawURLEncoding.EncodeToString(s.key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(s.key.E)).Bytes()),
		}},
	}
	return json.Marshal(doc)
}

// Handler serves the document for mounting at /.well-known/jwks.json.
func (s *KeySet) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s); err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	})
}

func (k *jwk) rsaPublicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}
