package redisstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/authcore-dev/authcore"
)

const defaultRefreshPrefix = "authcore:refresh"

type refreshRecord struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
}

// RefreshTokens stores refresh tokens in Redis. Signed refresh JWTs are
// several hundred bytes long, so keys use the SHA-256 of the token rather
// than the literal value; this also keeps the raw token out of the
// keyspace. Rows live until revoked, matching the tokens' lack of expiry.
type RefreshTokens struct {
	redis  redis.UniversalClient
	prefix string
}

var _ authcore.RefreshTokenModel = (*RefreshTokens)(nil)

// NewRefreshTokens returns a store using the given key prefix. An empty
// prefix falls back to "authcore:refresh".
func NewRefreshTokens(client redis.UniversalClient, prefix string) *RefreshTokens {
	if prefix == "" {
		prefix = defaultRefreshPrefix
	}
	return &RefreshTokens{redis: client, prefix: prefix}
}

func (s *RefreshTokens) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + ":" + hex.EncodeToString(sum[:])
}

func (s *RefreshTokens) FindByToken(ctx context.Context, token string) (*authcore.RefreshToken, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get refresh token: %w", err)
	}

	var record refreshRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode refresh record: %w", err)
	}
	return &authcore.RefreshToken{
		ID:     record.ID,
		UserID: record.UserID,
		Token:  token,
	}, nil
}

func (s *RefreshTokens) Save(ctx context.Context, token *authcore.RefreshToken) error {
	data, err := json.Marshal(refreshRecord{ID: token.ID, UserID: token.UserID})
	if err != nil {
		return fmt.Errorf("encode refresh record: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(token.Token), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set refresh token: %w", err)
	}
	return nil
}

func (s *RefreshTokens) Remove(ctx context.Context, token *authcore.RefreshToken) error {
	if err := s.redis.Del(ctx, s.key(token.Token)).Err(); err != nil {
		return fmt.Errorf("redis del refresh token: %w", err)
	}
	return nil
}
