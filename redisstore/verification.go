package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authcore-dev/authcore"
)

const defaultVerificationPrefix = "authcore:verify"

type verificationRecord struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
}

// VerificationTokens stores email-verification tokens in Redis, keyed by
// the token value itself. Tokens are 128-bit random hex strings, so the
// literal value is a safe key. An optional TTL bounds how long a
// registration can stay unverified; zero means no expiry.
type VerificationTokens struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ authcore.VerificationTokenModel = (*VerificationTokens)(nil)

// NewVerificationTokens returns a store using the given key prefix and
// TTL. An empty prefix falls back to "authcore:verify".
func NewVerificationTokens(client redis.UniversalClient, prefix string, ttl time.Duration) *VerificationTokens {
	if prefix == "" {
		prefix = defaultVerificationPrefix
	}
	return &VerificationTokens{redis: client, prefix: prefix, ttl: ttl}
}

func (s *VerificationTokens) key(token string) string {
	return s.prefix + ":" + token
}

func (s *VerificationTokens) FindByToken(ctx context.Context, token string) (*authcore.VerificationToken, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get verification token: %w", err)
	}

	var record verificationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode verification record: %w", err)
	}
	return &authcore.VerificationToken{
		ID:     record.ID,
		UserID: record.UserID,
		Token:  token,
	}, nil
}

func (s *VerificationTokens) Save(ctx context.Context, token *authcore.VerificationToken) error {
	data, err := json.Marshal(verificationRecord{ID: token.ID, UserID: token.UserID})
	if err != nil {
		return fmt.Errorf("encode verification record: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(token.Token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set verification token: %w", err)
	}
	return nil
}

func (s *VerificationTokens) Remove(ctx context.Context, token *authcore.VerificationToken) error {
	if err := s.redis.Del(ctx, s.key(token.Token)).Err(); err != nil {
		return fmt.Errorf("redis del verification token: %w", err)
	}
	return nil
}
