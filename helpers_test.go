package authcore

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync"
	"testing"
	"time"
)

var (
	testKeyOnce sync.Once
	testKeyPEM  string
)

// testPrivateKeyPEM generates one RSA key per test binary; key generation
// is slow enough that sharing it matters.
func testPrivateKeyPEM(t *testing.T) string {
	t.Helper()

	testKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKeyPEM = string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(key),
		}))
	})
	return testKeyPEM
}

func testConfig(t *testing.T) Config {
	t.Helper()

	cfg := defaultConfig()
	cfg.AccessToken.PrivateKey = testPrivateKeyPEM(t)
	cfg.AccessToken.Issuer = "test-issuer"
	cfg.AccessToken.Audience = "test-audience"
	cfg.AccessToken.ExpireTime = time.Hour
	return cfg
}

type mockUsers struct {
	mu     sync.Mutex
	users  map[string]*User
	byName map[string]string
	byMail map[string]string

	findErr error
	saveErr error

	saveCalls int
}

func newMockUsers(seed ...*User) *mockUsers {
	m := &mockUsers{
		users:  map[string]*User{},
		byName: map[string]string{},
		byMail: map[string]string{},
	}
	for _, u := range seed {
		m.put(u)
	}
	return m
}

func (m *mockUsers) put(u *User) {
	cp := *u
	m.users[cp.ID] = &cp
	m.byName[cp.Username] = cp.ID
	m.byMail[cp.Email] = cp.ID
}

func (m *mockUsers) FindByUsername(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	id, ok := m.byName[username]
	if !ok {
		return nil, nil
	}
	cp := *m.users[id]
	return &cp, nil
}

func (m *mockUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	id, ok := m.byMail[email]
	if !ok {
		return nil, nil
	}
	cp := *m.users[id]
	return &cp, nil
}

func (m *mockUsers) FindByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUsers) Save(_ context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	cp := *user
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("u%d", len(m.users)+1)
	}
	m.put(&cp)
	result := cp
	return &result, nil
}

type mockVerificationTokens struct {
	mu      sync.Mutex
	byToken map[string]*VerificationToken

	saveErr   error
	removeErr error

	saveCalls   int
	removeCalls int
}

func newMockVerificationTokens(seed ...*VerificationToken) *mockVerificationTokens {
	m := &mockVerificationTokens{byToken: map[string]*VerificationToken{}}
	for _, v := range seed {
		m.byToken[v.Token] = v
	}
	return m
}

func (m *mockVerificationTokens) FindByToken(_ context.Context, token string) (*VerificationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byToken[token]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *mockVerificationTokens) Save(_ context.Context, token *VerificationToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *token
	m.byToken[cp.Token] = &cp
	return nil
}

func (m *mockVerificationTokens) Remove(_ context.Context, token *VerificationToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeCalls++
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.byToken, token.Token)
	return nil
}

type mockRefreshTokens struct {
	mu      sync.Mutex
	byToken map[string]*RefreshToken

	saveErr error

	removeCalls int
}

func newMockRefreshTokens(seed ...*RefreshToken) *mockRefreshTokens {
	m := &mockRefreshTokens{byToken: map[string]*RefreshToken{}}
	for _, r := range seed {
		m.byToken[r.Token] = r
	}
	return m
}

func (m *mockRefreshTokens) FindByToken(_ context.Context, token string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byToken[token]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *mockRefreshTokens) Save(_ context.Context, token *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *token
	m.byToken[cp.Token] = &cp
	return nil
}

func (m *mockRefreshTokens) Remove(_ context.Context, token *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeCalls++
	delete(m.byToken, token.Token)
	return nil
}

func (m *mockRefreshTokens) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byToken)
}

// emailRecorder captures the verification emails handed to it.
type emailRecorder struct {
	mu    sync.Mutex
	to    string
	token string
	calls int
	err   error
}

func (r *emailRecorder) send(_ context.Context, to, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.to = to
	r.token = token
	return nil
}

func seedUser(t *testing.T, id, username, email, password string) *User {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	return &User{
		ID:             id,
		Username:       username,
		Email:          email,
		Active:         true,
		HashedPassword: hash,
	}
}
