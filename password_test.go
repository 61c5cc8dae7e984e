package authcore

import (
	"strings"
	"testing"
)

func TestIsPasswordAllowed(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"adf#jf3@#FD!", true},
		{"abc123@$!", true},
		{"password", false},  // no digit, no symbol
		{"password1", false}, // no symbol
		{"password!", false}, // no digit
		{"12345678@", true},  // the symbol doubles as the non-digit
		{"pass1@", false},    // too short
		{"", false},
		{strings.Repeat("a", 70) + "1@", true},
		{strings.Repeat("a", 71) + "1@", false}, // over the bcrypt input bound
	}

	for _, tc := range cases {
		if got := IsPasswordAllowed(tc.password); got != tc.want {
			t.Errorf("IsPasswordAllowed(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("adf#jf3@#FD!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "adf#jf3@#FD!" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !passwordMatches(hash, "adf#jf3@#FD!") {
		t.Error("expected hash to match the original password")
	}
	if passwordMatches(hash, "adf#jf3@#FD?") {
		t.Error("expected hash to reject a different password")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("adf#jf3@#FD!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("adf#jf3@#FD!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if first == second {
		t.Error("expected distinct hashes for the same password")
	}
}

func TestStripSecretFields(t *testing.T) {
	user := &User{ID: "u1", Username: "alice", HashedPassword: "secret"}

	stripped := StripSecretFields(user)
	if stripped.HashedPassword != "" {
		t.Error("expected hashed password to be removed")
	}
	if user.HashedPassword != "secret" {
		t.Error("expected the original user to be untouched")
	}
	if stripped.ID != "u1" || stripped.Username != "alice" {
		t.Error("expected non-secret fields to survive")
	}

	if StripSecretFields(nil) != nil {
		t.Error("expected nil in, nil out")
	}
}
