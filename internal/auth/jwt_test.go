package auth

import (
	"testing"
	"time"

	"github.com/dkeye/Chatter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVerifier(secret string) *Verifier {
	return NewVerifier(Config{
		SecretKey:     secret,
		TokenDuration: time.Hour,
		Issuer:        "chatter-test",
	})
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := testVerifier("test-secret")
	user := &domain.User{ID: "u1", Username: "alice", Name: "Alice A"}

	token, err := v.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "Alice A", got.Name)
}

func TestVerifier_NoToken(t *testing.T) {
	v := testVerifier("test-secret")

	_, err := v.Verify("")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestVerifier_InvalidToken(t *testing.T) {
	v := testVerifier("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.valid.token"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifier_WrongSecret(t *testing.T) {
	token, err := testVerifier("secret-one").Issue(&domain.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	_, err = testVerifier("secret-two").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_ExpiredToken(t *testing.T) {
	v := NewVerifier(Config{
		SecretKey:     "test-secret",
		TokenDuration: time.Millisecond,
		Issuer:        "chatter-test",
	})
	token, err := v.Issue(&domain.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
