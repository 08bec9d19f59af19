package util

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

var aliceID = uuid.MustParse("7d3c1f0e-5a2b-4c8d-9e6f-0a1b2c3d4e5f")

var testTTLs = TokenTTLs{
	Access:       30 * time.Minute,
	ResetCode:    15 * time.Minute,
	ResetSession: 60 * time.Minute,
}

func newTestIssuer(t *testing.T, secret string) *TokenIssuer {
	issuer, err := NewTokenIssuer(secret, "HS256", testTTLs)
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuer(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		wantErr   bool
	}{
		{"HS256", testSecret, "HS256", false},
		{"HS384", testSecret, "HS384", false},
		{"HS512", testSecret, "HS512", false},
		{"Asymmetric algorithm", testSecret, "RS256", true},
		{"None algorithm", testSecret, "none", true},
		{"Empty secret", "", "HS256", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, err := NewTokenIssuer(tt.secret, tt.algorithm, testTTLs)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, issuer)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, issuer)
		})
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, testSecret)

	for _, kind := range []TokenKind{TokenAccess, TokenResetCode, TokenResetSession} {
		t.Run(string(kind), func(t *testing.T) {
			token, expiresAt, err := issuer.Issue(aliceID, "alice", kind)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.WithinDuration(t, time.Now().Add(issuer.TTL(kind)), expiresAt, 2*time.Second)

			claims, err := issuer.Verify(token, kind)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Username())
			assert.Equal(t, aliceID, claims.UserID)
			assert.Equal(t, kind, claims.Kind)
			assert.NotEmpty(t, claims.ID)
			require.NotNil(t, claims.IssuedAt)
			require.NotNil(t, claims.ExpiresAt)
			assert.True(t, !claims.IssuedAt.After(claims.ExpiresAt.Time))
		})
	}
}

func TestVerify_Failures(t *testing.T) {
	issuer := newTestIssuer(t, testSecret)
	access, _, err := issuer.Issue(aliceID, "alice", TokenAccess)
	require.NoError(t, err)
	resetCode, _, err := issuer.Issue(aliceID, "alice", TokenResetCode)
	require.NoError(t, err)

	other := newTestIssuer(t, "a-different-secret")
	foreign, _, err := other.Issue(aliceID, "alice", TokenAccess)
	require.NoError(t, err)

	hs512, err := NewTokenIssuer(testSecret, "HS512", testTTLs)
	require.NoError(t, err)
	wrongAlg, _, err := hs512.Issue(aliceID, "alice", TokenAccess)
	require.NoError(t, err)

	anonymous, _, err := issuer.Issue(uuid.Nil, "alice", TokenAccess)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		kind  TokenKind
	}{
		{"Wrong secret", foreign, TokenAccess},
		{"Wrong algorithm", wrongAlg, TokenAccess},
		{"Reset code used as access token", resetCode, TokenAccess},
		{"Access token used as reset code", access, TokenResetCode},
		{"Missing user id", anonymous, TokenAccess},
		{"Malformed token", "invalid.token.format", TokenAccess},
		{"Empty token", "", TokenAccess},
		{"Tampered token", access + "x", TokenAccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Verify(tt.token, tt.kind)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := newTestIssuer(t, testSecret)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }

	token, _, err := issuer.Issue(aliceID, "alice", TokenAccess)
	require.NoError(t, err)

	issuer.now = time.Now
	claims, err := issuer.Verify(token, TokenAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestIssue_UniqueIDs(t *testing.T) {
	issuer := newTestIssuer(t, testSecret)

	first, _, err := issuer.Issue(aliceID, "alice", TokenResetCode)
	require.NoError(t, err)
	second, _, err := issuer.Issue(aliceID, "alice", TokenResetCode)
	require.NoError(t, err)

	c1, err := issuer.Verify(first, TokenResetCode)
	require.NoError(t, err)
	c2, err := issuer.Verify(second, TokenResetCode)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.NotEqual(t, first, second)
}
