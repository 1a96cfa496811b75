package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignerGenerateAndParse(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("unsubscribe", "reader@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	value, parsedExpiry, err := signer.Parse(token, "unsubscribe", false)
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", value)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignerRejectsTamperingAndWrongPurpose(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, _, err := signer.Generate("unsubscribe", "reader@example.com")
	require.NoError(t, err)

	_, _, err = signer.Parse(token, "confirm", false)
	require.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(token, ".")
	parts[2] = "b3RoZXJAZXhhbXBsZS5jb20"
	_, _, err = signer.Parse(strings.Join(parts, "."), "unsubscribe", false)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = NewSigner("other", time.Hour).Parse(token, "unsubscribe", false)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignerExpired(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, _, err := signer.Generate("unsubscribe", "reader@example.com")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = signer.Parse(token, "unsubscribe", false)
	require.ErrorIs(t, err, ErrTokenExpired)

	value, _, err := signer.Parse(token, "unsubscribe", true)
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", value)
}
