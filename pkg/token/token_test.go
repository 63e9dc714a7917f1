package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *Codec {
	return NewCodec(
		"access-test-key", "refresh-test-key", "reset-test-key",
		20*time.Minute, 7*24*time.Hour, 24*time.Hour,
	)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()

	signed, err := codec.CreateAccessToken("some-user-id")
	require.NoError(t, err)

	payload, err := codec.VerifyAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "some-user-id", payload.Sub)
	assert.WithinDuration(t, time.Now().Add(20*time.Minute), payload.Exp, 5*time.Second)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()

	signed, err := codec.CreateRefreshToken("some-user-id")
	require.NoError(t, err)

	payload, err := codec.VerifyRefreshToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "some-user-id", payload.Sub)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), payload.Exp, 5*time.Second)
}

func TestPasswordResetTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()

	signed, err := codec.CreatePasswordResetToken("user@email.com")
	require.NoError(t, err)

	email, err := codec.VerifyPasswordResetToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user@email.com", email)
}

// Each token kind is signed with its own key, so a token of one kind must
// never verify as another
func TestKeysAreIndependent(t *testing.T) {
	codec := newTestCodec()

	refreshToken, err := codec.CreateRefreshToken("some-user-id")
	require.NoError(t, err)

	_, err = codec.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.VerifyPasswordResetToken(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongKey(t *testing.T) {
	codec := newTestCodec()
	other := NewCodec(
		"different-key", "different-key", "different-key",
		20*time.Minute, 7*24*time.Hour, 24*time.Hour,
	)

	signed, err := codec.CreateAccessToken("some-user-id")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	codec := newTestCodec()

	signed, err := codec.CreateAccessToken("some-user-id")
	require.NoError(t, err)

	tampered := signed[:len(signed)-2] + "xx"
	_, err = codec.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	codec := NewCodec(
		"access-test-key", "refresh-test-key", "reset-test-key",
		-time.Minute, -time.Minute, -time.Minute,
	)

	signed, err := codec.CreateAccessToken("some-user-id")
	require.NoError(t, err)

	_, err = codec.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.VerifyRefreshToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
