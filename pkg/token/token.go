package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any signature, structural or expiry failure
var ErrInvalidToken = errors.New("invalid token")

// Payload is the decoded content of a verified token
type Payload struct {
	Sub string
	Exp time.Time
}

// Codec signs and verifies the three token kinds. Each kind uses its own
// symmetric key so that compromise or rotation of one does not affect the
// others.
type Codec struct {
	accessKey     []byte
	refreshKey    []byte
	resetKey      []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	resetExpiry   time.Duration
}

// NewCodec builds a codec from the three signing keys and their expiries
func NewCodec(accessKey, refreshKey, resetKey string, accessExpiry, refreshExpiry, resetExpiry time.Duration) *Codec {
	return &Codec{
		accessKey:     []byte(accessKey),
		refreshKey:    []byte(refreshKey),
		resetKey:      []byte(resetKey),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		resetExpiry:   resetExpiry,
	}
}

// sign encodes {sub, exp} plus a random jti. Expiry has second precision, so
// without the jti two tokens minted for one subject in the same second would
// be byte-identical and collide on the store's unique column.
func (c *Codec) sign(subject string, expiry time.Duration, key []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func (c *Codec) verify(tokenString string, key []byte) (*Payload, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return &Payload{Sub: claims.Subject, Exp: claims.ExpiresAt.Time}, nil
}

// CreateAccessToken mints a short-lived access token for a user id
func (c *Codec) CreateAccessToken(subject string) (string, error) {
	return c.sign(subject, c.accessExpiry, c.accessKey)
}

// CreateRefreshToken mints a refresh token for a user id
func (c *Codec) CreateRefreshToken(subject string) (string, error) {
	return c.sign(subject, c.refreshExpiry, c.refreshKey)
}

// CreatePasswordResetToken mints a reset token carrying the account email
func (c *Codec) CreatePasswordResetToken(email string) (string, error) {
	return c.sign(email, c.resetExpiry, c.resetKey)
}

// VerifyAccessToken validates an access token and returns its payload
func (c *Codec) VerifyAccessToken(tokenString string) (*Payload, error) {
	return c.verify(tokenString, c.accessKey)
}

// VerifyRefreshToken validates a refresh token and returns its payload
func (c *Codec) VerifyRefreshToken(tokenString string) (*Payload, error) {
	return c.verify(tokenString, c.refreshKey)
}

// VerifyPasswordResetToken validates a reset token and returns the email
func (c *Codec) VerifyPasswordResetToken(tokenString string) (string, error) {
	payload, err := c.verify(tokenString, c.resetKey)
	if err != nil {
		return "", err
	}
	return payload.Sub, nil
}
