package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Signer creates and validates HMAC-signed tokens binding a purpose to a value,
// for links sent by email such as newsletter unsubscribes.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer with the provided secret and TTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate returns a token of the form purpose.expiry.value.signature where
// value is base64url encoded.
func (s *Signer) Generate(purpose, value string) (string, time.Time, error) {
	if purpose == "" || value == "" {
		return "", time.Time{}, fmt.Errorf("purpose and value required")
	}
	if strings.Contains(purpose, ".") {
		return "", time.Time{}, fmt.Errorf("purpose must not contain '.'")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))
	token := strings.Join([]string{purpose, ts, encoded, s.sign(purpose, ts, encoded)}, ".")
	return token, time.Unix(expiresAt.Unix(), 0), nil
}

// Parse validates token for purpose and returns the embedded value.
// When allowExpired is true, the timestamp check is skipped.
func (s *Signer) Parse(token, purpose string, allowExpired bool) (string, time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 || parts[0] != purpose {
		return "", time.Time{}, ErrInvalidToken
	}
	ts, encoded, signature := parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(purpose, ts, encoded)), []byte(signature)) {
		return "", time.Time{}, ErrInvalidToken
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", time.Time{}, ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", time.Time{}, ErrInvalidToken
	}
	expiresAt := time.Unix(expUnix, 0)
	if !allowExpired && s.now().After(expiresAt) {
		return "", expiresAt, ErrTokenExpired
	}
	return string(raw), expiresAt, nil
}

func (s *Signer) sign(purpose, ts, encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(purpose + "|" + ts + "|" + encoded))
	return hex.EncodeToString(mac.Sum(nil))
}
