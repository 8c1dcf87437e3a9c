package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "token_type" claim. Access tokens authenticate
// requests, refresh tokens mint new pairs, activation tokens are single-purpose
// credentials embedded in the account activation link.
const (
	TypeAccess     = "access"
	TypeRefresh    = "refresh"
	TypeActivation = "activation"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies the service's HS256 tokens.
type Issuer struct {
	secret        []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	activationTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL, activationTTL time.Duration) *Issuer {
	return &Issuer{
		secret:        []byte(secret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		activationTTL: activationTTL,
	}
}

// IssuePair returns an access/refresh token pair for the user.
func (i *Issuer) IssuePair(userID uint) (access, refresh string, err error) {
	access, err = i.sign(userID, TypeAccess, i.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = i.sign(userID, TypeRefresh, i.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueActivation returns a single-purpose token bound to the user id, used in
// the activation link sent by mail.
func (i *Issuer) IssueActivation(userID uint) (string, error) {
	return i.sign(userID, TypeActivation, i.activationTTL)
}

// ParseAccess validates an access token and returns the user id it was issued
// for. Refresh and activation tokens are rejected.
func (i *Issuer) ParseAccess(token string) (uint, error) {
	return i.parse(token, TypeAccess)
}

// ParseRefresh validates a refresh token and returns the user id.
func (i *Issuer) ParseRefresh(token string) (uint, error) {
	return i.parse(token, TypeRefresh)
}

// CheckActivation validates an activation token against the user id decoded
// from the activation link.
func (i *Issuer) CheckActivation(token string, userID uint) error {
	id, err := i.parse(token, TypeActivation)
	if err != nil {
		return err
	}
	if id != userID {
		return ErrInvalidToken
	}
	return nil
}

func (i *Issuer) sign(userID uint, tokenType string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) parse(token, tokenType string) (uint, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// EncodeUID encodes a user id for use as an activation link path segment.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(s string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
