// Package auth implements the signed bearer-token codec: issuing and
// verifying kind-tagged, expiring JWTs that carry a minimal identity
// snapshot.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/server/models"
)

// Kind distinguishes access tokens from refresh tokens. The tag is embedded
// in the token so a refresh token cannot be replayed as an access token and
// vice versa.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims extends the registered JWT claims with the identity snapshot and
// the token kind tag.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Kind     Kind   `json:"token_kind"`
}

// GenerateToken signs a token of the given kind carrying data, valid for
// validityDuration from now. The jti claim is populated so an external
// denylist can be layered on later without changing the wire format.
func GenerateToken(data models.TokenData, kind Kind, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   data.UserID,
		Email:    data.Email,
		Username: data.Username,
		Kind:     kind,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature, expiry, and kind tag, returning the
// embedded identity snapshot. Failures map to common.ErrTokenExpired,
// common.ErrTokenKindMismatch, or common.ErrTokenMalformed; no claims are
// returned on any failure.
func ParseToken(tokenString string, expected Kind, secretKey []byte) (*models.TokenData, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenMalformed
	}

	if !token.Valid {
		return nil, common.ErrTokenMalformed
	}

	if claims.Kind != expected {
		return nil, common.ErrTokenKindMismatch
	}

	return &models.TokenData{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	}, nil
}
