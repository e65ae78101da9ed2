package utils

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// AccessClaims are the JWT claims carried by an access token. Subject is
// the user's id as a decimal string; Role is the platform role used by the
// authorization strategies.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a new signed access token for the given user.
func GenerateJWT(userID int64, role domain.Role, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string, validates its signature and
// standard claims, and returns the claims on success.
func ParseAndValidateJWT(tokenString string, secretKey string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

// IdentityFromClaims converts validated claims into the domain identity.
// It reports false when the subject or role claim is malformed.
func IdentityFromClaims(claims *AccessClaims) (*domain.Identity, bool) {
	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, false
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return nil, false
	}
	return &domain.Identity{SubjectID: subjectID, Role: role}, true
}
