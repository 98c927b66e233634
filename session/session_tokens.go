package session

import (
	"errors"
	"time"

	"nextvision/config"

	"github.com/fundwit/go-commons/types"
	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SignSessionToken issues a signed bearer token for the identity.
func SignSessionToken(identity Identity, role string, now time.Time) (string, error) {
	claims := sessionClaims{
		Name:     identity.Name,
		Nickname: identity.Nickname,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			Issuer:    config.Service.JwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Service.JwtExpire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Service.JwtSecret))
}

// VerifySessionToken rebuilds a session from a signed token.
func VerifySessionToken(token string) (*Session, error) {
	claims := sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.Service.JwtSecret), nil
	}, jwt.WithIssuer(config.Service.JwtIssuer))
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	id, err := types.ParseID(claims.Subject)
	if err != nil {
		return nil, errors.New("invalid token subject")
	}

	var signingTime time.Time
	if claims.IssuedAt != nil {
		signingTime = claims.IssuedAt.Time
	}
	return &Session{
		Token:       token,
		Identity:    Identity{ID: id, Name: claims.Name, Nickname: claims.Nickname},
		Role:        claims.Role,
		SigningTime: signingTime,
	}, nil
}
