package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// ServiceTokenIssuer is the iss claim of tokens the game server mints
	ServiceTokenIssuer = "synonymseeker"
	// ServiceTokenAudience is the aud claim the hint analyzer requires
	ServiceTokenAudience = "hint-analyzer"
	// ServiceTokenLifetime bounds how long a minted token is accepted
	ServiceTokenLifetime = 5 * time.Minute
)

type serviceTokenSource struct {
	key []byte
	now func() time.Time
}

// NewServiceTokenSource mints short-lived HS256 tokens, reusing each until
// shortly before it expires.
func NewServiceTokenSource(signingKey string) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &serviceTokenSource{key: []byte(signingKey), now: time.Now})
}

func (s *serviceTokenSource) Token() (*oauth2.Token, error) {
	now := s.now()
	expiry := now.Add(ServiceTokenLifetime)

	claims := jwt.RegisteredClaims{
		Issuer:    ServiceTokenIssuer,
		Subject:   "game-server",
		Audience:  jwt.ClaimStrings{ServiceTokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, fmt.Errorf("signing service token: %w", err)
	}

	return &oauth2.Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}

// VerifyServiceToken checks signature, issuer, audience and expiry
func VerifyServiceToken(signingKey, tokenString string) (*jwt.RegisteredClaims, error) {
	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(signingKey), nil
	},
		jwt.WithIssuer(ServiceTokenIssuer),
		jwt.WithAudience(ServiceTokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
