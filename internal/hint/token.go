package hint

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"synonymseeker/internal/security"
)

// TokenConfig selects how the primary stage authenticates
type TokenConfig struct {
	OAuthTokenURL     string
	OAuthClientID     string
	OAuthClientSecret string
	SigningKey        string
	BearerToken       string
}

// NewTokenSource picks client credentials, then a self-signed service token,
// then a static token. It returns nil when nothing is configured.
func NewTokenSource(ctx context.Context, cfg TokenConfig) oauth2.TokenSource {
	switch {
	case cfg.OAuthTokenURL != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			TokenURL:     cfg.OAuthTokenURL,
			Scopes:       []string{"hint-analyzer/invoke"},
		}
		return cc.TokenSource(ctx)
	case cfg.SigningKey != "":
		return security.NewServiceTokenSource(cfg.SigningKey)
	case cfg.BearerToken != "":
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.BearerToken, TokenType: "Bearer"})
	default:
		return nil
	}
}
