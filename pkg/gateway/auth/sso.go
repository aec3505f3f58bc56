package auth

import (
	"fmt"

	"golang.org/x/oauth2"
)

// SSOAuthenticator holds the OAuth2 configuration for an optional clinic
// identity provider. When configured, the API gateway redirects browser
// logins through the provider instead of first-party credentials.
type SSOAuthenticator struct {
	config *oauth2.Config
	issuer string
}

func NewSSOAuthenticator(issuer, clientID, clientSecret, redirectURL string) (*SSOAuthenticator, error) {
	if issuer == "" || clientID == "" {
		return nil, fmt.Errorf("SSO configuration incomplete")
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/authorize", issuer),
			TokenURL: fmt.Sprintf("%s/token", issuer),
		},
		Scopes: []string{"openid", "profile", "email"},
	}

	return &SSOAuthenticator{
		config: config,
		issuer: issuer,
	}, nil
}

// AuthCodeURL returns the provider URL to begin the authorization-code flow.
func (a *SSOAuthenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Issuer reports the configured identity provider.
func (a *SSOAuthenticator) Issuer() string {
	return a.issuer
}
