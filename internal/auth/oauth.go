// Package auth owns everything between the browser and an authenticated
// subject id: the Google OAuth flow, the signed state parameter, the
// server-side session store, and the gate/policy middleware.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Claim is the verified identity claim extracted from Google's userinfo
// endpoint after a successful code exchange. SubjectID is Google's "id"
// field — stable for the lifetime of the Google account, and the only field
// the rest of the system treats as authoritative.
type Claim struct {
	SubjectID string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Picture   string `json:"picture"`
}

// GoogleProvider wraps golang.org/x/oauth2 for the Google Authorization
// Code flow. The core never sees tokens or the handshake itself — handlers
// call AuthURL to start the flow and Exchange to turn a callback code into
// a Claim.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// NewGoogleProvider creates a GoogleProvider with the given credentials.
//
// callbackURL must exactly match an authorized redirect URI registered for
// the OAuth client in the Google Cloud console, e.g.
// "http://localhost:8080/auth/google/callback".
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// AuthURL returns the Google authorization URL the login entry point hands
// to the browser. state must be a value we can verify on the callback (see
// StateService) — it is what stops a forged callback from binding a session.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the provider handshake: it trades the authorization
// code for an access token (server-to-server, using our client secret) and
// fetches the userinfo document with it.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Claim, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// Config.Client returns an *http.Client that attaches the bearer token
	// to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo returned status %d", resp.StatusCode)
	}

	var claim Claim
	if err := json.NewDecoder(resp.Body).Decode(&claim); err != nil {
		return nil, fmt.Errorf("auth: decoding Google userinfo: %w", err)
	}

	if claim.SubjectID == "" {
		return nil, fmt.Errorf("auth: Google returned a claim with no subject id")
	}

	return &claim, nil
}
