package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrMissingState = errors.New("oauth state is required")

// AuthorizationRequest carries everything needed to build a vendor's
// authorization URL. CodeChallenge is optional; it is sent only for vendors
// whose endpoint enables PKCE.
type AuthorizationRequest struct {
	AuthURL       string
	ClientID      string
	RedirectURI   string
	Scopes        []string
	State         string
	CodeChallenge string
}

// NewState returns a cryptographically random state parameter.
func NewState() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// BuildAuthorizationURL is pure construction: no network, deterministic for
// the same inputs.
func BuildAuthorizationURL(req AuthorizationRequest) (string, error) {
	if req.AuthURL == "" {
		return "", errors.New("auth url is required")
	}
	if req.ClientID == "" {
		return "", errors.New("client id is required")
	}
	if req.RedirectURI == "" {
		return "", errors.New("redirect uri is required")
	}
	if req.State == "" {
		return "", ErrMissingState
	}

	parsed, err := url.Parse(req.AuthURL)
	if err != nil {
		return "", fmt.Errorf("parse auth url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("auth url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("auth url host is required")
	}

	q := parsed.Query()
	q.Set("response_type", "code")
	q.Set("client_id", req.ClientID)
	q.Set("redirect_uri", req.RedirectURI)
	if len(req.Scopes) > 0 {
		q.Set("scope", strings.Join(req.Scopes, " "))
	}
	q.Set("state", req.State)
	if req.CodeChallenge != "" {
		q.Set("code_challenge", req.CodeChallenge)
		q.Set("code_challenge_method", PKCEChallengeMethodS256)
	}
	parsed.RawQuery = q.Encode()

	return parsed.String(), nil
}
