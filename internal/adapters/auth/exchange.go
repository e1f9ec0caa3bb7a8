package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxTokenResponseBytes = 1 << 20

// ErrInvalidGrant marks a token-endpoint rejection of the grant itself: a
// spent authorization code or a revoked refresh token. Not retryable.
var ErrInvalidGrant = errors.New("invalid_grant")

// AuthStyle selects how a vendor's token endpoint wants client credentials.
// Fitbit and Polar mandate HTTP Basic with a form body; Oura and Whoop take
// a JSON body carrying the credentials. The divergence is deliberate and
// must not be unified.
type AuthStyle int

const (
	AuthStyleBasicForm AuthStyle = iota
	AuthStyleJSONBody
)

// Endpoint describes one vendor's OAuth2 endpoints and client registration.
type Endpoint struct {
	AuthURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Style        AuthStyle
	UsePKCE      bool
}

// Tokens is a successful token-endpoint response.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode swaps an authorization code for tokens. One shot: codes are
// single-use, so callers must never retry a failed exchange.
func ExchangeCode(ctx context.Context, client *http.Client, ep Endpoint, code, redirectURI, codeVerifier string) (Tokens, error) {
	if code == "" {
		return Tokens{}, errors.New("authorization code is required")
	}
	if redirectURI == "" {
		return Tokens{}, errors.New("redirect uri is required")
	}

	params := map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": redirectURI,
	}
	if ep.UsePKCE {
		if codeVerifier == "" {
			return Tokens{}, errors.New("code verifier is required")
		}
		params["code_verifier"] = codeVerifier
	}

	return requestTokens(ctx, client, ep, params)
}

// Refresh swaps a refresh token for a fresh token pair. A rejected grant is
// reported as ErrInvalidGrant so callers can revoke the stored credential.
func Refresh(ctx context.Context, client *http.Client, ep Endpoint, refreshToken string) (Tokens, error) {
	if refreshToken == "" {
		return Tokens{}, errors.New("refresh token is required")
	}

	return requestTokens(ctx, client, ep, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
}

func requestTokens(ctx context.Context, client *http.Client, ep Endpoint, params map[string]string) (Tokens, error) {
	if ep.TokenURL == "" {
		return Tokens{}, errors.New("token url is required")
	}
	if ep.ClientID == "" {
		return Tokens{}, errors.New("client id is required")
	}
	if client == nil {
		client = http.DefaultClient
	}

	requestCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	httpReq, err := buildTokenRequest(requestCtx, ep, params)
	if err != nil {
		return Tokens{}, err
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return Tokens{}, fmt.Errorf("request tokens: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Tokens{}, tokenEndpointError(resp)
	}

	var tokens Tokens
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTokenResponseBytes)).Decode(&tokens); err != nil {
		return Tokens{}, fmt.Errorf("decode token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return Tokens{}, errors.New("token response missing access token")
	}

	return tokens, nil
}

func buildTokenRequest(ctx context.Context, ep Endpoint, params map[string]string) (*http.Request, error) {
	switch ep.Style {
	case AuthStyleJSONBody:
		body := make(map[string]string, len(params)+2)
		for k, v := range params {
			body[k] = v
		}
		body["client_id"] = ep.ClientID
		body["client_secret"] = ep.ClientSecret

		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode token request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.TokenURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create token request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil

	default:
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		values.Set("client_id", ep.ClientID)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.TokenURL, strings.NewReader(values.Encode()))
		if err != nil {
			return nil, fmt.Errorf("create token request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(ep.ClientID, ep.ClientSecret)
		return req, nil
	}
}

func tokenEndpointError(resp *http.Response) error {
	var tokenErr tokenErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTokenResponseBytes)).Decode(&tokenErr); err != nil {
		return fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	if tokenErr.Error == "invalid_grant" {
		if tokenErr.ErrorDescription != "" {
			return fmt.Errorf("%w: %s", ErrInvalidGrant, tokenErr.ErrorDescription)
		}
		return ErrInvalidGrant
	}

	if tokenErr.Error == "" {
		return fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}
	if tokenErr.ErrorDescription != "" {
		return fmt.Errorf("token endpoint: %s: %s", tokenErr.Error, tokenErr.ErrorDescription)
	}
	return fmt.Errorf("token endpoint: %s", tokenErr.Error)
}
