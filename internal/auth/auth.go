// Package auth handles login against the hosted API and local inspection
// of the issued token.
package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tawahcm/soquy/internal/config"
)

// Identity is what the client knows about the logged-in user, extracted
// from the token claims.
type Identity struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry has passed. A token without
// an exp claim never expires client-side; the server still decides.
func (id *Identity) Expired(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && now.After(id.ExpiresAt)
}

// ParseToken extracts the identity claims from a JWT without verifying
// the signature. The client has no signing key; verification is the
// server's job on every request. This only reads who the token says we
// are so commands can scope their queries.
func ParseToken(token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	id := &Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		id.UserID = sub
	}
	if id.UserID == "" {
		return nil, fmt.Errorf("token has no subject claim")
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}

// loginRequest and loginResponse mirror the /v1/auth/login wire format.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token and persists it. Returns the
// identity parsed from the issued token.
func Login(serverURL, email, password string) (*Identity, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Post(serverURL+"/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("invalid email or password")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed: HTTP %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}

	id, err := ParseToken(lr.Token)
	if err != nil {
		return nil, fmt.Errorf("issued token: %w", err)
	}

	creds := &config.AuthCredentials{
		Token:     lr.Token,
		UserID:    id.UserID,
		Email:     id.Email,
		ServerURL: serverURL,
	}
	if !id.ExpiresAt.IsZero() {
		creds.ExpiresAt = id.ExpiresAt.UTC().Format(time.RFC3339)
	}
	if err := config.SaveAuth(creds); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	return id, nil
}

// Current loads the stored credentials and re-derives the identity.
// Returns nil, nil when not logged in.
func Current() (*Identity, *config.AuthCredentials, error) {
	creds, err := config.LoadAuth()
	if err != nil || creds == nil {
		return nil, nil, err
	}
	id, err := ParseToken(creds.Token)
	if err != nil {
		// Stored token is unreadable; treat as logged out rather than
		// blocking every command.
		return nil, nil, nil
	}
	return id, creds, nil
}

// Logout clears the stored credentials.
func Logout() error {
	return config.ClearAuth()
}
