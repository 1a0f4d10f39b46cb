package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Identity is what a third-party provider vouches for after verifying an id
// token.
type Identity struct {
	Email     string
	FirstName string
	LastName  string
	Avatar    string
}

// IdentityVerifier checks an id token with its provider and returns the
// verified identity. The provider is a black box to the rest of the system.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

// GoogleVerifier resolves Google id tokens against the userinfo endpoint.
type GoogleVerifier struct {
	client   *http.Client
	endpoint string
}

func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: "https://www.googleapis.com/oauth2/v3/userinfo",
	}
}

func (v *GoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+idToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo responded %d", resp.StatusCode)
	}

	var payload struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Email == "" {
		return nil, fmt.Errorf("google userinfo returned no email")
	}
	return &Identity{
		Email:     payload.Email,
		FirstName: payload.GivenName,
		LastName:  payload.FamilyName,
		Avatar:    payload.Picture,
	}, nil
}

// FacebookVerifier resolves Facebook access tokens against the Graph API.
type FacebookVerifier struct {
	client   *http.Client
	endpoint string
}

func NewFacebookVerifier() *FacebookVerifier {
	return &FacebookVerifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: "https://graph.facebook.com/me",
	}
}

func (v *FacebookVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	query := url.Values{}
	query.Set("access_token", idToken)
	query.Set("fields", "picture,email,first_name,last_name")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook graph responded %d", resp.StatusCode)
	}

	var payload struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Picture   struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Email == "" {
		return nil, fmt.Errorf("facebook graph returned no email")
	}
	return &Identity{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Avatar:    payload.Picture.Data.URL,
	}, nil
}
