package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
)

const (
	ProviderGoogle = "google"

	googleIssuer       = "https://accounts.google.com"
	googleJWKSURL      = "https://www.googleapis.com/oauth2/v3/certs"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v3/userinfo"
	maxUserInfoPayload = 1 << 20
)

var (
	ErrMissingSubject = errors.New("provider profile without subject")
	ErrNotConfigured  = errors.New("google oauth not configured")
)

// GoogleConfig agrupa credenciales y, para tests, endpoints sustituibles.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
	Issuer      string
	KeySet      oidc.KeySet
	HTTPClient  *http.Client
}

// GoogleProvider implementa el login con Google sobre oauth2 + OIDC.
type GoogleProvider struct {
	config      *oauth2.Config
	verifier    *oidc.IDTokenVerifier
	userInfoURL string
	httpClient  *http.Client
}

func NewGoogleProvider(ctx context.Context, cfg GoogleConfig) (*GoogleProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, ErrNotConfigured
	}

	endpoint := endpoints.Google
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = googleUserInfoURL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = googleIssuer
	}
	if cfg.HTTPClient != nil {
		ctx = oidc.ClientContext(ctx, cfg.HTTPClient)
	}
	keySet := cfg.KeySet
	if keySet == nil {
		keySet = oidc.NewRemoteKeySet(ctx, googleJWKSURL)
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"profile", "email"},
		},
		verifier:    oidc.NewVerifier(cfg.Issuer, keySet, &oidc.Config{ClientID: cfg.ClientID}),
		userInfoURL: cfg.UserInfoURL,
		httpClient:  cfg.HTTPClient,
	}, nil
}

func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

// AuthCodeURL arma la URL de autorizacion con el estado dado.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// FetchProfile canjea el codigo y obtiene la identidad del id_token verificado
// o, si no viene, del endpoint userinfo.
func (p *GoogleProvider) FetchProfile(ctx context.Context, code string) (domain.ExternalProfile, error) {
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return domain.ExternalProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	var claims googleClaims
	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		idToken, err := p.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return domain.ExternalProfile{}, fmt.Errorf("verify id_token: %w", err)
		}
		if err := idToken.Claims(&claims); err != nil {
			return domain.ExternalProfile{}, fmt.Errorf("decode id_token claims: %w", err)
		}
	} else {
		claims, err = p.fetchUserInfo(ctx, token)
		if err != nil {
			return domain.ExternalProfile{}, err
		}
	}

	if strings.TrimSpace(claims.Sub) == "" {
		return domain.ExternalProfile{}, ErrMissingSubject
	}
	return domain.ExternalProfile{
		Provider:      ProviderGoogle,
		Subject:       claims.Sub,
		Email:         claims.Email,
		EmailVerified: bool(claims.EmailVerified),
		Name:          claims.Name,
	}, nil
}

type googleClaims struct {
	Sub           string   `json:"sub"`
	Email         string   `json:"email"`
	EmailVerified flexBool `json:"email_verified"`
	Name          string   `json:"name"`
}

// flexBool acepta true/false tanto como booleano como string.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true":
		*b = true
	case "false", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

func (p *GoogleProvider) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleClaims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return googleClaims{}, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return googleClaims{}, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUserInfoPayload))
	if err != nil {
		return googleClaims{}, fmt.Errorf("read userinfo: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return googleClaims{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var claims googleClaims
	if err := json.Unmarshal(body, &claims); err != nil {
		return googleClaims{}, fmt.Errorf("decode userinfo: %w", err)
	}
	return claims, nil
}
