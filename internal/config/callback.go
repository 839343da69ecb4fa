package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Environment identifica donde corre el proceso.
type Environment string

const (
	EnvLocal      Environment = "local"
	EnvProduction Environment = "production"
)

// GoogleCallbackPath es la ruta registrada en el proveedor para el retorno OAuth.
const GoogleCallbackPath = "/auth/google/callback"

var (
	ErrUnknownEnvironment = errors.New("unknown APP_ENV, expected local or production")
	ErrCallbackURLInvalid = errors.New("oauth callback url invalid")
)

func (e Environment) Valid() bool {
	return e == EnvLocal || e == EnvProduction
}

// CallbackInputs son las unicas entradas que determinan la URL de retorno OAuth.
type CallbackInputs struct {
	Environment   Environment
	ExplicitURL   string
	PublicBaseURL string
	Port          string
}

// ResolveCallbackURL devuelve la URL canonica de retorno OAuth.
// Una URL explicita siempre gana; si no, local usa localhost:<port> y
// production exige PublicBaseURL en https.
func ResolveCallbackURL(in CallbackInputs) (string, error) {
	if explicit := strings.TrimSpace(in.ExplicitURL); explicit != "" {
		u, err := url.Parse(explicit)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return "", fmt.Errorf("%w: %q is not an absolute http(s) url", ErrCallbackURLInvalid, explicit)
		}
		return u.String(), nil
	}

	switch in.Environment {
	case EnvLocal:
		port := strings.TrimSpace(in.Port)
		if port == "" {
			port = "8080"
		}
		return "http://localhost:" + port + GoogleCallbackPath, nil
	case EnvProduction:
		base := strings.TrimRight(strings.TrimSpace(in.PublicBaseURL), "/")
		if base == "" {
			return "", fmt.Errorf("%w: PUBLIC_BASE_URL is required in production", ErrCallbackURLInvalid)
		}
		u, err := url.Parse(base)
		if err != nil || u.Host == "" || u.Scheme != "https" {
			return "", fmt.Errorf("%w: PUBLIC_BASE_URL must be an https url", ErrCallbackURLInvalid)
		}
		return base + GoogleCallbackPath, nil
	default:
		return "", ErrUnknownEnvironment
	}
}
