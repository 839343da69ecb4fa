package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort     string      `env:"HTTP_PORT" envDefault:"8080"`
	Environment  Environment `env:"APP_ENV" envDefault:"local"`
	DatabaseURL  string      `env:"DATABASE_URL,required,notEmpty"`
	RunMigration bool        `env:"RUN_MIGRATIONS" envDefault:"true"`
	JWTSecret    string      `env:"JWT_SECRET,required,notEmpty"`
	BcryptCost   int         `env:"BCRYPT_COST" envDefault:"10"`

	DBMaxConns       int32         `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns       int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `env:"GOOGLE_CALLBACK_URL"`
	PublicBaseURL      string `env:"PUBLIC_BASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	OTelEndpoint      string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if !cfg.Environment.Valid() {
		return nil, ErrUnknownEnvironment
	}
	return &cfg, nil
}

// GoogleEnabled indica si el login con Google está configurado.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

// CallbackInputs arma las entradas de ResolveCallbackURL a partir de la configuración.
func (c *Config) CallbackInputs() CallbackInputs {
	return CallbackInputs{
		Environment:   c.Environment,
		ExplicitURL:   c.GoogleCallbackURL,
		PublicBaseURL: c.PublicBaseURL,
		Port:          c.HTTPPort,
	}
}
