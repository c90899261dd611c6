package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries every knob the server reads from the environment. It is
// loaded once in main and passed down; handlers never touch os.Getenv.
type Config struct {
	Port                string        `envconfig:"PORT" default:"4000"`
	DBConnectionString  string        `envconfig:"DB_CONNECTION_STRING" required:"true"`
	RedisURL            string        `envconfig:"REDIS_URL"`
	Auth0IssuerBaseURL  string        `envconfig:"AUTH0_ISSUER_BASE_URL" default:"https://dev-unwib2uznmp1ymj4.us.auth0.com/"`
	Auth0Audience       string        `envconfig:"AUTH0_AUDIENCE" default:"http://localhost:8000"`
	HTTPClientTimeout   time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"3m"`
	ResidencyCacheTTL   time.Duration `envconfig:"RESIDENCY_CACHE_TTL" default:"30s"`
	JWKSRefreshInterval time.Duration `envconfig:"JWKS_REFRESH_INTERVAL" default:"1h"`
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	// envconfig's required check passes a set-but-empty variable
	if c.DBConnectionString == "" {
		return c, errors.New("DB_CONNECTION_STRING must not be empty")
	}
	return c, nil
}
