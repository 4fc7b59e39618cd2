package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mytheresa/catalog-web/app/database"
	"github.com/mytheresa/catalog-web/app/session"
)

// Environment is the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment normalises v; unknown values fall back to Development.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production:
		return Production
	case Testing:
		return Testing
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool {
	return e == Production
}

type Config struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	CSRFKey         string        `envconfig:"CSRF_KEY"`

	Database database.Config
	Redis    session.RedisConfig
	Session  session.Config
}

func (c Config) Environment() Environment {
	return ParseEnvironment(c.Env)
}

const csrfKeyLen = 32

// CSRFSecret returns the key that signs the CSRF cookie. Outside production
// an unset CSRF_KEY yields a random key, so tokens do not survive a restart.
func (c Config) CSRFSecret() ([]byte, error) {
	if c.CSRFKey != "" {
		if len(c.CSRFKey) < csrfKeyLen {
			return nil, fmt.Errorf("CSRF_KEY must be at least %d bytes", csrfKeyLen)
		}
		return []byte(c.CSRFKey), nil
	}
	if c.Environment().IsProduction() {
		return nil, errors.New("CSRF_KEY is required in production")
	}
	key := securecookie.GenerateRandomKey(csrfKeyLen)
	if key == nil {
		return nil, errors.New("failed to generate CSRF key")
	}
	return key, nil
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load(files...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
