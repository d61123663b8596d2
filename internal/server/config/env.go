package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sarkie/sarkie-backend/internal/flagx"
)

const defaultEnvFile = ".env"

// portEnv mirrors the PORT convention of PaaS hosts.
type portEnv struct {
	Port string `env:"PORT"`
}

// parseEnv loads the dotenv file named by -env (default ".env"; a missing
// file is not an error) into the process environment without overriding
// variables that are already set, then copies every tagged variable that
// is present onto config. HTTP_ADDR wins over PORT.
func parseEnv(config *Config) error {
	path := flagx.EnvFileFlag(defaultEnvFile)
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}

	var p portEnv
	if err := env.Parse(&p); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if p.Port != "" {
		config.EndpointAddrHTTP = ":" + p.Port
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
