package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

const envPrefix = "YWITTER_"

// Load reads the TOML file at path on top of Default. A missing file is not
// an error. Secrets can be overridden by YWITTER_* environment variables.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Configs{}, err
		}
	}

	overrideString(&cfg.Env, "ENV")
	overrideString(&cfg.Database.Driver, "DB_DRIVER")
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.Database, "DB_NAME")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	overrideString(&cfg.Kafka.Addr, "KAFKA_ADDR")
	overrideString(&cfg.Moderation.SuperAdminUsername, "SUPER_ADMIN")

	if cfg.Auth.TokenSecret == "" {
		return Configs{}, errors.New("auth token secret is required")
	}

	return cfg, nil
}

func overrideString(field *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		*field = v
	}
}
