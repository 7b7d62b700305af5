package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, if present, a
// config.yaml in the working directory. Environment variables take
// precedence over values from config files and use the TASKFLOW_ prefix
// with underscores for nesting (e.g. TASKFLOW_DATABASE_URL,
// TASKFLOW_KIE_SERVER_URL).
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file; missing file is not an error.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("TASKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers a default for every known key. Besides providing
// the fallback values, this tells viper which keys exist so AutomaticEnv
// can populate them during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	// Defaults for a local Business Central / KIE Server deployment.
	v.SetDefault("kie.enabled", true)
	v.SetDefault("kie.server_url", "http://localhost:8080/kie-server/services/rest/server")
	v.SetDefault("kie.username", "wbadmin")
	v.SetDefault("kie.password", "wbadmin")
	v.SetDefault("kie.container_id", "tasks-kjar_1.0.0-SNAPSHOT")
	v.SetDefault("kie.process_id", "tasks-kjar.task-process")
	v.SetDefault("kie.timeout_seconds", 6)
}
