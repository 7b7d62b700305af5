package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	KIE      KIEConfig      `mapstructure:"kie"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// KIEConfig contains the settings for the external process engine
// (a KIE Server exposing the jBPM REST API). The defaults match a local
// Business Central deployment; every field is overridable via environment.
type KIEConfig struct {
	// Enabled toggles the workflow integration. When false the server runs
	// with a no-op notifier and never talks to the engine.
	Enabled bool `mapstructure:"enabled"`

	ServerURL   string `mapstructure:"server_url"   validate:"required,url"`
	Username    string `mapstructure:"username"     validate:"required"`
	Password    string `mapstructure:"password"     validate:"required"`
	ContainerID string `mapstructure:"container_id" validate:"required"`
	ProcessID   string `mapstructure:"process_id"   validate:"required"`

	// TimeoutSeconds bounds every outbound call to the engine so a slow
	// engine cannot stall request handling indefinitely.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"required,gt=0,lte=60"`
}
