// Package config loads and validates the application configuration from
// environment variables (with the TASKFLOW_ prefix) and optional config
// files, using viper for loading and go-playground/validator for
// structural validation.
package config
