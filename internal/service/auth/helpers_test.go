package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dsoria/taskflow-api/internal/config"
)

func configAuthFixture(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: 60,
	}
}

// hashForTest hashes at bcrypt.MinCost to keep the suite fast.
func hashForTest(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hashed)
}
