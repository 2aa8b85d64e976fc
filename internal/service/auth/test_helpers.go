package auth

import "github.com/dstreet/taskhub/internal/config"

// testAuthConfig returns an AuthConfig with the given secret and a 24 hour
// token lifetime. Shared by this package's tests.
func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: 24 * 60,
	}
}

// DefaultTestAuthConfig returns a standard auth configuration suitable for
// tests in other packages.
func DefaultTestAuthConfig() config.AuthConfig {
	return testAuthConfig("test-jwt-secret-that-is-32-chars-long")
}
