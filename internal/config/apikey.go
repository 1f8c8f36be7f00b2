package config

import "os"

// Credential is a resolved secret plus where it came from, so callers can
// tell users which source to fix. Source is either "config" or the name of
// the environment variable the value was read from.
type Credential struct {
	Value  string
	Source string
}

// ResolveCredential looks up the API key for the named backend.
// Precedence: config file entry, then each environment variable in order
// (backend-specific override first, generic standard variable last).
func (c *Config) ResolveCredential(backend string, envVars ...string) (Credential, bool) {
	if v := c.Credentials[backend]; v != "" {
		return Credential{Value: v, Source: "config"}, true
	}
	for _, envVar := range envVars {
		if v := os.Getenv(envVar); v != "" {
			return Credential{Value: v, Source: envVar}, true
		}
	}
	return Credential{}, false
}

// MaskCredential renders a secret safe for display: the first 7 characters,
// an ellipsis, and the last 4. Secrets shorter than 8 characters are fully
// masked.
func MaskCredential(secret string) string {
	if len(secret) < 8 {
		return "****"
	}
	return secret[:7] + "..." + secret[len(secret)-4:]
}
