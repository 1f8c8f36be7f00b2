package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCredentialPrefersConfig(t *testing.T) {
	t.Setenv("SENSEI_TEST_KEY", "env-value")

	cfg := DefaultConfig()
	cfg.Credentials["anthropic"] = "config-value"

	cred, ok := cfg.ResolveCredential("anthropic", "SENSEI_TEST_KEY")
	require.True(t, ok)
	assert.Equal(t, "config-value", cred.Value)
	assert.Equal(t, "config", cred.Source)
}

func TestResolveCredentialEnvPrecedence(t *testing.T) {
	t.Setenv("SENSEI_OVERRIDE_KEY", "override")
	t.Setenv("SENSEI_STANDARD_KEY", "standard")

	cfg := DefaultConfig()
	cred, ok := cfg.ResolveCredential("anthropic", "SENSEI_OVERRIDE_KEY", "SENSEI_STANDARD_KEY")
	require.True(t, ok)
	assert.Equal(t, "override", cred.Value)
	assert.Equal(t, "SENSEI_OVERRIDE_KEY", cred.Source)
}

func TestResolveCredentialFallsThroughEmptyOverride(t *testing.T) {
	t.Setenv("SENSEI_OVERRIDE_KEY", "")
	t.Setenv("SENSEI_STANDARD_KEY", "standard")

	cfg := DefaultConfig()
	cred, ok := cfg.ResolveCredential("anthropic", "SENSEI_OVERRIDE_KEY", "SENSEI_STANDARD_KEY")
	require.True(t, ok)
	assert.Equal(t, "standard", cred.Value)
	assert.Equal(t, "SENSEI_STANDARD_KEY", cred.Source)
}

func TestResolveCredentialMissing(t *testing.T) {
	t.Setenv("SENSEI_MISSING_KEY", "")

	cfg := DefaultConfig()
	_, ok := cfg.ResolveCredential("anthropic", "SENSEI_MISSING_KEY")
	assert.False(t, ok)
}

func TestMaskCredential(t *testing.T) {
	assert.Equal(t, "sk-ant-...1234", MaskCredential("sk-ant-abcdefgh1234"))
	assert.Equal(t, "****", MaskCredential("abcd"))
	assert.Equal(t, "****", MaskCredential(""))
	assert.Equal(t, "****", MaskCredential("1234567"))
	// Exactly 8 characters shows first 7 and last 4 (overlapping is fine).
	assert.Equal(t, "abcdefg...efgh", MaskCredential("abcdefgh"))
}
