package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesensei/internal/config"
	"codesensei/internal/errdefs"
)

// fakeAdapter fails with a fixed error a set number of times, then
// succeeds.
type fakeAdapter struct {
	failures int
	failWith error
	calls    int
}

func (f *fakeAdapter) Complete(_ context.Context, _, _ string, _ int) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.failWith
	}
	return "generated text", nil
}

func (f *fakeAdapter) Credential() (config.Credential, bool) {
	return config.Credential{Value: "key", Source: "config"}, true
}

func (f *fakeAdapter) ValidateCredential(context.Context, string) (bool, string) {
	return true, "ok"
}

func (f *fakeAdapter) EstimateCost(in, out int) float64 { return 0 }
func (f *fakeAdapter) CountTokens(text string) int      { return CountTokens(text) }
func (f *fakeAdapter) CredentialEnvVar() string         { return "FAKE_API_KEY" }
func (f *fakeAdapter) CredentialPortalURL() string      { return "https://example.com" }
func (f *fakeAdapter) DisplayName() string              { return "Fake" }
func (f *fakeAdapter) ModelName() string                { return "fake-1" }

func rateLimitErr() error {
	return errdefs.New(errdefs.KindRateLimit, "rate limited", "")
}

func TestCallerRetriesRateLimits(t *testing.T) {
	adapter := &fakeAdapter{failures: 2, failWith: rateLimitErr()}

	var sleeps []time.Duration
	caller := NewCallerWithSleep(adapter, func(d time.Duration) { sleeps = append(sleeps, d) })

	text, err := caller.Complete(context.Background(), "p", "s", 100)
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
	assert.Equal(t, 3, adapter.calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, sleeps)
}

func TestCallerExhaustsRetries(t *testing.T) {
	adapter := &fakeAdapter{failures: 4, failWith: rateLimitErr()}

	var sleeps []time.Duration
	caller := NewCallerWithSleep(adapter, func(d time.Duration) { sleeps = append(sleeps, d) })

	_, err := caller.Complete(context.Background(), "p", "s", 100)
	require.Error(t, err)
	assert.True(t, errdefs.IsRateLimit(err))
	assert.Equal(t, 4, adapter.calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}, sleeps)
}

func TestCallerDoesNotRetryOtherErrors(t *testing.T) {
	authErr := errdefs.New(errdefs.KindAuthentication, "bad key", "")
	adapter := &fakeAdapter{failures: 1, failWith: authErr}

	var sleeps []time.Duration
	caller := NewCallerWithSleep(adapter, func(d time.Duration) { sleeps = append(sleeps, d) })

	_, err := caller.Complete(context.Background(), "p", "s", 100)
	require.Error(t, err)
	assert.True(t, errdefs.IsAuthentication(err))
	assert.Equal(t, 1, adapter.calls)
	assert.Empty(t, sleeps)
}

func TestCallerSucceedsFirstTry(t *testing.T) {
	adapter := &fakeAdapter{}

	var sleeps []time.Duration
	caller := NewCallerWithSleep(adapter, func(d time.Duration) { sleeps = append(sleeps, d) })

	text, err := caller.Complete(context.Background(), "p", "s", 100)
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
	assert.Empty(t, sleeps)
}
