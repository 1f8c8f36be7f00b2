package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesensei/internal/config"
	"codesensei/internal/errdefs"
)

func configWithKey() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Credentials["anthropic"] = "sk-ant-test"
	return cfg
}

func TestCompleteSendsMessagesRequest(t *testing.T) {
	var gotBody apiRequest
	var gotKey, gotVersion string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"the answer"}]}`))
	}))
	defer server.Close()

	p := New(configWithKey(), server.URL)
	text, err := p.Complete(context.Background(), "explain this", "be concise", 4096)
	require.NoError(t, err)

	assert.Equal(t, "the answer", text)
	assert.Equal(t, "sk-ant-test", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, model, gotBody.Model)
	assert.Equal(t, 4096, gotBody.MaxTokens)
	assert.Equal(t, "be concise", gotBody.System)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Equal(t, "explain this", gotBody.Messages[0].Content)
}

func TestCompleteMapsStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   errdefs.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, errdefs.KindAuthentication},
		{"rate limited", http.StatusTooManyRequests, errdefs.KindRateLimit},
		{"bad request", http.StatusBadRequest, errdefs.KindBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer server.Close()

			p := New(configWithKey(), server.URL)
			_, err := p.Complete(context.Background(), "hi", "", 10)
			require.Error(t, err)
			assert.Equal(t, tc.kind, errdefs.KindOf(err))
		})
	}
}

func TestCompleteWithoutCredential(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	p := New(config.DefaultConfig(), "http://unused")
	_, err := p.Complete(context.Background(), "hi", "", 10)
	require.Error(t, err)
	assert.Equal(t, errdefs.KindConfiguration, errdefs.KindOf(err))
}

func TestCredentialPrecedence(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "legacy-env-key")
	t.Setenv("ANTHROPIC_API_KEY", "standard-env-key")

	// Legacy override variable wins over the standard one.
	p := New(config.DefaultConfig(), "http://unused")
	cred, ok := p.Credential()
	require.True(t, ok)
	assert.Equal(t, "legacy-env-key", cred.Value)
	assert.Equal(t, "CLAUDE_API_KEY", cred.Source)

	// Config entry wins over both.
	p2 := New(configWithKey(), "http://unused")
	cred, ok = p2.Credential()
	require.True(t, ok)
	assert.Equal(t, "sk-ant-test", cred.Value)
	assert.Equal(t, "config", cred.Source)
}

func TestValidateCredentialUsesCheapModel(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req apiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model
		w.Write([]byte(`{"content":[{"type":"text","text":"Hello"}]}`))
	}))
	defer server.Close()

	p := New(configWithKey(), server.URL)
	valid, msg := p.ValidateCredential(context.Background(), "sk-ant-test")
	assert.True(t, valid)
	assert.Equal(t, "API key is valid", msg)
	assert.Equal(t, validationModel, gotModel)
}

func TestValidateCredentialRateLimitedStillValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := New(configWithKey(), server.URL)
	valid, msg := p.ValidateCredential(context.Background(), "sk-ant-test")
	assert.True(t, valid)
	assert.Contains(t, msg, "rate limited")
}

func TestValidateCredentialRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p := New(configWithKey(), server.URL)
	valid, msg := p.ValidateCredential(context.Background(), "bad-key")
	assert.False(t, valid)
	assert.Contains(t, msg, "Invalid API key")
}

func TestEstimateCost(t *testing.T) {
	p := New(config.DefaultConfig(), "http://unused")
	assert.InDelta(t, 3.0, p.EstimateCost(1_000_000, 0), 1e-9)
	assert.InDelta(t, 15.0, p.EstimateCost(0, 1_000_000), 1e-9)
}

func TestMetadata(t *testing.T) {
	p := New(config.DefaultConfig(), "http://unused")
	assert.Equal(t, "Anthropic", p.DisplayName())
	assert.Equal(t, "ANTHROPIC_API_KEY", p.CredentialEnvVar())
	assert.Equal(t, "https://console.anthropic.com", p.CredentialPortalURL())
	assert.Equal(t, model, p.ModelName())
	assert.Positive(t, p.CountTokens("some text here"))
}
