package openai

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
	cfg.Credentials["openai"] = "sk-test"
	return cfg
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var gotBody apiRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"reply"}}]}`))
	}))
	defer server.Close()

	p := New(configWithKey(), server.URL)
	text, err := p.Complete(context.Background(), "question", "system prompt", 2048)
	require.NoError(t, err)

	assert.Equal(t, "reply", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, model, gotBody.Model)
	assert.Equal(t, 2048, gotBody.MaxTokens)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Equal(t, "system prompt", gotBody.Messages[0].Content)
	assert.Equal(t, "user", gotBody.Messages[1].Role)
}

func TestCompleteOmitsEmptySystem(t *testing.T) {
	var gotBody apiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"choices":[{"message":{"content":"reply"}}]}`))
	}))
	defer server.Close()

	p := New(configWithKey(), server.URL)
	_, err := p.Complete(context.Background(), "question", "", 100)
	require.NoError(t, err)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
}

func TestCompleteMapsStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   errdefs.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, errdefs.KindAuthentication},
		{"rate limited", http.StatusTooManyRequests, errdefs.KindRateLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			p := New(configWithKey(), server.URL)
			_, err := p.Complete(context.Background(), "hi", "", 10)
			require.Error(t, err)
			assert.Equal(t, tc.kind, errdefs.KindOf(err))
		})
	}
}

func TestCredentialFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	p := New(config.DefaultConfig(), "http://unused")
	cred, ok := p.Credential()
	require.True(t, ok)
	assert.Equal(t, "env-key", cred.Value)
	assert.Equal(t, "OPENAI_API_KEY", cred.Source)
}

func TestValidateCredentialUsesCheapModel(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req apiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model
		w.Write([]byte(`{"choices":[{"message":{"content":"Hello"}}]}`))
	}))
	defer server.Close()

	p := New(configWithKey(), server.URL)
	valid, _ := p.ValidateCredential(context.Background(), "sk-test")
	assert.True(t, valid)
	assert.Equal(t, validationModel, gotModel)
}

func TestEstimateCost(t *testing.T) {
	p := New(config.DefaultConfig(), "http://unused")
	assert.InDelta(t, 2.50, p.EstimateCost(1_000_000, 0), 1e-9)
	assert.InDelta(t, 10.0, p.EstimateCost(0, 1_000_000), 1e-9)
}

func TestMetadata(t *testing.T) {
	p := New(config.DefaultConfig(), "http://unused")
	assert.Equal(t, "OpenAI", p.DisplayName())
	assert.Equal(t, "OPENAI_API_KEY", p.CredentialEnvVar())
	assert.Equal(t, "https://platform.openai.com/api-keys", p.CredentialPortalURL())
}
