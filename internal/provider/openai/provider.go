// Package openai implements the OpenAI chat-completions backend.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"codesensei/internal/config"
	"codesensei/internal/errdefs"
	"codesensei/internal/provider"
)

const (
	defaultBaseURL = "https://api.openai.com"
	model          = "gpt-4o-2024-11-20"
	// validationModel is a widely available, low-cost model used only for
	// credential checks.
	validationModel = "gpt-4o-mini"
)

var pricing = provider.Pricing{InputPerMillion: 2.50, OutputPerMillion: 10.0}

func init() {
	provider.Register("openai", func(cfg *config.Config) provider.Adapter {
		return New(cfg, defaultBaseURL)
	})
}

// Provider implements provider.Adapter for the OpenAI chat API.
type Provider struct {
	cfg     *config.Config
	baseURL string
	client  *http.Client

	credOnce sync.Once
	cred     config.Credential
	credOK   bool
}

// New creates an OpenAI provider against baseURL.
func New(cfg *config.Config, baseURL string) *Provider {
	return &Provider{
		cfg:     cfg,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues one completion against the chat-completions endpoint.
func (p *Provider) Complete(ctx context.Context, prompt, system string, maxOutputTokens int) (string, error) {
	cred, ok := p.Credential()
	if !ok {
		return "", errdefs.New(errdefs.KindConfiguration,
			"OpenAI API key not configured",
			"set OPENAI_API_KEY or run 'codesensei configure' (get a key at https://platform.openai.com/api-keys)")
	}
	return p.complete(ctx, cred.Value, model, prompt, system, maxOutputTokens)
}

func (p *Provider) complete(ctx context.Context, apiKey, model, prompt, system string, maxOutputTokens int) (string, error) {
	messages := make([]apiMessage, 0, 2)
	if system != "" {
		messages = append(messages, apiMessage{Role: "system", Content: system})
	}
	messages = append(messages, apiMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(apiRequest{
		Model:     model,
		MaxTokens: maxOutputTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("building request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", provider.ClassifyTransportError("OpenAI", p.baseURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", provider.ClassifyStatus("OpenAI", resp.StatusCode, respBody)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Credential resolves the API key: config entry, then OPENAI_API_KEY.
// Resolved once and cached.
func (p *Provider) Credential() (config.Credential, bool) {
	p.credOnce.Do(func() {
		p.cred, p.credOK = p.cfg.ResolveCredential("openai", "OPENAI_API_KEY")
	})
	return p.cred, p.credOK
}

// ValidateCredential issues a minimal request against the cheap
// validation model. A rate limit means the key itself is fine.
func (p *Provider) ValidateCredential(ctx context.Context, credential string) (bool, string) {
	if credential == "" {
		if cred, ok := p.Credential(); ok {
			credential = cred.Value
		} else {
			return false, "No API key found. Set OPENAI_API_KEY or run 'codesensei configure'."
		}
	}

	_, err := p.complete(ctx, credential, validationModel, "Hi", "", 10)
	switch {
	case err == nil:
		return true, "API key is valid"
	case errdefs.IsRateLimit(err):
		return true, "API key is valid (rate limited)"
	case errdefs.IsAuthentication(err):
		return false, "Invalid API key. Please check your key and try again."
	case errdefs.IsConnection(err):
		return false, "Could not connect to the OpenAI API. Check your internet connection."
	default:
		return false, "Error validating API key: " + err.Error()
	}
}

func (p *Provider) EstimateCost(inputTokens, outputTokens int) float64 {
	return pricing.Cost(inputTokens, outputTokens)
}

func (p *Provider) CountTokens(text string) int { return provider.CountTokens(text) }

func (p *Provider) CredentialEnvVar() string { return "OPENAI_API_KEY" }

func (p *Provider) CredentialPortalURL() string { return "https://platform.openai.com/api-keys" }

func (p *Provider) DisplayName() string { return "OpenAI" }

func (p *Provider) ModelName() string { return model }
