// Package anthropic implements the Anthropic Claude backend.
package anthropic

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
	defaultBaseURL = "https://api.anthropic.com"
	model          = "claude-sonnet-4-20250514"
	// validationModel is a cheaper model used only for credential checks.
	validationModel = "claude-3-haiku-20240307"
)

var pricing = provider.Pricing{InputPerMillion: 3.0, OutputPerMillion: 15.0}

func init() {
	provider.Register("anthropic", func(cfg *config.Config) provider.Adapter {
		return New(cfg, defaultBaseURL)
	})
}

// Provider implements provider.Adapter for the Anthropic messages API.
type Provider struct {
	cfg     *config.Config
	baseURL string
	client  *http.Client

	credOnce sync.Once
	cred     config.Credential
	credOK   bool
}

// New creates an Anthropic provider against baseURL.
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
	System    string       `json:"system,omitempty"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Complete issues one completion against the messages endpoint.
func (p *Provider) Complete(ctx context.Context, prompt, system string, maxOutputTokens int) (string, error) {
	cred, ok := p.Credential()
	if !ok {
		return "", errdefs.New(errdefs.KindConfiguration,
			"Anthropic API key not configured",
			"set ANTHROPIC_API_KEY or run 'codesensei configure' (get a key at https://console.anthropic.com)")
	}
	return p.complete(ctx, cred.Value, model, prompt, system, maxOutputTokens)
}

func (p *Provider) complete(ctx context.Context, apiKey, model, prompt, system string, maxOutputTokens int) (string, error) {
	body, err := json.Marshal(apiRequest{
		Model:     model,
		MaxTokens: maxOutputTokens,
		System:    system,
		Messages:  []apiMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("building request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", provider.ClassifyTransportError("Anthropic", p.baseURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", provider.ClassifyStatus("Anthropic", resp.StatusCode, respBody)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}
	return parsed.Content[0].Text, nil
}

// Credential resolves the API key: config entry, then CLAUDE_API_KEY,
// then ANTHROPIC_API_KEY. Resolved once and cached.
func (p *Provider) Credential() (config.Credential, bool) {
	p.credOnce.Do(func() {
		p.cred, p.credOK = p.cfg.ResolveCredential("anthropic", "CLAUDE_API_KEY", "ANTHROPIC_API_KEY")
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
			return false, "No API key found. Set ANTHROPIC_API_KEY or run 'codesensei configure'."
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
		return false, "Could not connect to the Anthropic API. Check your internet connection."
	default:
		return false, "Error validating API key: " + err.Error()
	}
}

func (p *Provider) EstimateCost(inputTokens, outputTokens int) float64 {
	return pricing.Cost(inputTokens, outputTokens)
}

func (p *Provider) CountTokens(text string) int { return provider.CountTokens(text) }

func (p *Provider) CredentialEnvVar() string { return "ANTHROPIC_API_KEY" }

func (p *Provider) CredentialPortalURL() string { return "https://console.anthropic.com" }

func (p *Provider) DisplayName() string { return "Anthropic" }

func (p *Provider) ModelName() string { return model }
