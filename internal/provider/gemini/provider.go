// Package gemini implements the Google Gemini backend.
package gemini

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
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	model          = "gemini-2.0-flash-exp"
)

var pricing = provider.Pricing{InputPerMillion: 0.075, OutputPerMillion: 0.30}

func init() {
	provider.Register("google", func(cfg *config.Config) provider.Adapter {
		return New(cfg, defaultBaseURL)
	})
}

// Provider implements provider.Adapter for the Gemini generateContent API.
type Provider struct {
	cfg     *config.Config
	baseURL string
	client  *http.Client

	credOnce sync.Once
	cred     config.Credential
	credOK   bool
}

// New creates a Gemini provider against baseURL.
func New(cfg *config.Config, baseURL string) *Provider {
	return &Provider{
		cfg:     cfg,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type apiPart struct {
	Text string `json:"text"`
}

type apiContent struct {
	Parts []apiPart `json:"parts"`
}

type apiRequest struct {
	SystemInstruction *apiContent  `json:"system_instruction,omitempty"`
	Contents          []apiContent `json:"contents"`
	GenerationConfig  struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type apiResponse struct {
	Candidates []struct {
		Content apiContent `json:"content"`
	} `json:"candidates"`
}

// Complete issues one completion against the generateContent endpoint.
func (p *Provider) Complete(ctx context.Context, prompt, system string, maxOutputTokens int) (string, error) {
	cred, ok := p.Credential()
	if !ok {
		return "", errdefs.New(errdefs.KindConfiguration,
			"Google API key not configured",
			"set GOOGLE_API_KEY or run 'codesensei configure' (get a key at https://aistudio.google.com/app/apikey)")
	}
	return p.complete(ctx, cred.Value, prompt, system, maxOutputTokens)
}

func (p *Provider) complete(ctx context.Context, apiKey, prompt, system string, maxOutputTokens int) (string, error) {
	req := apiRequest{
		Contents: []apiContent{{Parts: []apiPart{{Text: prompt}}}},
	}
	if system != "" {
		req.SystemInstruction = &apiContent{Parts: []apiPart{{Text: system}}}
	}
	req.GenerationConfig.MaxOutputTokens = maxOutputTokens

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("building request body: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", provider.ClassifyTransportError("Google", p.baseURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", provider.ClassifyStatus("Google", resp.StatusCode, respBody)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Google")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// Credential resolves the API key: config entry, then GOOGLE_API_KEY,
// then GEMINI_API_KEY. Resolved once and cached.
func (p *Provider) Credential() (config.Credential, bool) {
	p.credOnce.Do(func() {
		p.cred, p.credOK = p.cfg.ResolveCredential("google", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	})
	return p.cred, p.credOK
}

// ValidateCredential issues a minimal request. A rate limit means the key
// itself is fine.
func (p *Provider) ValidateCredential(ctx context.Context, credential string) (bool, string) {
	if credential == "" {
		if cred, ok := p.Credential(); ok {
			credential = cred.Value
		} else {
			return false, "No API key found. Set GOOGLE_API_KEY or run 'codesensei configure'."
		}
	}

	_, err := p.complete(ctx, credential, "Hi", "", 10)
	switch {
	case err == nil:
		return true, "API key is valid"
	case errdefs.IsRateLimit(err):
		return true, "API key is valid (rate limited)"
	case errdefs.IsAuthentication(err):
		return false, "Invalid API key. Please check your key and try again."
	case errdefs.IsConnection(err):
		return false, "Could not connect to the Google API. Check your internet connection."
	default:
		return false, "Error validating API key: " + err.Error()
	}
}

func (p *Provider) EstimateCost(inputTokens, outputTokens int) float64 {
	return pricing.Cost(inputTokens, outputTokens)
}

func (p *Provider) CountTokens(text string) int { return provider.CountTokens(text) }

func (p *Provider) CredentialEnvVar() string { return "GOOGLE_API_KEY" }

func (p *Provider) CredentialPortalURL() string { return "https://aistudio.google.com/app/apikey" }

func (p *Provider) DisplayName() string { return "Google" }

func (p *Provider) ModelName() string { return model }
