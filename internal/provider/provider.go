// Package provider abstracts the LLM backends behind one capability
// surface: issue a completion, validate a credential, estimate cost,
// count tokens. Concrete backends register themselves by name; callers
// select one at runtime through the factory.
package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"codesensei/internal/config"
	"codesensei/internal/errdefs"
	"codesensei/internal/tokenizer"
)

// Adapter is the uniform capability surface over a completion backend.
type Adapter interface {
	// Complete issues one text completion and returns the response text.
	// Fails with an authentication, rate-limit, bad-request, or connection
	// error from errdefs.
	Complete(ctx context.Context, prompt, system string, maxOutputTokens int) (string, error)

	// Credential resolves the backend's API key: config file first, then
	// the backend's environment variable chain. Memoized per adapter.
	Credential() (config.Credential, bool)

	// ValidateCredential issues a minimal real request against a cheap
	// model. A rate-limited response still counts as valid.
	ValidateCredential(ctx context.Context, credential string) (bool, string)

	// EstimateCost returns the USD price of a call at the backend's
	// per-million-token rates.
	EstimateCost(inputTokens, outputTokens int) float64

	// CountTokens estimates tokens in text. All backends share one
	// uniform approximation rather than their exact tokenizers.
	CountTokens(text string) int

	CredentialEnvVar() string
	CredentialPortalURL() string
	DisplayName() string
	ModelName() string
}

// Constructor builds an Adapter from the loaded configuration.
type Constructor func(cfg *config.Config) Adapter

var registry = map[string]Constructor{}

// Register makes a backend available under name. Called from backend
// package init functions.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// New builds the named backend, or a configuration error listing the
// valid names when it is unknown.
func New(name string, cfg *config.Config) (Adapter, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errdefs.New(errdefs.KindConfiguration,
			fmt.Sprintf("unknown provider %q", name),
			"valid providers: "+strings.Join(Names(), ", "))
	}
	return ctor(cfg), nil
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pricing holds a backend's per-million-token rates in USD.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Cost converts token counts to USD.
func (p Pricing) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1_000_000*p.InputPerMillion +
		float64(outputTokens)/1_000_000*p.OutputPerMillion
}

// CountTokens is the shared token approximation used by every backend.
func CountTokens(text string) int {
	return tokenizer.Count(text)
}
