package api

import (
	"context"
	"fmt"
	"net/http"
)

// ProviderInput is the payload for creating or updating a provider.
type ProviderInput struct {
	Name         string  `json:"name"`
	APIType      APIType `json:"api_type"`
	APIBaseURL   string  `json:"api_base_url,omitempty"`
	APIKey       string  `json:"api_key,omitempty"`
	DefaultModel string  `json:"default_model"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`
}

// Validate enforces the bounds the provider form guarantees before submit.
func (in ProviderInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	switch in.APIType {
	case APITypeOpenAI, APITypeAnthropic, APITypeGoogle:
	default:
		return fmt.Errorf("unknown api_type: %q", in.APIType)
	}
	if in.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", in.MaxTokens)
	}
	if in.Temperature < 0 || in.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0.0, 2.0], got %g", in.Temperature)
	}
	return nil
}

// ListProviders returns every configured provider. List responses never
// carry the api_key in plaintext.
func (c *Client) ListProviders(ctx context.Context) ([]Provider, error) {
	var result struct {
		Providers []Provider `json:"providers"`
	}
	if err := c.do(ctx, http.MethodGet, "/providers", nil, &result); err != nil {
		return nil, err
	}
	return result.Providers, nil
}

// CreateProvider registers a new provider.
func (c *Client) CreateProvider(ctx context.Context, input ProviderInput) (*Provider, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var result struct {
		Provider Provider `json:"provider"`
	}
	if err := c.do(ctx, http.MethodPost, "/providers", input, &result); err != nil {
		return nil, err
	}
	return &result.Provider, nil
}

// UpdateProvider overwrites an existing provider's settings. An empty
// APIKey leaves the stored key untouched server-side.
func (c *Client) UpdateProvider(ctx context.Context, id int, input ProviderInput) (*Provider, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var result struct {
		Provider Provider `json:"provider"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/providers/%d", id), input, &result); err != nil {
		return nil, err
	}
	return &result.Provider, nil
}

// DeleteProvider removes a provider. Referential rules are enforced
// server-side; deletion is irreversible from the client's view.
func (c *Client) DeleteProvider(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/providers/%d", id), nil, nil)
}

// TestProvider triggers a live connectivity test against the provider's
// upstream API and returns the model's reply.
func (c *Client) TestProvider(ctx context.Context, id int) (string, error) {
	var result struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/providers/%d/test", id), nil, &result); err != nil {
		return "", err
	}
	return result.Response, nil
}
