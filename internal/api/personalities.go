package api

import (
	"context"
	"fmt"
	"net/http"
)

// PersonalityInput is the payload for creating or updating a personality.
type PersonalityInput struct {
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description,omitempty"`
	SystemPrompt string `json:"system_prompt"`
	ColorTheme   string `json:"color_theme"`
	ProviderID   int    `json:"provider_id"`
}

// Validate enforces what the personality form guarantees before submit.
// The provider must be chosen here; that it is active is only guaranteed
// at creation time, not after later provider deactivation.
func (in PersonalityInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("personality name is required")
	}
	if in.DisplayName == "" {
		return fmt.Errorf("display name is required")
	}
	if in.SystemPrompt == "" {
		return fmt.Errorf("system prompt is required")
	}
	if in.ProviderID == 0 {
		return fmt.Errorf("a provider must be selected")
	}
	return nil
}

// FromTemplateInput instantiates a personality from the server-side catalog.
type FromTemplateInput struct {
	TemplateName string `json:"template_name"`
	ProviderID   int    `json:"provider_id"`
	CustomName   string `json:"custom_name,omitempty"`
}

// ListPersonalities returns every personality.
func (c *Client) ListPersonalities(ctx context.Context) ([]Personality, error) {
	var result struct {
		Personalities []Personality `json:"personalities"`
	}
	if err := c.do(ctx, http.MethodGet, "/personalities", nil, &result); err != nil {
		return nil, err
	}
	return result.Personalities, nil
}

// CreatePersonality creates a personality bound to a provider.
func (c *Client) CreatePersonality(ctx context.Context, input PersonalityInput) (*Personality, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var result struct {
		Personality Personality `json:"personality"`
	}
	if err := c.do(ctx, http.MethodPost, "/personalities", input, &result); err != nil {
		return nil, err
	}
	return &result.Personality, nil
}

// CreateFromTemplate expands a catalog template into a new personality
// server-side. CustomName overrides the template's name when set.
func (c *Client) CreateFromTemplate(ctx context.Context, input FromTemplateInput) (*Personality, error) {
	if input.TemplateName == "" {
		return nil, fmt.Errorf("a template must be selected")
	}
	if input.ProviderID == 0 {
		return nil, fmt.Errorf("a provider must be selected")
	}
	var result struct {
		Personality Personality `json:"personality"`
	}
	if err := c.do(ctx, http.MethodPost, "/personalities/from-template", input, &result); err != nil {
		return nil, err
	}
	return &result.Personality, nil
}

// UpdatePersonality overwrites an existing personality.
func (c *Client) UpdatePersonality(ctx context.Context, id int, input PersonalityInput) (*Personality, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var result struct {
		Personality Personality `json:"personality"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/personalities/%d", id), input, &result); err != nil {
		return nil, err
	}
	return &result.Personality, nil
}

// DeletePersonality removes a personality.
func (c *Client) DeletePersonality(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/personalities/%d", id), nil, nil)
}

// ListTemplates fetches the read-only template catalog, keyed by template
// name.
func (c *Client) ListTemplates(ctx context.Context) (map[string]Template, error) {
	var result struct {
		Templates map[string]Template `json:"templates"`
	}
	if err := c.do(ctx, http.MethodGet, "/personality-templates", nil, &result); err != nil {
		return nil, err
	}
	return result.Templates, nil
}
