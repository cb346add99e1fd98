package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// APIType identifies the upstream AI service a provider connects to.
type APIType string

const (
	APITypeOpenAI    APIType = "openai"
	APITypeAnthropic APIType = "anthropic"
	APITypeGoogle    APIType = "google"
)

// UnmarshalJSON rejects unknown api_type values at the HTTP boundary.
func (t *APIType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch APIType(s) {
	case APITypeOpenAI, APITypeAnthropic, APITypeGoogle:
		*t = APIType(s)
		return nil
	}
	return fmt.Errorf("unknown api_type: %q", s)
}

// SenderType distinguishes human messages from AI-generated ones.
type SenderType string

const (
	SenderUser SenderType = "user"
	SenderAI   SenderType = "ai"
)

// UnmarshalJSON rejects unknown sender_type values.
func (t *SenderType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch SenderType(s) {
	case SenderUser, SenderAI:
		*t = SenderType(s)
		return nil
	}
	return fmt.Errorf("unknown sender_type: %q", s)
}

// ConversationStatus is the lifecycle state of a conversation.
type ConversationStatus string

const (
	StatusActive    ConversationStatus = "active"
	StatusPaused    ConversationStatus = "paused"
	StatusCompleted ConversationStatus = "completed"
)

// UnmarshalJSON rejects unknown status values.
func (s *ConversationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch ConversationStatus(str) {
	case StatusActive, StatusPaused, StatusCompleted:
		*s = ConversationStatus(str)
		return nil
	}
	return fmt.Errorf("unknown conversation status: %q", str)
}

// Provider is a configured connection to an external AI completion service.
// APIKey is write-only: it is sent on create/update and the server omits or
// masks it in list responses, so it must never be redisplayed from one.
type Provider struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	APIType            APIType `json:"api_type"`
	APIBaseURL         string  `json:"api_base_url,omitempty"`
	APIKey             string  `json:"api_key,omitempty"`
	DefaultModel       string  `json:"default_model"`
	MaxTokens          int     `json:"max_tokens"`
	Temperature        float64 `json:"temperature"`
	IsActive           bool    `json:"is_active"`
	PersonalitiesCount int     `json:"personalities_count"`
}

// Personality is a named system prompt bound to a provider, usable as a
// conversation participant.
type Personality struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description,omitempty"`
	SystemPrompt string `json:"system_prompt"`
	ColorTheme   string `json:"color_theme"`
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name,omitempty"`
	IsActive     bool   `json:"is_active"`
}

// Template is a read-only, server-defined starting point for a personality.
type Template struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	ColorTheme  string `json:"color_theme"`
}

// ParticipantIDs is the personality-id roster of a conversation. The backend
// historically serialized it as a JSON string inside the JSON payload, so the
// decoder accepts both a bare array and a string-encoded one.
type ParticipantIDs []int

// UnmarshalJSON decodes either `[1,2]` or `"[1,2]"`.
func (p *ParticipantIDs) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err == nil {
		*p = ids
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("participants: expected array or string, got %s", data)
	}
	if s == "" {
		*p = nil
		return nil
	}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return fmt.Errorf("participants: decode serialized array: %w", err)
	}
	*p = ids
	return nil
}

// Conversation is a multi-party chat session summary.
type Conversation struct {
	ID           int                `json:"id"`
	Title        string             `json:"title"`
	Topic        string             `json:"topic,omitempty"`
	Status       ConversationStatus `json:"status"`
	Participants ParticipantIDs     `json:"participants"`
	MessageCount int                `json:"message_count"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// MessageUsage carries token accounting attached by the backend.
type MessageUsage struct {
	TotalTokens int `json:"total_tokens"`
}

// MessageMetadata is optional generation metadata on AI messages.
type MessageMetadata struct {
	Model string        `json:"model,omitempty"`
	Usage *MessageUsage `json:"usage,omitempty"`
}

// Message is a single transcript entry. PersonalityID is set iff the sender
// is an AI participant.
type Message struct {
	ID             int              `json:"id"`
	ConversationID int              `json:"conversation_id"`
	SenderType     SenderType       `json:"sender_type"`
	PersonalityID  *int             `json:"personality_id,omitempty"`
	Content        string           `json:"content"`
	CreatedAt      time.Time        `json:"created_at"`
	Metadata       *MessageMetadata `json:"metadata,omitempty"`
}

// ConversationBundle is the full fetch result for one conversation.
type ConversationBundle struct {
	Conversation Conversation  `json:"conversation"`
	Participants []Personality `json:"participants"`
	Messages     []Message     `json:"messages"`
}
