package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// MinAutoRounds and MaxAutoRounds bound a single auto-continue request.
const (
	MinAutoRounds = 1
	MaxAutoRounds = 10
)

// ClampRounds forces a round count into [MinAutoRounds, MaxAutoRounds].
func ClampRounds(n int) int {
	if n < MinAutoRounds {
		return MinAutoRounds
	}
	if n > MaxAutoRounds {
		return MaxAutoRounds
	}
	return n
}

// ConversationInput is the payload for creating a conversation.
type ConversationInput struct {
	Title        string `json:"title"`
	Topic        string `json:"topic,omitempty"`
	Participants []int  `json:"participants"`
}

// MessageInput appends one message to a conversation. PersonalityID is
// required iff SenderType is ai: the backend generates that participant's
// reply using Content as the continuation instruction.
type MessageInput struct {
	SenderType    SenderType `json:"sender_type"`
	PersonalityID *int       `json:"personality_id,omitempty"`
	Content       string     `json:"content"`
}

// ListConversations returns all conversation summaries, in server order.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var result struct {
		Conversations []Conversation `json:"conversations"`
	}
	if err := c.do(ctx, http.MethodGet, "/conversations", nil, &result); err != nil {
		return nil, err
	}
	return result.Conversations, nil
}

// CreateConversation starts a conversation among at least two personalities.
func (c *Client) CreateConversation(ctx context.Context, input ConversationInput) (*Conversation, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("conversation title is required")
	}
	if len(input.Participants) < 2 {
		return nil, fmt.Errorf("a conversation needs at least 2 participants, got %d", len(input.Participants))
	}
	var result struct {
		Conversation Conversation `json:"conversation"`
	}
	if err := c.do(ctx, http.MethodPost, "/conversations", input, &result); err != nil {
		return nil, err
	}
	return &result.Conversation, nil
}

// GetConversation fetches one conversation's metadata, participant roster
// and message transcript as a single bundle.
func (c *Client) GetConversation(ctx context.Context, id int) (*ConversationBundle, error) {
	var bundle ConversationBundle
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/conversations/%d", id), nil, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/conversations/%d", id), nil, nil)
}

// SendMessage appends a message. User messages must carry non-blank content;
// AI messages must name the personality that should reply.
func (c *Client) SendMessage(ctx context.Context, conversationID int, input MessageInput) error {
	switch input.SenderType {
	case SenderUser:
		if strings.TrimSpace(input.Content) == "" {
			return fmt.Errorf("message content is empty")
		}
	case SenderAI:
		if input.PersonalityID == nil {
			return fmt.Errorf("an ai message needs a personality_id")
		}
	default:
		return fmt.Errorf("unknown sender_type: %q", input.SenderType)
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/conversations/%d/messages", conversationID), input, nil)
}

// AutoContinue asks the backend to advance the conversation by up to rounds
// turns, the server choosing who speaks each turn. The count is clamped to
// [1,10] before sending. This is one blocking round-trip: intermediate turns
// are not visible until the call returns, so callers reload the bundle once
// afterwards. Cancel via ctx.
func (c *Client) AutoContinue(ctx context.Context, conversationID, rounds int) error {
	payload := struct {
		Rounds int `json:"rounds"`
	}{Rounds: ClampRounds(rounds)}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/conversations/%d/auto-continue", conversationID), payload, nil)
}
