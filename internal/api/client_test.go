package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayeuticsapp/parley/internal/api"
)

// newTestClient spins up a stub backend and a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL + "/api")
}

func TestListProviders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/providers", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"providers": [
				{"id": 1, "name": "OpenAI GPT-4", "api_type": "openai",
				 "default_model": "gpt-4", "max_tokens": 1000,
				 "temperature": 0.7, "is_active": true, "personalities_count": 2}
			]
		}`))
	})

	providers, err := client.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "OpenAI GPT-4", providers[0].Name)
	assert.Equal(t, api.APITypeOpenAI, providers[0].APIType)
	assert.Equal(t, 2, providers[0].PersonalitiesCount)
	assert.Empty(t, providers[0].APIKey, "list responses must not expose the api key")
}

func TestProviderRoundTrip(t *testing.T) {
	// Everything the form submits must come back unchanged from a list
	// fetch except api_key, which the backend strips.
	input := api.ProviderInput{
		Name:         "Anthropic Claude",
		APIType:      api.APITypeAnthropic,
		APIBaseURL:   "https://api.anthropic.com",
		APIKey:       "sk-ant-secret",
		DefaultModel: "claude-3-sonnet-20240229",
		MaxTokens:    2000,
		Temperature:  1.2,
	}

	var stored api.Provider
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var in api.ProviderInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, input, in)
			stored = api.Provider{
				ID:           7,
				Name:         in.Name,
				APIType:      in.APIType,
				APIBaseURL:   in.APIBaseURL,
				DefaultModel: in.DefaultModel,
				MaxTokens:    in.MaxTokens,
				Temperature:  in.Temperature,
				IsActive:     true,
			}
			json.NewEncoder(w).Encode(map[string]any{"success": true, "provider": stored})
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"success": true, "providers": []api.Provider{stored}})
		}
	})

	ctx := context.Background()
	created, err := client.CreateProvider(ctx, input)
	require.NoError(t, err)

	listed, err := client.ListProviders(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	assert.Equal(t, *created, listed[0])
	assert.Equal(t, input.Name, listed[0].Name)
	assert.Equal(t, input.APIType, listed[0].APIType)
	assert.Equal(t, input.APIBaseURL, listed[0].APIBaseURL)
	assert.Equal(t, input.DefaultModel, listed[0].DefaultModel)
	assert.Equal(t, input.MaxTokens, listed[0].MaxTokens)
	assert.Equal(t, input.Temperature, listed[0].Temperature)
	assert.Empty(t, listed[0].APIKey)
}

func TestEnvelopeFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "provider has personalities attached"}`))
	})

	err := client.DeleteProvider(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider has personalities attached")
}

func TestEnvelopeLegacyMessageField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "not found"}`))
	})

	_, err := client.ListConversations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	})

	_, err := client.ListPersonalities(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestCreateConversationValidation(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	ctx := context.Background()

	_, err := client.CreateConversation(ctx, api.ConversationInput{
		Title:        "Discussione su TouristIQ",
		Participants: []int{1},
	})
	require.Error(t, err, "fewer than 2 participants must be rejected")

	_, err = client.CreateConversation(ctx, api.ConversationInput{
		Title:        "   ",
		Participants: []int{1, 2},
	})
	require.Error(t, err, "blank title must be rejected")

	assert.False(t, called, "invalid input must never reach the wire")
}

func TestSendMessageValidation(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	ctx := context.Background()

	err := client.SendMessage(ctx, 1, api.MessageInput{SenderType: api.SenderUser, Content: "  \t "})
	require.Error(t, err, "whitespace-only user message must be rejected")

	err = client.SendMessage(ctx, 1, api.MessageInput{SenderType: api.SenderAI, Content: "continua"})
	require.Error(t, err, "ai message without personality must be rejected")

	assert.False(t, called)
}

func TestAutoContinueClampsRounds(t *testing.T) {
	var got struct {
		Rounds int `json:"rounds"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success": true}`))
	})

	ctx := context.Background()

	require.NoError(t, client.AutoContinue(ctx, 1, 25))
	assert.Equal(t, 10, got.Rounds)

	require.NoError(t, client.AutoContinue(ctx, 1, 0))
	assert.Equal(t, 1, got.Rounds)

	require.NoError(t, client.AutoContinue(ctx, 1, 3))
	assert.Equal(t, 3, got.Rounds)
}

func TestGetConversationBundle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/conversations/42", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"conversation": {
				"id": 42, "title": "Dibattito", "status": "active",
				"participants": "[1,2]", "message_count": 2,
				"created_at": "2026-08-01T10:00:00Z",
				"updated_at": "2026-08-02T11:30:00Z"
			},
			"participants": [
				{"id": 1, "name": "geppo", "display_name": "Geppo",
				 "system_prompt": "Sei Geppo.", "color_theme": "#3B82F6",
				 "provider_id": 1, "is_active": true},
				{"id": 2, "name": "manus", "display_name": "Manus",
				 "system_prompt": "Sei Manus.", "color_theme": "#10B981",
				 "provider_id": 1, "is_active": true}
			],
			"messages": [
				{"id": 10, "conversation_id": 42, "sender_type": "user",
				 "content": "Iniziamo", "created_at": "2026-08-01T10:01:00Z"},
				{"id": 11, "conversation_id": 42, "sender_type": "ai",
				 "personality_id": 1, "content": "Va bene.",
				 "created_at": "2026-08-01T10:02:00Z",
				 "metadata": {"model": "gpt-4", "usage": {"total_tokens": 118}}}
			]
		}`))
	})

	bundle, err := client.GetConversation(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "Dibattito", bundle.Conversation.Title)
	assert.Equal(t, api.StatusActive, bundle.Conversation.Status)
	assert.Equal(t, []int{1, 2}, []int(bundle.Conversation.Participants))
	require.Len(t, bundle.Participants, 2)
	require.Len(t, bundle.Messages, 2)

	assert.Equal(t, api.SenderUser, bundle.Messages[0].SenderType)
	assert.Nil(t, bundle.Messages[0].PersonalityID)

	require.NotNil(t, bundle.Messages[1].PersonalityID)
	assert.Equal(t, 1, *bundle.Messages[1].PersonalityID)
	require.NotNil(t, bundle.Messages[1].Metadata)
	assert.Equal(t, "gpt-4", bundle.Messages[1].Metadata.Model)
	assert.Equal(t, 118, bundle.Messages[1].Metadata.Usage.TotalTokens)
}

func TestTemplateCatalog(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/personality-templates", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"templates": {
				"filosofo": {"name": "filosofo", "display_name": "Filosofo",
				 "description": "Riflessivo e socratico", "color_theme": "#8B5CF6"}
			}
		}`))
	})

	templates, err := client.ListTemplates(context.Background())
	require.NoError(t, err)
	require.Contains(t, templates, "filosofo")
	assert.Equal(t, "Filosofo", templates["filosofo"].DisplayName)
}
