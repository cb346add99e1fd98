package console

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mayeuticsapp/parley/internal/api"
)

// fetchTimeout bounds collection fetches and CRUD calls. Auto-continue is
// exempt: the backend generates every requested turn inside that one call.
const fetchTimeout = 30 * time.Second

func loadProviders(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		providers, err := c.ListProviders(ctx)
		return providersLoadedMsg{providers: providers, err: err}
	}
}

func loadPersonalities(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		personalities, err := c.ListPersonalities(ctx)
		return personalitiesLoadedMsg{personalities: personalities, err: err}
	}
}

func loadConversations(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		conversations, err := c.ListConversations(ctx)
		return conversationsLoadedMsg{conversations: conversations, err: err}
	}
}

func loadBundle(c *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		bundle, err := c.GetConversation(ctx, id)
		return bundleLoadedMsg{id: id, bundle: bundle, err: err}
	}
}

func createConversation(c *api.Client, input api.ConversationInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		conversation, err := c.CreateConversation(ctx, input)
		return conversationCreatedMsg{conversation: conversation, err: err}
	}
}

func deleteConversation(c *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := c.DeleteConversation(ctx, id)
		return conversationDeletedMsg{id: id, err: err}
	}
}

func sendMessage(c *api.Client, conversationID int, input api.MessageInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := c.SendMessage(ctx, conversationID, input)
		return messageSentMsg{conversationID: conversationID, err: err}
	}
}

// autoContinue runs without a client-side deadline; the HTTP client timeout
// is the only bound on this blocking round-trip.
func autoContinue(c *api.Client, conversationID, rounds int) tea.Cmd {
	return func() tea.Msg {
		err := c.AutoContinue(context.Background(), conversationID, rounds)
		return autoContinuedMsg{conversationID: conversationID, err: err}
	}
}

func saveProvider(c *api.Client, id int, input api.ProviderInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		var err error
		if id == 0 {
			_, err = c.CreateProvider(ctx, input)
		} else {
			_, err = c.UpdateProvider(ctx, id, input)
		}
		return providerSavedMsg{err: err}
	}
}

func deleteProvider(c *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := c.DeleteProvider(ctx, id)
		return providerDeletedMsg{id: id, err: err}
	}
}

func testProvider(c *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		response, err := c.TestProvider(ctx, id)
		return providerTestedMsg{id: id, response: response, err: err}
	}
}

func savePersonality(c *api.Client, id int, input api.PersonalityInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		var err error
		if id == 0 {
			_, err = c.CreatePersonality(ctx, input)
		} else {
			_, err = c.UpdatePersonality(ctx, id, input)
		}
		return personalitySavedMsg{err: err}
	}
}

func createFromTemplate(c *api.Client, input api.FromTemplateInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		_, err := c.CreateFromTemplate(ctx, input)
		return personalitySavedMsg{err: err}
	}
}

func deletePersonality(c *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := c.DeletePersonality(ctx, id)
		return personalityDeletedMsg{id: id, err: err}
	}
}

func loadTemplates(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		templates, err := c.ListTemplates(ctx)
		return templatesLoadedMsg{templates: templates, err: err}
	}
}
