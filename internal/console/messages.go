package console

import (
	"github.com/mayeuticsapp/parley/internal/api"
)

// requestState is the lifecycle of one view's outstanding fetch.
type requestState int

const (
	stateIdle requestState = iota
	stateLoading
	stateReady
	stateFailed
)

// Messages produced by background commands. The shell routes each to the
// pane that owns the affected collection; only the shell mutates shared
// collections.

type providersLoadedMsg struct {
	providers []api.Provider
	err       error
}

type personalitiesLoadedMsg struct {
	personalities []api.Personality
	err           error
}

type conversationsLoadedMsg struct {
	conversations []api.Conversation
	err           error
}

type conversationCreatedMsg struct {
	conversation *api.Conversation
	err          error
}

type conversationDeletedMsg struct {
	id  int
	err error
}

type bundleLoadedMsg struct {
	id     int
	bundle *api.ConversationBundle
	err    error
}

type messageSentMsg struct {
	conversationID int
	err            error
}

type autoContinuedMsg struct {
	conversationID int
	err            error
}

type providerSavedMsg struct {
	err error
}

type providerDeletedMsg struct {
	id  int
	err error
}

type providerTestedMsg struct {
	id       int
	response string
	err      error
}

type personalitySavedMsg struct {
	err error
}

type personalityDeletedMsg struct {
	id  int
	err error
}

type templatesLoadedMsg struct {
	templates map[string]api.Template
	err       error
}
