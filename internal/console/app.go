package console

import (
	"fmt"
	"log/slog"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayeuticsapp/parley/internal/api"
)

type paneTab int

const (
	tabConversations paneTab = iota
	tabPersonalities
	tabProviders
	tabNewChat
)

var tabLabels = []string{"Conversazioni", "Personalità", "Provider", "Nuova Chat"}

const listWidth = 42

// Model is the console shell: a tabbed layout over the conversation list,
// the viewer, and the provider/personality managers. It owns the shared
// collections and routes messages to the pane that handles them; panes never
// mutate each other's state directly.
type Model struct {
	client *api.Client
	logger *slog.Logger
	theme  Theme

	activeTab   paneTab
	focusViewer bool
	width       int
	height      int
	errMsg      string

	providers     []api.Provider
	personalities []api.Personality

	list    convList
	viewer  viewer
	newConv newConvForm
	provs   providersPane
	pers    personalitiesPane

	selectedID int
}

// NewModel builds the shell. A non-zero conversationID opens that
// conversation on startup.
func NewModel(client *api.Client, logger *slog.Logger, conversationID int) Model {
	theme := defaultTheme
	list := newConvList(client, logger, theme)
	list.setSelected(conversationID)
	v := newViewer(client, logger, theme)
	m := Model{
		client:     client,
		logger:     logger,
		theme:      theme,
		list:       list,
		viewer:     v,
		newConv:    newNewConvForm(client, logger, theme),
		provs:      newProvidersPane(client, logger, theme),
		pers:       newPersonalitiesPane(client, logger, theme),
		selectedID: conversationID,
	}
	if conversationID != 0 {
		// Prime the viewer here so Init only has to emit the fetch; Init
		// runs on a copy and could not keep these mutations.
		m.viewer.open(conversationID)
		m.viewer.focus()
		m.focusViewer = true
	}
	return m
}

// Init fetches the three collections in parallel, plus the initial
// conversation when one was requested.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadConversations(m.client),
		loadPersonalities(m.client),
		loadProviders(m.client),
	}
	if m.selectedID != 0 {
		cmds = append(cmds, loadBundle(m.client, m.selectedID))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.setSize(listWidth, msg.Height-3)
		m.viewer.setSize(msg.Width-listWidth-1, msg.Height-3)
		return m, nil

	case providersLoadedMsg:
		if msg.err != nil {
			m.logger.Error("load providers failed", "error", msg.err)
			m.errMsg = "provider: " + msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.providers = msg.providers
		m.provs.setProviders(msg.providers)
		m.pers.setProviders(msg.providers)
		return m, nil

	case personalitiesLoadedMsg:
		if msg.err != nil {
			m.logger.Error("load personalities failed", "error", msg.err)
			m.errMsg = "personalità: " + msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.personalities = msg.personalities
		m.pers.setPersonalities(msg.personalities)
		m.newConv.setPersonalities(msg.personalities)
		m.viewer.setPersonalities(msg.personalities)
		return m, nil

	case conversationsLoadedMsg:
		if msg.err != nil {
			m.logger.Error("load conversations failed", "error", msg.err)
			m.errMsg = "conversazioni: " + msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.list.setConversations(msg.conversations)
		return m, nil

	case conversationCreatedMsg:
		var cmd tea.Cmd
		m.newConv, cmd = m.newConv.update(msg)
		if msg.err != nil || msg.conversation == nil {
			return m, cmd
		}
		// Jump straight into the new conversation.
		m.selectedID = msg.conversation.ID
		m.list.setSelected(m.selectedID)
		m.activeTab = tabConversations
		m.focusViewer = true
		return m, tea.Batch(cmd, loadConversations(m.client), m.viewer.open(m.selectedID), m.viewer.focus())

	case conversationDeletedMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.update(msg)
		if msg.err != nil {
			m.logger.Error("delete conversation failed", "id", msg.id, "error", msg.err)
			m.errMsg = "eliminazione: " + msg.err.Error()
			return m, cmd
		}
		cmd = tea.Batch(cmd, loadConversations(m.client))
		if msg.id == m.selectedID {
			m.selectedID = 0
			m.list.setSelected(0)
			m.focusViewer = false
			m.viewer.blur()
			v := newViewer(m.client, m.logger, m.theme)
			v.setPersonalities(m.personalities)
			v.setSize(m.width-listWidth-1, m.height-3)
			m.viewer = v
		}
		return m, cmd

	case selectConversationMsg:
		m.selectedID = msg.id
		m.list.setSelected(msg.id)
		m.focusViewer = true
		return m, tea.Batch(m.viewer.open(msg.id), m.viewer.focus())

	case bundleLoadedMsg, messageSentMsg, autoContinuedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.viewer, cmd = m.viewer.update(msg)
		return m, cmd

	case providerSavedMsg, providerDeletedMsg, providerTestedMsg:
		var cmd tea.Cmd
		m.provs, cmd = m.provs.update(msg)
		return m, cmd

	case personalitySavedMsg, personalityDeletedMsg, templatesLoadedMsg:
		var cmd tea.Cmd
		m.pers, cmd = m.pers.update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+t":
		m.activeTab = (m.activeTab + 1) % paneTab(len(tabLabels))
		return m, m.focusActive()
	}

	switch m.activeTab {
	case tabConversations:
		if msg.String() == "tab" {
			m.focusViewer = !m.focusViewer && m.selectedID != 0
			if m.focusViewer {
				return m, m.viewer.focus()
			}
			m.viewer.blur()
			return m, nil
		}
		if m.focusViewer {
			var cmd tea.Cmd
			m.viewer, cmd = m.viewer.update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.update(msg)
		return m, cmd

	case tabPersonalities:
		var cmd tea.Cmd
		m.pers, cmd = m.pers.update(msg)
		return m, cmd

	case tabProviders:
		var cmd tea.Cmd
		m.provs, cmd = m.provs.update(msg)
		return m, cmd

	case tabNewChat:
		var cmd tea.Cmd
		m.newConv, cmd = m.newConv.update(msg)
		return m, cmd
	}
	return m, nil
}

// focusActive moves input focus to the pane behind the active tab.
func (m *Model) focusActive() tea.Cmd {
	m.viewer.blur()
	switch m.activeTab {
	case tabConversations:
		if m.focusViewer && m.selectedID != 0 {
			return m.viewer.focus()
		}
	case tabNewChat:
		return m.newConv.focusForm()
	}
	return nil
}

func (m Model) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m Model) renderContent() string {
	header := m.renderTabs()
	if m.errMsg != "" {
		header += "  " + m.theme.errorStyle().Render("Errore: "+m.errMsg)
	}

	var body string
	switch m.activeTab {
	case tabConversations:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.list.view(), " ", m.viewer.view())
	case tabPersonalities:
		body = m.pers.view()
	case tabProviders:
		body = m.provs.view()
	case tabNewChat:
		body = m.newConv.view()
	}

	return fmt.Sprintf("%s\n\n%s", header, body)
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, label := range tabLabels {
		if paneTab(i) == m.activeTab {
			rendered = append(rendered, m.theme.activeTabStyle().Render(label))
		} else {
			rendered = append(rendered, m.theme.tabStyle().Render(label))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, "  "+rendered[0], " · "+rendered[1], " · "+rendered[2], " · "+rendered[3])
	return tabs + "  " + m.theme.hintStyle().Render("scheda: ctrl+t · esci: ctrl+c")
}

// Run starts the interactive console and blocks until it exits.
func Run(client *api.Client, logger *slog.Logger, conversationID int) error {
	model := NewModel(client, logger, conversationID)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}
