package console

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mayeuticsapp/parley/internal/api"
)

// selectConversationMsg asks the shell to open a conversation. Selection is
// owned by the shell, never by this pane.
type selectConversationMsg struct {
	id int
}

func selectConversation(id int) tea.Cmd {
	return func() tea.Msg {
		return selectConversationMsg{id: id}
	}
}

// convList is the conversations list pane: navigation, selection requests,
// and deletion with a confirmation prompt.
type convList struct {
	client *api.Client
	logger *slog.Logger
	theme  Theme

	conversations []api.Conversation
	cursor        int
	selectedID    int // mirrored from the shell for rendering

	confirmingID int // conversation awaiting delete confirmation
	deletingID   int

	width  int
	height int
}

func newConvList(client *api.Client, logger *slog.Logger, theme Theme) convList {
	return convList{client: client, logger: logger, theme: theme}
}

func (l *convList) setConversations(conversations []api.Conversation) {
	l.conversations = conversations
	if l.cursor >= len(conversations) {
		l.cursor = 0
	}
}

func (l *convList) setSelected(id int) {
	l.selectedID = id
}

func (l *convList) setSize(width, height int) {
	l.width = width
	l.height = height
}

func (l convList) update(msg tea.Msg) (convList, tea.Cmd) {
	switch msg := msg.(type) {
	case conversationDeletedMsg:
		l.deletingID = 0
		return l, nil

	case tea.KeyPressMsg:
		return l.handleKey(msg)
	}
	return l, nil
}

func (l convList) handleKey(msg tea.KeyPressMsg) (convList, tea.Cmd) {
	// A pending confirmation captures y/n before anything else.
	if l.confirmingID != 0 {
		switch msg.String() {
		case "y", "Y":
			id := l.confirmingID
			l.confirmingID = 0
			l.deletingID = id
			return l, deleteConversation(l.client, id)
		default:
			l.confirmingID = 0
			return l, nil
		}
	}

	switch msg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.conversations)-1 {
			l.cursor++
		}
	case "enter":
		if l.cursor < len(l.conversations) {
			return l, selectConversation(l.conversations[l.cursor].ID)
		}
	case "d":
		if l.cursor < len(l.conversations) {
			l.confirmingID = l.conversations[l.cursor].ID
		}
	case "r":
		return l, loadConversations(l.client)
	}
	return l, nil
}

func (l convList) view() string {
	var b strings.Builder

	header := fmt.Sprintf("Conversazioni (%d)", len(l.conversations))
	b.WriteString(l.theme.titleStyle().Render(header) + "\n\n")

	if len(l.conversations) == 0 {
		b.WriteString(l.theme.hintStyle().Render("Nessuna conversazione ancora.\nCrea una nuova conversazione per iniziare."))
		return b.String()
	}

	now := time.Now()
	for i, c := range l.conversations {
		b.WriteString(l.renderRow(c, i == l.cursor, now))
		b.WriteString("\n")
	}

	if l.confirmingID != 0 {
		b.WriteString("\n" + l.theme.warningStyle().Render("Eliminare questa conversazione? (y/n)"))
	}

	b.WriteString("\n" + l.theme.hintStyle().Render("apri: enter · elimina: d · ricarica: r"))
	return b.String()
}

func (l convList) renderRow(c api.Conversation, underCursor bool, now time.Time) string {
	marker := "  "
	if underCursor {
		marker = l.theme.selectedStyle().Render("> ")
	}

	title := c.Title
	if c.ID == l.selectedID {
		title = l.theme.selectedStyle().Render(title)
	}
	if c.ID == l.deletingID {
		title = l.theme.hintStyle().Render(title + " (eliminazione...)")
	}

	status := l.theme.statusStyle(c.Status)(StatusLabel(c.Status))
	meta := l.theme.hintStyle().Render(fmt.Sprintf(
		"%d partecipanti · %d messaggi · %s",
		len(c.Participants), c.MessageCount, FormatDay(c.UpdatedAt, now),
	))

	row := fmt.Sprintf("%s%s  %s\n    %s", marker, title, status, meta)
	if c.Topic != "" {
		row += "\n    " + l.theme.hintStyle().Render(c.Topic)
	}
	return row
}
