package console

import (
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/mayeuticsapp/parley/internal/api"
)

// Focus zones of the new-conversation form.
const (
	newConvFocusTitle = iota
	newConvFocusTopic
	newConvFocusParticipants
)

// newConvForm creates a conversation: a title, an optional topic, and at
// least two selected personalities.
type newConvForm struct {
	client *api.Client
	logger *slog.Logger
	theme  Theme

	title textinput.Model
	topic textarea.Model

	personalities []api.Personality
	selected      []int
	cursor        int

	focus    int
	creating bool
	errMsg   string
}

func newNewConvForm(client *api.Client, logger *slog.Logger, theme Theme) newConvForm {
	title := textinput.New()
	title.Placeholder = "es. Discussione su TouristIQ"

	topic := textarea.New()
	topic.Placeholder = "Descrivi l'argomento della conversazione..."
	topic.SetHeight(3)

	return newConvForm{
		client: client,
		logger: logger,
		theme:  theme,
		title:  title,
		topic:  topic,
	}
}

func (f *newConvForm) setPersonalities(personalities []api.Personality) {
	f.personalities = personalities
	if f.cursor >= len(personalities) {
		f.cursor = 0
	}
}

func (f *newConvForm) focusForm() tea.Cmd {
	f.focus = newConvFocusTitle
	f.topic.Blur()
	return f.title.Focus()
}

func (f *newConvForm) reset() {
	f.title.SetValue("")
	f.topic.SetValue("")
	f.selected = nil
	f.creating = false
	f.errMsg = ""
}

// canSubmit reports whether the form satisfies the creation invariant:
// non-blank title and at least two participants.
func (f newConvForm) canSubmit() bool {
	return strings.TrimSpace(f.title.Value()) != "" && len(f.selected) >= 2 && !f.creating
}

func (f newConvForm) update(msg tea.Msg) (newConvForm, tea.Cmd) {
	switch msg := msg.(type) {
	case conversationCreatedMsg:
		f.creating = false
		if msg.err != nil {
			f.logger.Error("create conversation failed", "error", msg.err)
			f.errMsg = msg.err.Error()
			return f, nil
		}
		f.reset()
		return f, nil

	case tea.KeyPressMsg:
		return f.handleKey(msg)
	}
	return f, nil
}

func (f newConvForm) handleKey(msg tea.KeyPressMsg) (newConvForm, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return f.cycleFocus(1)
	case "shift+tab":
		return f.cycleFocus(-1)
	case "ctrl+s":
		return f.submit()
	}

	switch f.focus {
	case newConvFocusTitle:
		if msg.String() == "enter" {
			return f.cycleFocus(1)
		}
		var cmd tea.Cmd
		f.title, cmd = f.title.Update(msg)
		return f, cmd

	case newConvFocusTopic:
		var cmd tea.Cmd
		f.topic, cmd = f.topic.Update(msg)
		return f, cmd

	case newConvFocusParticipants:
		switch msg.String() {
		case "up", "k":
			if f.cursor > 0 {
				f.cursor--
			}
		case "down", "j":
			if f.cursor < len(f.personalities)-1 {
				f.cursor++
			}
		case " ", "enter":
			if f.cursor < len(f.personalities) {
				f.selected = toggleID(f.selected, f.personalities[f.cursor].ID)
			}
		}
	}
	return f, nil
}

func (f newConvForm) cycleFocus(dir int) (newConvForm, tea.Cmd) {
	f.focus = (f.focus + dir + 3) % 3
	f.title.Blur()
	f.topic.Blur()
	switch f.focus {
	case newConvFocusTitle:
		return f, f.title.Focus()
	case newConvFocusTopic:
		return f, f.topic.Focus()
	}
	return f, nil
}

func (f newConvForm) submit() (newConvForm, tea.Cmd) {
	if !f.canSubmit() {
		return f, nil
	}
	f.creating = true
	f.errMsg = ""
	return f, createConversation(f.client, api.ConversationInput{
		Title:        strings.TrimSpace(f.title.Value()),
		Topic:        strings.TrimSpace(f.topic.Value()),
		Participants: f.selected,
	})
}

func (f newConvForm) view() string {
	var b strings.Builder

	b.WriteString(f.theme.titleStyle().Render("Crea Nuova Conversazione") + "\n")
	b.WriteString(f.theme.hintStyle().Render("Avvia una conversazione tra AI selezionando le personalità partecipanti") + "\n\n")

	b.WriteString(f.fieldLabel("Titolo Conversazione", newConvFocusTitle) + "\n")
	b.WriteString(f.title.View() + "\n\n")

	b.WriteString(f.fieldLabel("Argomento (opzionale)", newConvFocusTopic) + "\n")
	b.WriteString(f.topic.View() + "\n\n")

	b.WriteString(f.fieldLabel("Seleziona Personalità (minimo 2)", newConvFocusParticipants) + "\n")
	if len(f.personalities) == 0 {
		b.WriteString(f.theme.hintStyle().Render("Nessuna personalità disponibile. Creane una nella sezione Personalità.") + "\n")
	}
	for i, p := range f.personalities {
		marker := "  "
		if f.focus == newConvFocusParticipants && i == f.cursor {
			marker = f.theme.selectedStyle().Render("> ")
		}
		check := "[ ]"
		if containsID(f.selected, p.ID) {
			check = f.theme.successStyle().Render("[x]")
		}
		swatch := f.theme.swatchStyle(p.ColorTheme).Render("●")
		line := fmt.Sprintf("%s%s %s %s", marker, check, swatch, p.DisplayName)
		if p.Description != "" {
			line += "  " + f.theme.hintStyle().Render(p.Description)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	if f.errMsg != "" {
		b.WriteString(f.theme.errorStyle().Render("Errore: "+f.errMsg) + "\n")
	}
	if f.creating {
		b.WriteString(f.theme.hintStyle().Render("Creazione in corso...") + "\n")
	} else if f.canSubmit() {
		b.WriteString(f.theme.successStyle().Render("Avvia Conversazione: ctrl+s") + "\n")
	} else {
		b.WriteString(f.theme.hintStyle().Render("Serve un titolo e almeno 2 personalità per avviare (ctrl+s)") + "\n")
	}
	b.WriteString(f.theme.hintStyle().Render("campo successivo: tab · seleziona: spazio"))

	return b.String()
}

func (f newConvForm) fieldLabel(label string, zone int) string {
	if f.focus == zone {
		return f.theme.selectedStyle().Render(label)
	}
	return label
}
