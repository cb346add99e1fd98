package console

import (
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayeuticsapp/parley/internal/api"
)

// ContinuationPrompt is the canned instruction posted when the user asks a
// specific participant to reply.
const ContinuationPrompt = "Continua la conversazione basandoti sui messaggi precedenti."

const defaultRounds = 3

// viewer shows one conversation's transcript and accepts the three write
// operations: user message, per-participant reply, auto-continue.
type viewer struct {
	client *api.Client
	logger *slog.Logger
	theme  Theme

	width  int
	height int

	state  requestState
	errMsg string

	conversationID int
	conversation   *api.Conversation
	participants   []api.Personality
	messages       []api.Message
	// Global personality list, the roster fallback for orphaned messages.
	personalities []api.Personality

	input textinput.Model
	vp    viewport.Model
	spin  spinner.Model

	sending     bool
	autoRunning bool
	rounds      int

	// Participant selected for a manual reply.
	cursor int
}

func newViewer(client *api.Client, logger *slog.Logger, theme Theme) viewer {
	input := textinput.New()
	input.Placeholder = "Scrivi un messaggio per guidare la conversazione..."

	return viewer{
		client: client,
		logger: logger,
		theme:  theme,
		state:  stateIdle,
		input:  input,
		vp:     viewport.New(),
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		rounds: defaultRounds,
	}
}

// open loads a conversation bundle, replacing any previous one.
func (v *viewer) open(id int) tea.Cmd {
	v.conversationID = id
	v.state = stateLoading
	v.errMsg = ""
	return loadBundle(v.client, id)
}

// reload refetches the current bundle without discarding shown state.
func (v *viewer) reload() tea.Cmd {
	if v.conversationID == 0 {
		return nil
	}
	return loadBundle(v.client, v.conversationID)
}

func (v *viewer) setSize(width, height int) {
	v.width = width
	v.height = height
	v.vp.SetWidth(width)
	v.vp.SetHeight(height - 7)
	v.refreshTranscript()
}

func (v *viewer) setPersonalities(personalities []api.Personality) {
	v.personalities = personalities
}

func (v *viewer) focus() tea.Cmd {
	return v.input.Focus()
}

func (v *viewer) blur() {
	v.input.Blur()
}

func (v viewer) update(msg tea.Msg) (viewer, tea.Cmd) {
	switch msg := msg.(type) {
	case bundleLoadedMsg:
		if msg.id != v.conversationID {
			return v, nil
		}
		if msg.err != nil {
			// Prior transcript stays; the failure is shown, not swallowed.
			v.logger.Error("load conversation failed", "id", msg.id, "error", msg.err)
			v.errMsg = msg.err.Error()
			if v.conversation == nil {
				v.state = stateFailed
			}
			return v, nil
		}
		v.state = stateReady
		v.errMsg = ""
		v.conversation = &msg.bundle.Conversation
		v.participants = msg.bundle.Participants
		v.messages = msg.bundle.Messages
		if v.cursor >= len(v.participants) {
			v.cursor = 0
		}
		v.refreshTranscript()
		v.vp.GotoBottom()
		return v, nil

	case messageSentMsg:
		if msg.conversationID != v.conversationID {
			return v, nil
		}
		v.sending = false
		if msg.err != nil {
			v.logger.Error("send message failed", "conversation", msg.conversationID, "error", msg.err)
			v.errMsg = msg.err.Error()
			return v, nil
		}
		// The rendered transcript always reflects a full reload, never a
		// locally appended message.
		return v, v.reload()

	case autoContinuedMsg:
		if msg.conversationID != v.conversationID {
			return v, nil
		}
		v.autoRunning = false
		if msg.err != nil {
			v.logger.Error("auto-continue failed", "conversation", msg.conversationID, "error", msg.err)
			v.errMsg = msg.err.Error()
			return v, nil
		}
		return v, v.reload()

	case spinner.TickMsg:
		if !v.sending && !v.autoRunning && v.state != stateLoading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case tea.KeyPressMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v viewer) handleKey(msg tea.KeyPressMsg) (viewer, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v.sendUserMessage()

	case "ctrl+r":
		return v, v.reload()

	case "ctrl+a":
		return v.startAutoContinue()

	case "ctrl+up":
		v.rounds = api.ClampRounds(v.rounds + 1)
		return v, nil

	case "ctrl+down":
		v.rounds = api.ClampRounds(v.rounds - 1)
		return v, nil

	case "ctrl+p":
		if len(v.participants) > 0 {
			v.cursor = (v.cursor + 1) % len(v.participants)
		}
		return v, nil

	case "ctrl+g":
		return v.sendParticipantReply()

	case "pgup", "pgdown", "ctrl+home", "ctrl+end":
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// sendUserMessage posts the typed message. Blank input is rejected locally;
// the sending flag is a best-effort guard, not a serialization mechanism.
func (v viewer) sendUserMessage() (viewer, tea.Cmd) {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.sending {
		return v, nil
	}
	v.sending = true
	v.errMsg = ""
	v.input.SetValue("")
	return v, tea.Batch(
		sendMessage(v.client, v.conversationID, api.MessageInput{
			SenderType: api.SenderUser,
			Content:    text,
		}),
		v.spin.Tick,
	)
}

// sendParticipantReply asks the selected participant for the next turn.
func (v viewer) sendParticipantReply() (viewer, tea.Cmd) {
	if v.sending || v.cursor >= len(v.participants) {
		return v, nil
	}
	id := v.participants[v.cursor].ID
	v.sending = true
	v.errMsg = ""
	return v, tea.Batch(
		sendMessage(v.client, v.conversationID, api.MessageInput{
			SenderType:    api.SenderAI,
			PersonalityID: &id,
			Content:       ContinuationPrompt,
		}),
		v.spin.Tick,
	)
}

// startAutoContinue fires one blocking round-trip advancing the
// conversation by v.rounds server-chosen turns. One call, one reload.
func (v viewer) startAutoContinue() (viewer, tea.Cmd) {
	if v.autoRunning || len(v.participants) < 2 {
		return v, nil
	}
	v.autoRunning = true
	v.errMsg = ""
	return v, tea.Batch(
		autoContinue(v.client, v.conversationID, v.rounds),
		v.spin.Tick,
	)
}

// refreshTranscript rebuilds the viewport content from the message list.
func (v *viewer) refreshTranscript() {
	if v.width == 0 {
		return
	}
	if len(v.messages) == 0 {
		v.vp.SetContent(v.theme.hintStyle().Render("Nessun messaggio ancora. Inizia la conversazione!"))
		return
	}

	var b strings.Builder
	for i, msg := range v.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.renderMessage(msg))
		b.WriteString("\n")
	}
	v.vp.SetContent(b.String())
}

func (v *viewer) renderMessage(msg api.Message) string {
	maxWidth := v.width * 4 / 5
	if maxWidth < 20 {
		maxWidth = 20
	}

	if msg.SenderType == api.SenderUser {
		bubble := v.theme.userBubbleStyle().MaxWidth(maxWidth).Render(msg.Content)
		stamp := v.theme.hintStyle().Render(FormatClock(msg.CreatedAt))
		block := lipgloss.JoinVertical(lipgloss.Right, bubble, stamp)
		return lipgloss.PlaceHorizontal(v.width, lipgloss.Right, block)
	}

	var name, color string
	if msg.PersonalityID != nil {
		if p := resolvePersonality(*msg.PersonalityID, v.participants, v.personalities); p != nil {
			name = p.DisplayName
			color = p.ColorTheme
		}
	}
	if name == "" {
		name = "AI"
		color = string(v.theme.Hint)
	}

	header := fmt.Sprintf("%s %s %s",
		v.theme.swatchStyle(color).Render("●"),
		name,
		v.theme.hintStyle().Render(FormatClock(msg.CreatedAt)),
	)
	bubble := v.theme.aiBubbleStyle(color).MaxWidth(maxWidth).Render(msg.Content)

	if meta := formatMetadata(msg.Metadata); meta != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, bubble, v.theme.hintStyle().Render(meta))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// formatMetadata renders the optional model/token info under an AI bubble.
func formatMetadata(meta *api.MessageMetadata) string {
	if meta == nil {
		return ""
	}
	var parts []string
	if meta.Model != "" {
		parts = append(parts, "Modello: "+meta.Model)
	}
	if meta.Usage != nil && meta.Usage.TotalTokens > 0 {
		parts = append(parts, fmt.Sprintf("Token: %d", meta.Usage.TotalTokens))
	}
	return strings.Join(parts, "  ")
}

func (v viewer) view() string {
	switch v.state {
	case stateIdle:
		return v.theme.hintStyle().Render("Seleziona una conversazione per visualizzarla")
	case stateLoading:
		return fmt.Sprintf("%s Caricamento conversazione...", v.spin.View())
	case stateFailed:
		return v.theme.errorStyle().Render("Errore: " + v.errMsg)
	}

	if v.conversation == nil {
		return v.theme.hintStyle().Render("Conversazione non trovata")
	}

	var b strings.Builder

	title := v.theme.titleStyle().Render(v.conversation.Title)
	desc := fmt.Sprintf("%d partecipanti · %d messaggi", len(v.participants), len(v.messages))
	if v.conversation.Topic != "" {
		desc = v.conversation.Topic + " · " + desc
	}
	b.WriteString(title + "  " + v.theme.hintStyle().Render(desc) + "\n")

	b.WriteString(v.renderParticipantBar() + "\n")
	b.WriteString(v.vp.View() + "\n")

	if v.errMsg != "" {
		b.WriteString(v.theme.errorStyle().Render("Errore: "+v.errMsg) + "\n")
	}

	b.WriteString(v.input.View() + "\n")
	b.WriteString(v.statusLine())

	return b.String()
}

func (v viewer) renderParticipantBar() string {
	if len(v.participants) == 0 {
		return v.theme.hintStyle().Render("(nessun partecipante)")
	}
	var badges []string
	for i, p := range v.participants {
		badge := v.theme.swatchStyle(p.ColorTheme).Render("●") + " " + p.DisplayName
		if i == v.cursor {
			badge = v.theme.selectedStyle().Render("[") + badge + v.theme.selectedStyle().Render("]")
		}
		badges = append(badges, badge)
	}
	return strings.Join(badges, "  ")
}

func (v viewer) statusLine() string {
	if v.sending {
		return fmt.Sprintf("%s invio in corso...", v.spin.View())
	}
	if v.autoRunning {
		return fmt.Sprintf("%s auto-continue (%d round)...", v.spin.View(), v.rounds)
	}
	hint := fmt.Sprintf(
		"invio: enter · risposta %s: ctrl+g · partecipante: ctrl+p · auto %d round: ctrl+a (ctrl+↑/↓) · ricarica: ctrl+r",
		v.selectedParticipantName(), v.rounds,
	)
	return v.theme.hintStyle().Render(hint)
}

func (v viewer) selectedParticipantName() string {
	if v.cursor < len(v.participants) {
		return v.participants[v.cursor].DisplayName
	}
	return "-"
}
