package console

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/mayeuticsapp/parley/internal/api"
)

var apiTypes = []api.APIType{api.APITypeOpenAI, api.APITypeAnthropic, api.APITypeGoogle}

// providersPane manages the provider collection: list, create/edit form,
// deletion with confirmation, and the live connectivity test.
type providersPane struct {
	client *api.Client
	logger *slog.Logger
	theme  Theme

	providers []api.Provider
	cursor    int

	form     *providerForm
	confirm  int // provider id awaiting delete confirmation
	testing  int // provider id with a test in flight
	testText string
	errMsg   string
}

func newProvidersPane(client *api.Client, logger *slog.Logger, theme Theme) providersPane {
	return providersPane{client: client, logger: logger, theme: theme}
}

func (p *providersPane) setProviders(providers []api.Provider) {
	p.providers = providers
	if p.cursor >= len(providers) {
		p.cursor = 0
	}
}

func (p providersPane) update(msg tea.Msg) (providersPane, tea.Cmd) {
	switch msg := msg.(type) {
	case providerSavedMsg:
		if msg.err != nil {
			p.logger.Error("save provider failed", "error", msg.err)
			if p.form != nil {
				p.form.errMsg = msg.err.Error()
				p.form.saving = false
				return p, nil
			}
			// The form was closed while the save was in flight; show the
			// failure on the list instead of dropping it.
			p.errMsg = msg.err.Error()
			return p, nil
		}
		p.form = nil
		p.errMsg = ""
		return p, loadProviders(p.client)

	case providerDeletedMsg:
		if msg.err != nil {
			p.logger.Error("delete provider failed", "id", msg.id, "error", msg.err)
			p.errMsg = msg.err.Error()
			return p, nil
		}
		p.errMsg = ""
		return p, loadProviders(p.client)

	case providerTestedMsg:
		p.testing = 0
		if msg.err != nil {
			p.logger.Error("provider test failed", "id", msg.id, "error", msg.err)
			p.testText = ""
			p.errMsg = "Test fallito: " + msg.err.Error()
			return p, nil
		}
		p.errMsg = ""
		p.testText = msg.response
		return p, nil

	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p providersPane) handleKey(msg tea.KeyPressMsg) (providersPane, tea.Cmd) {
	if p.form != nil {
		form, cmd, closed := p.form.handleKey(msg, p.client)
		if closed {
			p.form = nil
		} else {
			p.form = form
		}
		return p, cmd
	}

	if p.confirm != 0 {
		switch msg.String() {
		case "y", "Y":
			id := p.confirm
			p.confirm = 0
			return p, deleteProvider(p.client, id)
		default:
			p.confirm = 0
		}
		return p, nil
	}

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.providers)-1 {
			p.cursor++
		}
	case "a":
		form := newProviderForm(p.theme, nil)
		p.form = &form
		return p, p.form.focusCurrent()
	case "e", "enter":
		if p.cursor < len(p.providers) {
			form := newProviderForm(p.theme, &p.providers[p.cursor])
			p.form = &form
			return p, p.form.focusCurrent()
		}
	case "d":
		if p.cursor < len(p.providers) {
			p.confirm = p.providers[p.cursor].ID
		}
	case "t":
		if p.cursor < len(p.providers) && p.testing == 0 {
			p.testing = p.providers[p.cursor].ID
			p.testText = ""
			return p, testProvider(p.client, p.testing)
		}
	case "r":
		return p, loadProviders(p.client)
	}
	return p, nil
}

func (p providersPane) view() string {
	if p.form != nil {
		return p.form.view()
	}

	var b strings.Builder
	b.WriteString(p.theme.titleStyle().Render("Provider AI") + "  ")
	b.WriteString(p.theme.hintStyle().Render("Gestisci i provider di intelligenza artificiale") + "\n\n")

	if len(p.providers) == 0 {
		b.WriteString(p.theme.hintStyle().Render("Nessun provider configurato. Aggiungi il tuo primo provider AI per iniziare (a).") + "\n")
		return b.String()
	}

	for i, provider := range p.providers {
		b.WriteString(p.renderRow(provider, i == p.cursor))
		b.WriteString("\n")
	}

	if p.confirm != 0 {
		b.WriteString("\n" + p.theme.warningStyle().Render("Eliminare questo provider? (y/n)"))
	}
	if p.errMsg != "" {
		b.WriteString("\n" + p.theme.errorStyle().Render("Errore: "+p.errMsg))
	}
	if p.testText != "" {
		b.WriteString("\n" + p.theme.successStyle().Render("Test riuscito! Risposta: "+p.testText))
	}

	b.WriteString("\n" + p.theme.hintStyle().Render("aggiungi: a · modifica: e · elimina: d · test: t · ricarica: r"))
	return b.String()
}

func (p providersPane) renderRow(provider api.Provider, underCursor bool) string {
	marker := "  "
	if underCursor {
		marker = p.theme.selectedStyle().Render("> ")
	}

	badge := p.theme.successStyle().Render("Attivo")
	if !provider.IsActive {
		badge = p.theme.hintStyle().Render("Inattivo")
	}
	if provider.ID == p.testing {
		badge = p.theme.warningStyle().Render("test in corso...")
	}

	head := fmt.Sprintf("%s%s  %s", marker, provider.Name, badge)
	detail := p.theme.hintStyle().Render(fmt.Sprintf(
		"%s · %s · max tokens %d · temperatura %.1f · %d personalità",
		strings.ToUpper(string(provider.APIType)), provider.DefaultModel,
		provider.MaxTokens, provider.Temperature, provider.PersonalitiesCount,
	))
	row := head + "\n    " + detail
	if provider.APIBaseURL != "" {
		row += "\n    " + p.theme.hintStyle().Render("URL: "+provider.APIBaseURL)
	}
	return row
}

// providerForm is the modal create/edit form. The api_key field starts
// empty even when editing: list payloads never carry the stored key, and
// the client never redisplays one.
type providerForm struct {
	theme Theme

	editingID int
	name      textinput.Model
	apiType   int // index into apiTypes
	apiKey    textinput.Model
	model     textinput.Model
	baseURL   textinput.Model
	maxTokens textinput.Model
	temp      textinput.Model

	focus  int
	saving bool
	errMsg string
}

// Field order in the form.
const (
	provFieldName = iota
	provFieldType
	provFieldKey
	provFieldModel
	provFieldBaseURL
	provFieldMaxTokens
	provFieldTemp
	provFieldCount
)

func newProviderForm(theme Theme, existing *api.Provider) providerForm {
	f := providerForm{
		theme:     theme,
		name:      textinput.New(),
		apiKey:    textinput.New(),
		model:     textinput.New(),
		baseURL:   textinput.New(),
		maxTokens: textinput.New(),
		temp:      textinput.New(),
	}
	f.name.Placeholder = "es. OpenAI GPT-4"
	f.apiKey.Placeholder = "Inserisci la tua API key"
	f.apiKey.EchoMode = textinput.EchoPassword
	f.model.Placeholder = "es. gpt-4, claude-3-sonnet-20240229"
	f.baseURL.Placeholder = "es. https://api.openai.com/v1"

	if existing != nil {
		f.editingID = existing.ID
		f.name.SetValue(existing.Name)
		for i, t := range apiTypes {
			if t == existing.APIType {
				f.apiType = i
			}
		}
		f.model.SetValue(existing.DefaultModel)
		f.baseURL.SetValue(existing.APIBaseURL)
		f.maxTokens.SetValue(strconv.Itoa(existing.MaxTokens))
		f.temp.SetValue(strconv.FormatFloat(existing.Temperature, 'f', -1, 64))
	} else {
		f.model.SetValue("gpt-4")
		f.maxTokens.SetValue("1000")
		f.temp.SetValue("0.7")
	}
	return f
}

func (f *providerForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.name, nil, &f.apiKey, &f.model, &f.baseURL, &f.maxTokens, &f.temp}
}

func (f *providerForm) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for i, in := range f.inputs() {
		if in == nil {
			continue
		}
		if i == f.focus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

// handleKey returns the updated form, a command, and whether the modal
// closed.
func (f *providerForm) handleKey(msg tea.KeyPressMsg, client *api.Client) (*providerForm, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return f, nil, true
	case "tab", "enter", "down":
		f.focus = (f.focus + 1) % provFieldCount
		return f, f.focusCurrent(), false
	case "shift+tab", "up":
		f.focus = (f.focus + provFieldCount - 1) % provFieldCount
		return f, f.focusCurrent(), false
	case "ctrl+s":
		cmd := f.submit(client)
		return f, cmd, false
	}

	if f.focus == provFieldType {
		switch msg.String() {
		case "left", "h":
			f.apiType = (f.apiType + len(apiTypes) - 1) % len(apiTypes)
		case "right", "l", " ":
			f.apiType = (f.apiType + 1) % len(apiTypes)
		}
		return f, nil, false
	}

	in := f.inputs()[f.focus]
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return f, cmd, false
}

func (f *providerForm) submit(client *api.Client) tea.Cmd {
	if f.saving {
		return nil
	}
	input, err := f.toInput()
	if err != nil {
		f.errMsg = err.Error()
		return nil
	}
	f.saving = true
	f.errMsg = ""
	return saveProvider(client, f.editingID, input)
}

// toInput parses the numeric fields and applies the same validation the
// server-bound payload needs.
func (f *providerForm) toInput() (api.ProviderInput, error) {
	maxTokens, err := strconv.Atoi(strings.TrimSpace(f.maxTokens.Value()))
	if err != nil {
		return api.ProviderInput{}, fmt.Errorf("max tokens non valido: %q", f.maxTokens.Value())
	}
	temp, err := strconv.ParseFloat(strings.TrimSpace(f.temp.Value()), 64)
	if err != nil {
		return api.ProviderInput{}, fmt.Errorf("temperatura non valida: %q", f.temp.Value())
	}

	input := api.ProviderInput{
		Name:         strings.TrimSpace(f.name.Value()),
		APIType:      apiTypes[f.apiType],
		APIBaseURL:   strings.TrimSpace(f.baseURL.Value()),
		APIKey:       f.apiKey.Value(),
		DefaultModel: strings.TrimSpace(f.model.Value()),
		MaxTokens:    maxTokens,
		Temperature:  temp,
	}
	if f.editingID == 0 && input.APIKey == "" {
		return api.ProviderInput{}, fmt.Errorf("api key obbligatoria")
	}
	if err := input.Validate(); err != nil {
		return api.ProviderInput{}, err
	}
	return input, nil
}

func (f *providerForm) view() string {
	var b strings.Builder
	title := "Nuovo Provider AI"
	if f.editingID != 0 {
		title = "Modifica Provider"
	}
	b.WriteString(f.theme.titleStyle().Render(title) + "\n\n")

	b.WriteString(f.label("Nome Provider", provFieldName) + "\n" + f.name.View() + "\n")
	b.WriteString(f.label("Tipo API", provFieldType) + "\n" + f.apiTypeView() + "\n")
	b.WriteString(f.label("API Key", provFieldKey) + "\n" + f.apiKey.View() + "\n")
	b.WriteString(f.label("Modello Predefinito", provFieldModel) + "\n" + f.model.View() + "\n")
	b.WriteString(f.label("URL Base API (opzionale)", provFieldBaseURL) + "\n" + f.baseURL.View() + "\n")
	b.WriteString(f.label("Max Tokens", provFieldMaxTokens) + "\n" + f.maxTokens.View() + "\n")
	b.WriteString(f.label("Temperature", provFieldTemp) + "\n" + f.temp.View() + "\n\n")

	if f.errMsg != "" {
		b.WriteString(f.theme.errorStyle().Render("Errore: "+f.errMsg) + "\n")
	}
	if f.saving {
		b.WriteString(f.theme.hintStyle().Render("Salvataggio...") + "\n")
	}
	b.WriteString(f.theme.hintStyle().Render("salva: ctrl+s · annulla: esc · campo: tab"))
	return b.String()
}

func (f *providerForm) apiTypeView() string {
	var parts []string
	for i, t := range apiTypes {
		label := string(t)
		if i == f.apiType {
			label = f.theme.selectedStyle().Render("[" + label + "]")
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func (f *providerForm) label(text string, zone int) string {
	if f.focus == zone {
		return f.theme.selectedStyle().Render(text)
	}
	return text
}
