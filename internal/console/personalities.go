package console

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/mayeuticsapp/parley/internal/api"
)

// colorPalette is the fixed set of personality theme colors offered by the
// form. Free-typed hex values are not supported; the picker cycles these.
var colorPalette = []string{
	"#3B82F6", // blue
	"#10B981", // emerald
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // violet
	"#06B6D4", // cyan
	"#84CC16", // lime
	"#F97316", // orange
}

// personalitiesPane manages the personality collection: list, create/edit
// form, template instantiation, and deletion.
type personalitiesPane struct {
	client *api.Client
	logger *slog.Logger
	theme  Theme

	personalities []api.Personality
	providers     []api.Provider
	cursor        int

	form    *personalityForm
	picker  *templatePicker
	confirm int // personality id awaiting delete confirmation
	errMsg  string
}

func newPersonalitiesPane(client *api.Client, logger *slog.Logger, theme Theme) personalitiesPane {
	return personalitiesPane{client: client, logger: logger, theme: theme}
}

func (p *personalitiesPane) setPersonalities(personalities []api.Personality) {
	p.personalities = personalities
	if p.cursor >= len(personalities) {
		p.cursor = 0
	}
}

func (p *personalitiesPane) setProviders(providers []api.Provider) {
	p.providers = providers
}

// activeProviders filters the connectable ones; the form only offers these.
func (p *personalitiesPane) activeProviders() []api.Provider {
	var active []api.Provider
	for _, provider := range p.providers {
		if provider.IsActive {
			active = append(active, provider)
		}
	}
	return active
}

func (p personalitiesPane) update(msg tea.Msg) (personalitiesPane, tea.Cmd) {
	switch msg := msg.(type) {
	case personalitySavedMsg:
		if msg.err != nil {
			p.logger.Error("save personality failed", "error", msg.err)
			if p.form != nil {
				p.form.errMsg = msg.err.Error()
				p.form.saving = false
			}
			if p.picker != nil {
				p.picker.errMsg = msg.err.Error()
				p.picker.creating = false
			}
			if p.form == nil && p.picker == nil {
				p.errMsg = msg.err.Error()
			}
			return p, nil
		}
		p.form = nil
		p.picker = nil
		p.errMsg = ""
		return p, loadPersonalities(p.client)

	case personalityDeletedMsg:
		if msg.err != nil {
			p.logger.Error("delete personality failed", "id", msg.id, "error", msg.err)
			p.errMsg = msg.err.Error()
			return p, nil
		}
		p.errMsg = ""
		return p, loadPersonalities(p.client)

	case templatesLoadedMsg:
		if msg.err != nil {
			p.logger.Error("load templates failed", "error", msg.err)
			p.errMsg = msg.err.Error()
			return p, nil
		}
		picker := newTemplatePicker(p.theme, msg.templates, p.activeProviders())
		p.picker = &picker
		return p, nil

	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p personalitiesPane) handleKey(msg tea.KeyPressMsg) (personalitiesPane, tea.Cmd) {
	if p.form != nil {
		form, cmd, closed := p.form.handleKey(msg, p.client)
		if closed {
			p.form = nil
		} else {
			p.form = form
		}
		return p, cmd
	}

	if p.picker != nil {
		picker, cmd, closed := p.picker.handleKey(msg, p.client)
		if closed {
			p.picker = nil
		} else {
			p.picker = picker
		}
		return p, cmd
	}

	if p.confirm != 0 {
		switch msg.String() {
		case "y", "Y":
			id := p.confirm
			p.confirm = 0
			return p, deletePersonality(p.client, id)
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
		if p.cursor < len(p.personalities)-1 {
			p.cursor++
		}
	case "a":
		if len(p.activeProviders()) == 0 {
			p.errMsg = "Nessun provider attivo: configura prima un provider"
			return p, nil
		}
		form := newPersonalityForm(p.theme, nil, p.activeProviders())
		p.form = &form
		return p, p.form.focusCurrent()
	case "e", "enter":
		if p.cursor < len(p.personalities) {
			form := newPersonalityForm(p.theme, &p.personalities[p.cursor], p.activeProviders())
			p.form = &form
			return p, p.form.focusCurrent()
		}
	case "t":
		if len(p.activeProviders()) == 0 {
			p.errMsg = "Nessun provider attivo: configura prima un provider"
			return p, nil
		}
		return p, loadTemplates(p.client)
	case "d":
		if p.cursor < len(p.personalities) {
			p.confirm = p.personalities[p.cursor].ID
		}
	case "r":
		return p, loadPersonalities(p.client)
	}
	return p, nil
}

func (p personalitiesPane) view() string {
	if p.form != nil {
		return p.form.view()
	}
	if p.picker != nil {
		return p.picker.view()
	}

	var b strings.Builder
	b.WriteString(p.theme.titleStyle().Render("Personalità AI") + "  ")
	b.WriteString(p.theme.hintStyle().Render("Crea e gestisci le personalità per le conversazioni") + "\n\n")

	if len(p.personalities) == 0 {
		b.WriteString(p.theme.hintStyle().Render("Nessuna personalità configurata. Creane una (a) o parti da un template (t).") + "\n")
		return b.String()
	}

	for i, personality := range p.personalities {
		b.WriteString(p.renderRow(personality, i == p.cursor))
		b.WriteString("\n")
	}

	if p.confirm != 0 {
		b.WriteString("\n" + p.theme.warningStyle().Render("Eliminare questa personalità? (y/n)"))
	}
	if p.errMsg != "" {
		b.WriteString("\n" + p.theme.errorStyle().Render("Errore: "+p.errMsg))
	}

	b.WriteString("\n" + p.theme.hintStyle().Render("crea: a · da template: t · modifica: e · elimina: d · ricarica: r"))
	return b.String()
}

func (p personalitiesPane) renderRow(personality api.Personality, underCursor bool) string {
	marker := "  "
	if underCursor {
		marker = p.theme.selectedStyle().Render("> ")
	}

	swatch := p.theme.swatchStyle(personality.ColorTheme).Render("●")
	head := fmt.Sprintf("%s%s %s", marker, swatch, personality.DisplayName)
	if !personality.IsActive {
		head += "  " + p.theme.hintStyle().Render("Inattiva")
	}

	providerName := personality.ProviderName
	if providerName == "" {
		providerName = fmt.Sprintf("provider #%d", personality.ProviderID)
	}
	detail := p.theme.hintStyle().Render(personality.Name + " · " + providerName)
	row := head + "\n    " + detail
	if personality.Description != "" {
		row += "\n    " + p.theme.hintStyle().Render(personality.Description)
	}
	return row
}

// personalityForm is the modal create/edit form.
type personalityForm struct {
	theme     Theme
	providers []api.Provider

	editingID    int
	name         textinput.Model
	displayName  textinput.Model
	description  textinput.Model
	systemPrompt textarea.Model
	providerIdx  int
	colorIdx     int

	focus  int
	saving bool
	errMsg string
}

const (
	persFieldName = iota
	persFieldDisplayName
	persFieldDescription
	persFieldProvider
	persFieldColor
	persFieldPrompt
	persFieldCount
)

func newPersonalityForm(theme Theme, existing *api.Personality, providers []api.Provider) personalityForm {
	f := personalityForm{
		theme:        theme,
		providers:    providers,
		name:         textinput.New(),
		displayName:  textinput.New(),
		description:  textinput.New(),
		systemPrompt: textarea.New(),
	}
	f.name.Placeholder = "es. filosofo_greco"
	f.displayName.Placeholder = "es. Filosofo Greco"
	f.description.Placeholder = "Breve descrizione (opzionale)"
	f.systemPrompt.Placeholder = "Sei un filosofo greco dell'antichità..."
	f.systemPrompt.SetHeight(5)

	if existing != nil {
		f.editingID = existing.ID
		f.name.SetValue(existing.Name)
		f.displayName.SetValue(existing.DisplayName)
		f.description.SetValue(existing.Description)
		f.systemPrompt.SetValue(existing.SystemPrompt)
		for i, provider := range providers {
			if provider.ID == existing.ProviderID {
				f.providerIdx = i
			}
		}
		for i, color := range colorPalette {
			if strings.EqualFold(color, existing.ColorTheme) {
				f.colorIdx = i
			}
		}
	}
	return f
}

func (f *personalityForm) focusCurrent() tea.Cmd {
	f.name.Blur()
	f.displayName.Blur()
	f.description.Blur()
	f.systemPrompt.Blur()
	switch f.focus {
	case persFieldName:
		return f.name.Focus()
	case persFieldDisplayName:
		return f.displayName.Focus()
	case persFieldDescription:
		return f.description.Focus()
	case persFieldPrompt:
		return f.systemPrompt.Focus()
	}
	return nil
}

func (f *personalityForm) handleKey(msg tea.KeyPressMsg, client *api.Client) (*personalityForm, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return f, nil, true
	case "tab":
		f.focus = (f.focus + 1) % persFieldCount
		return f, f.focusCurrent(), false
	case "shift+tab":
		f.focus = (f.focus + persFieldCount - 1) % persFieldCount
		return f, f.focusCurrent(), false
	case "ctrl+s":
		return f, f.submit(client), false
	}

	switch f.focus {
	case persFieldProvider:
		switch msg.String() {
		case "left", "h":
			if len(f.providers) > 0 {
				f.providerIdx = (f.providerIdx + len(f.providers) - 1) % len(f.providers)
			}
		case "right", "l", " ":
			if len(f.providers) > 0 {
				f.providerIdx = (f.providerIdx + 1) % len(f.providers)
			}
		}
		return f, nil, false
	case persFieldColor:
		switch msg.String() {
		case "left", "h":
			f.colorIdx = (f.colorIdx + len(colorPalette) - 1) % len(colorPalette)
		case "right", "l", " ":
			f.colorIdx = (f.colorIdx + 1) % len(colorPalette)
		}
		return f, nil, false
	case persFieldPrompt:
		var cmd tea.Cmd
		f.systemPrompt, cmd = f.systemPrompt.Update(msg)
		return f, cmd, false
	}

	var cmd tea.Cmd
	switch f.focus {
	case persFieldName:
		f.name, cmd = f.name.Update(msg)
	case persFieldDisplayName:
		f.displayName, cmd = f.displayName.Update(msg)
	case persFieldDescription:
		f.description, cmd = f.description.Update(msg)
	}
	return f, cmd, false
}

func (f *personalityForm) submit(client *api.Client) tea.Cmd {
	if f.saving {
		return nil
	}
	if len(f.providers) == 0 {
		f.errMsg = "nessun provider attivo disponibile"
		return nil
	}
	input := api.PersonalityInput{
		Name:         strings.TrimSpace(f.name.Value()),
		DisplayName:  strings.TrimSpace(f.displayName.Value()),
		Description:  strings.TrimSpace(f.description.Value()),
		SystemPrompt: strings.TrimSpace(f.systemPrompt.Value()),
		ColorTheme:   colorPalette[f.colorIdx],
		ProviderID:   f.providers[f.providerIdx].ID,
	}
	if err := input.Validate(); err != nil {
		f.errMsg = err.Error()
		return nil
	}
	f.saving = true
	f.errMsg = ""
	return savePersonality(client, f.editingID, input)
}

func (f *personalityForm) view() string {
	var b strings.Builder
	title := "Nuova Personalità"
	if f.editingID != 0 {
		title = "Modifica Personalità"
	}
	b.WriteString(f.theme.titleStyle().Render(title) + "\n\n")

	b.WriteString(f.label("Nome Identificativo", persFieldName) + "\n" + f.name.View() + "\n")
	b.WriteString(f.label("Nome Visualizzato", persFieldDisplayName) + "\n" + f.displayName.View() + "\n")
	b.WriteString(f.label("Descrizione", persFieldDescription) + "\n" + f.description.View() + "\n")
	b.WriteString(f.label("Provider AI", persFieldProvider) + "\n" + f.providerView() + "\n")
	b.WriteString(f.label("Colore", persFieldColor) + "\n" + f.colorView() + "\n")
	b.WriteString(f.label("System Prompt", persFieldPrompt) + "\n" + f.systemPrompt.View() + "\n\n")

	if f.errMsg != "" {
		b.WriteString(f.theme.errorStyle().Render("Errore: "+f.errMsg) + "\n")
	}
	if f.saving {
		b.WriteString(f.theme.hintStyle().Render("Salvataggio...") + "\n")
	}
	b.WriteString(f.theme.hintStyle().Render("salva: ctrl+s · annulla: esc · campo: tab"))
	return b.String()
}

func (f *personalityForm) providerView() string {
	if len(f.providers) == 0 {
		return f.theme.errorStyle().Render("nessun provider attivo")
	}
	provider := f.providers[f.providerIdx]
	return fmt.Sprintf("◂ %s (%s) ▸", provider.Name, provider.DefaultModel)
}

func (f *personalityForm) colorView() string {
	var parts []string
	for i, color := range colorPalette {
		swatch := f.theme.swatchStyle(color).Render("●")
		if i == f.colorIdx {
			swatch = f.theme.swatchStyle(color).Render("[●]")
		}
		parts = append(parts, swatch)
	}
	return strings.Join(parts, " ")
}

func (f *personalityForm) label(text string, zone int) string {
	if f.focus == zone {
		return f.theme.selectedStyle().Render(text)
	}
	return text
}

// templatePicker instantiates a personality from the server catalog: pick a
// template, pick a provider, optionally rename, submit.
type templatePicker struct {
	theme     Theme
	names     []string
	templates map[string]api.Template
	providers []api.Provider

	cursor      int
	providerIdx int
	customName  textinput.Model

	creating bool
	errMsg   string
}

func newTemplatePicker(theme Theme, templates map[string]api.Template, providers []api.Provider) templatePicker {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	custom := textinput.New()
	custom.Placeholder = "Nome personalizzato (opzionale)"
	return templatePicker{
		theme:      theme,
		names:      names,
		templates:  templates,
		providers:  providers,
		customName: custom,
	}
}

func (tp *templatePicker) handleKey(msg tea.KeyPressMsg, client *api.Client) (*templatePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return tp, nil, true
	case "up":
		if tp.cursor > 0 {
			tp.cursor--
		}
		return tp, nil, false
	case "down":
		if tp.cursor < len(tp.names)-1 {
			tp.cursor++
		}
		return tp, nil, false
	case "left":
		if len(tp.providers) > 0 {
			tp.providerIdx = (tp.providerIdx + len(tp.providers) - 1) % len(tp.providers)
		}
		return tp, nil, false
	case "right":
		if len(tp.providers) > 0 {
			tp.providerIdx = (tp.providerIdx + 1) % len(tp.providers)
		}
		return tp, nil, false
	case "enter":
		return tp, tp.submit(client), false
	}

	var cmd tea.Cmd
	tp.customName, cmd = tp.customName.Update(msg)
	return tp, cmd, false
}

func (tp *templatePicker) submit(client *api.Client) tea.Cmd {
	if tp.creating || len(tp.names) == 0 || len(tp.providers) == 0 {
		return nil
	}
	tp.creating = true
	tp.errMsg = ""
	return createFromTemplate(client, api.FromTemplateInput{
		TemplateName: tp.names[tp.cursor],
		ProviderID:   tp.providers[tp.providerIdx].ID,
		CustomName:   strings.TrimSpace(tp.customName.Value()),
	})
}

func (tp *templatePicker) view() string {
	var b strings.Builder
	b.WriteString(tp.theme.titleStyle().Render("Crea da Template") + "\n\n")

	if len(tp.names) == 0 {
		b.WriteString(tp.theme.hintStyle().Render("Nessun template disponibile.") + "\n")
		b.WriteString(tp.theme.hintStyle().Render("chiudi: esc"))
		return b.String()
	}

	for i, name := range tp.names {
		tmpl := tp.templates[name]
		marker := "  "
		if i == tp.cursor {
			marker = tp.theme.selectedStyle().Render("> ")
		}
		swatch := tp.theme.swatchStyle(tmpl.ColorTheme).Render("●")
		b.WriteString(fmt.Sprintf("%s%s %s", marker, swatch, tmpl.DisplayName))
		if tmpl.Description != "" {
			b.WriteString("  " + tp.theme.hintStyle().Render(tmpl.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nProvider: ")
	if len(tp.providers) == 0 {
		b.WriteString(tp.theme.errorStyle().Render("nessun provider attivo"))
	} else {
		b.WriteString(fmt.Sprintf("◂ %s ▸", tp.providers[tp.providerIdx].Name))
	}
	b.WriteString("\n" + tp.customName.View() + "\n\n")

	if tp.errMsg != "" {
		b.WriteString(tp.theme.errorStyle().Render("Errore: "+tp.errMsg) + "\n")
	}
	if tp.creating {
		b.WriteString(tp.theme.hintStyle().Render("Creazione...") + "\n")
	}
	b.WriteString(tp.theme.hintStyle().Render("crea: enter · provider: ◂ ▸ · annulla: esc"))
	return b.String()
}
