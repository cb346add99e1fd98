package console

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayeuticsapp/parley/internal/api"
)

func TestProviderSaveFailureWithFormOpen(t *testing.T) {
	p := newProvidersPane(api.New("http://127.0.0.1:1"), testLogger(), defaultTheme)
	form := newProviderForm(defaultTheme, nil)
	form.saving = true
	p.form = &form

	p, cmd := p.update(providerSavedMsg{err: errors.New("chiave non valida")})

	assert.Nil(t, cmd, "a failed save must not trigger a reload")
	require.NotNil(t, p.form)
	assert.Equal(t, "chiave non valida", p.form.errMsg)
	assert.False(t, p.form.saving)
}

func TestProviderSaveFailureAfterFormClosed(t *testing.T) {
	p := newProvidersPane(api.New("http://127.0.0.1:1"), testLogger(), defaultTheme)

	p, cmd := p.update(providerSavedMsg{err: errors.New("server spento")})

	assert.Nil(t, cmd, "a failed save must not trigger a reload")
	assert.Equal(t, "server spento", p.errMsg)
}

func TestPersonalitySaveFailureAfterFormClosed(t *testing.T) {
	p := newPersonalitiesPane(api.New("http://127.0.0.1:1"), testLogger(), defaultTheme)

	p, cmd := p.update(personalitySavedMsg{err: errors.New("prompt mancante")})

	assert.Nil(t, cmd, "a failed save must not trigger a reload")
	assert.Equal(t, "prompt mancante", p.errMsg)
}

func TestProviderFormDefaults(t *testing.T) {
	f := newProviderForm(defaultTheme, nil)

	assert.Equal(t, "gpt-4", f.model.Value())
	assert.Equal(t, "1000", f.maxTokens.Value())
	assert.Equal(t, "0.7", f.temp.Value())
	assert.Equal(t, api.APITypeOpenAI, apiTypes[f.apiType])
}

func TestProviderFormEditNeverPrefillsKey(t *testing.T) {
	existing := api.Provider{
		ID:           3,
		Name:         "Anthropic",
		APIType:      api.APITypeAnthropic,
		APIKey:       "sk-should-never-appear",
		DefaultModel: "claude-3-sonnet-20240229",
		MaxTokens:    2000,
		Temperature:  0.5,
	}
	f := newProviderForm(defaultTheme, &existing)

	assert.Equal(t, 3, f.editingID)
	assert.Equal(t, "Anthropic", f.name.Value())
	assert.Equal(t, api.APITypeAnthropic, apiTypes[f.apiType])
	assert.Empty(t, f.apiKey.Value(), "stored keys are write-only and must not be redisplayed")
}

func TestProviderFormToInput(t *testing.T) {
	f := newProviderForm(defaultTheme, nil)
	f.name.SetValue("OpenAI GPT-4")
	f.apiKey.SetValue("sk-test")

	input, err := f.toInput()
	require.NoError(t, err)
	assert.Equal(t, "OpenAI GPT-4", input.Name)
	assert.Equal(t, 1000, input.MaxTokens)
	assert.InDelta(t, 0.7, input.Temperature, 0.001)
}

func TestProviderFormToInputRejectsBadNumbers(t *testing.T) {
	f := newProviderForm(defaultTheme, nil)
	f.name.SetValue("OpenAI")
	f.apiKey.SetValue("sk-test")
	f.maxTokens.SetValue("molti")

	_, err := f.toInput()
	assert.Error(t, err)

	f.maxTokens.SetValue("1000")
	f.temp.SetValue("caldo")
	_, err = f.toInput()
	assert.Error(t, err)
}

func TestProviderFormCreateRequiresKey(t *testing.T) {
	f := newProviderForm(defaultTheme, nil)
	f.name.SetValue("OpenAI")

	_, err := f.toInput()
	assert.Error(t, err, "a brand new provider cannot be saved without a key")

	// Editing may leave the key blank to keep the stored one.
	existing := api.Provider{ID: 2, Name: "OpenAI", APIType: api.APITypeOpenAI, DefaultModel: "gpt-4", MaxTokens: 1000, Temperature: 0.7}
	f = newProviderForm(defaultTheme, &existing)
	_, err = f.toInput()
	assert.NoError(t, err)
}
