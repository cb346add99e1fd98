package console

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayeuticsapp/parley/internal/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testViewer(t *testing.T) viewer {
	t.Helper()
	v := newViewer(api.New("http://127.0.0.1:1"), testLogger(), defaultTheme)
	v.setSize(80, 24)
	return v
}

func testBundle(id int) *api.ConversationBundle {
	return &api.ConversationBundle{
		Conversation: api.Conversation{
			ID:     id,
			Title:  "Dibattito",
			Status: api.StatusActive,
		},
		Participants: []api.Personality{
			{ID: 1, DisplayName: "Filosofo", ColorTheme: "#3B82F6"},
			{ID: 2, DisplayName: "Scienziata", ColorTheme: "#10B981"},
		},
		Messages: []api.Message{
			{ID: 10, SenderType: api.SenderUser, Content: "Ciao", CreatedAt: time.Now()},
		},
	}
}

func TestViewerBundleLoadReplacesState(t *testing.T) {
	v := testViewer(t)
	cmd := v.open(7)
	require.NotNil(t, cmd)
	assert.Equal(t, stateLoading, v.state)

	v, _ = v.update(bundleLoadedMsg{id: 7, bundle: testBundle(7)})

	assert.Equal(t, stateReady, v.state)
	require.NotNil(t, v.conversation)
	assert.Equal(t, "Dibattito", v.conversation.Title)
	assert.Len(t, v.participants, 2)
	assert.Len(t, v.messages, 1)
	assert.Empty(t, v.errMsg)
}

func TestViewerLoadErrorKeepsPriorTranscript(t *testing.T) {
	v := testViewer(t)
	v.open(7)
	v, _ = v.update(bundleLoadedMsg{id: 7, bundle: testBundle(7)})

	v, _ = v.update(bundleLoadedMsg{id: 7, err: errors.New("connessione rifiutata")})

	// The failure is surfaced but the transcript already shown survives.
	assert.Equal(t, "connessione rifiutata", v.errMsg)
	require.NotNil(t, v.conversation)
	assert.Len(t, v.messages, 1)
	assert.NotEqual(t, stateFailed, v.state)
}

func TestViewerLoadErrorWithoutPriorFails(t *testing.T) {
	v := testViewer(t)
	v.open(7)

	v, _ = v.update(bundleLoadedMsg{id: 7, err: errors.New("boom")})

	assert.Equal(t, stateFailed, v.state)
	assert.Equal(t, "boom", v.errMsg)
}

func TestViewerIgnoresStaleBundle(t *testing.T) {
	v := testViewer(t)
	v.open(7)

	v, _ = v.update(bundleLoadedMsg{id: 9, bundle: testBundle(9)})

	assert.Equal(t, stateLoading, v.state)
	assert.Nil(t, v.conversation)
}

func TestViewerSendRequiresText(t *testing.T) {
	v := testViewer(t)
	v.open(7)
	v, _ = v.update(bundleLoadedMsg{id: 7, bundle: testBundle(7)})

	v.input.SetValue("   ")
	v, cmd := v.sendUserMessage()
	assert.Nil(t, cmd)
	assert.False(t, v.sending)

	v.input.SetValue("Che ne pensate?")
	v, cmd = v.sendUserMessage()
	require.NotNil(t, cmd)
	assert.True(t, v.sending)
	assert.Empty(t, v.input.Value())
}

func TestViewerMessageSentReloads(t *testing.T) {
	v := testViewer(t)
	v.open(7)
	v, _ = v.update(bundleLoadedMsg{id: 7, bundle: testBundle(7)})
	v.sending = true

	v, cmd := v.update(messageSentMsg{conversationID: 7})

	assert.False(t, v.sending)
	require.NotNil(t, cmd, "successful send must trigger a full reload")
}

func TestViewerMessageSendFailureShowsError(t *testing.T) {
	v := testViewer(t)
	v.open(7)
	v, _ = v.update(bundleLoadedMsg{id: 7, bundle: testBundle(7)})
	v.sending = true

	v, cmd := v.update(messageSentMsg{conversationID: 7, err: errors.New("server error")})

	assert.False(t, v.sending)
	assert.Nil(t, cmd)
	assert.Equal(t, "server error", v.errMsg)
}

func TestViewerAutoContinueNeedsTwoParticipants(t *testing.T) {
	v := testViewer(t)
	v.open(7)
	bundle := testBundle(7)
	bundle.Participants = bundle.Participants[:1]
	v, _ = v.update(bundleLoadedMsg{id: 7, bundle: bundle})

	v, cmd := v.startAutoContinue()
	assert.Nil(t, cmd)
	assert.False(t, v.autoRunning)
}

func TestViewerAutoContinueRuns(t *testing.T) {
	v := testViewer(t)
	v.open(7)
	v, _ = v.update(bundleLoadedMsg{id: 7, bundle: testBundle(7)})

	v, cmd := v.startAutoContinue()
	require.NotNil(t, cmd)
	assert.True(t, v.autoRunning)

	v, cmd = v.update(autoContinuedMsg{conversationID: 7})
	assert.False(t, v.autoRunning)
	require.NotNil(t, cmd, "auto-continue completion must trigger a reload")
}
