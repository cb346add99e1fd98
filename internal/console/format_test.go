package console

import (
	"strings"
	"testing"
	"time"

	"github.com/mayeuticsapp/parley/internal/api"
)

func TestFormatDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"right now", now, "Oggi"},
		{"two hours ago", now.Add(-2 * time.Hour), "Oggi"},
		{"yesterday", now.Add(-26 * time.Hour), "Ieri"},
		{"three days back", now.Add(-3 * 24 * time.Hour), "2 giorni fa"},
		{"a week back", now.Add(-7 * 24 * time.Hour), "6 giorni fa"},
		{"older than a week", now.Add(-10 * 24 * time.Hour), "05/06/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDay(tt.ts, now); got != tt.want {
				t.Errorf("FormatDay(%v) = %q, want %q", tt.ts, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2025, 6, 15, 9, 5, 0, 0, time.UTC)
	if got := FormatClock(ts); got != "09:05" {
		t.Errorf("FormatClock = %q, want %q", got, "09:05")
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status api.ConversationStatus
		want   string
	}{
		{api.StatusActive, "Attiva"},
		{api.StatusPaused, "In pausa"},
		{api.StatusCompleted, "Completata"},
		{api.ConversationStatus("weird"), "Sconosciuto"},
	}
	for _, tt := range tests {
		if got := StatusLabel(tt.status); got != tt.want {
			t.Errorf("StatusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusStyleRendersLabel(t *testing.T) {
	statuses := []api.ConversationStatus{
		api.StatusActive,
		api.StatusPaused,
		api.StatusCompleted,
		api.ConversationStatus("weird"),
	}
	for _, s := range statuses {
		label := StatusLabel(s)
		rendered := defaultTheme.statusStyle(s)(label)
		if !strings.Contains(rendered, label) {
			t.Errorf("statusStyle(%q) output %q does not contain %q", s, rendered, label)
		}
	}
}

func TestToggleID(t *testing.T) {
	ids := toggleID(nil, 3)
	ids = toggleID(ids, 5)
	if !containsID(ids, 3) || !containsID(ids, 5) {
		t.Fatalf("expected 3 and 5 selected, got %v", ids)
	}

	// Toggling again removes, leaving order intact.
	ids = toggleID(ids, 3)
	if containsID(ids, 3) {
		t.Errorf("3 should have been removed, got %v", ids)
	}
	if len(ids) != 1 || ids[0] != 5 {
		t.Errorf("expected [5], got %v", ids)
	}

	// Toggle twice is a no-op.
	before := append([]int(nil), ids...)
	ids = toggleID(toggleID(ids, 9), 9)
	if len(ids) != len(before) {
		t.Errorf("double toggle changed the set: %v vs %v", ids, before)
	}
}

func TestResolvePersonality(t *testing.T) {
	roster := []api.Personality{{ID: 1, DisplayName: "Filosofo"}}
	global := []api.Personality{
		{ID: 1, DisplayName: "Filosofo (globale)"},
		{ID: 2, DisplayName: "Scienziata"},
	}

	if p := resolvePersonality(1, roster, global); p == nil || p.DisplayName != "Filosofo" {
		t.Errorf("roster should win, got %+v", p)
	}
	if p := resolvePersonality(2, roster, global); p == nil || p.DisplayName != "Scienziata" {
		t.Errorf("expected global fallback, got %+v", p)
	}
	if p := resolvePersonality(99, roster, global); p != nil {
		t.Errorf("unknown id should resolve to nil, got %+v", p)
	}
}

func TestFormatMetadata(t *testing.T) {
	if got := formatMetadata(nil); got != "" {
		t.Errorf("nil metadata should render empty, got %q", got)
	}

	meta := &api.MessageMetadata{
		Model: "gpt-4",
		Usage: &api.MessageUsage{TotalTokens: 42},
	}
	want := "Modello: gpt-4  Token: 42"
	if got := formatMetadata(meta); got != want {
		t.Errorf("formatMetadata = %q, want %q", got, want)
	}

	meta = &api.MessageMetadata{Model: "claude-3-sonnet-20240229"}
	if got := formatMetadata(meta); got != "Modello: claude-3-sonnet-20240229" {
		t.Errorf("model-only metadata rendered %q", got)
	}
}
