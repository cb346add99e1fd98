package console

import (
	"fmt"
	"math"
	"time"

	"github.com/mayeuticsapp/parley/internal/api"
)

// FormatDay buckets a timestamp by day distance from now, the way the
// conversations list shows recency: Oggi, Ieri, "N giorni fa" up to a week,
// then the absolute date.
func FormatDay(ts, now time.Time) string {
	diff := now.Sub(ts)
	if diff < 0 {
		diff = -diff
	}
	diffDays := int(math.Ceil(diff.Hours() / 24))
	if diffDays < 1 {
		diffDays = 1
	}

	switch {
	case diffDays == 1:
		return "Oggi"
	case diffDays == 2:
		return "Ieri"
	case diffDays <= 7:
		return fmt.Sprintf("%d giorni fa", diffDays-1)
	default:
		return ts.Format("02/01/2006")
	}
}

// FormatClock renders a message timestamp as HH:mm.
func FormatClock(ts time.Time) string {
	return ts.Format("15:04")
}

// StatusLabel returns the Italian label for a conversation status.
func StatusLabel(s api.ConversationStatus) string {
	switch s {
	case api.StatusActive:
		return "Attiva"
	case api.StatusPaused:
		return "In pausa"
	case api.StatusCompleted:
		return "Completata"
	default:
		return "Sconosciuto"
	}
}

// statusStyle maps a conversation status to a theme style.
func (t Theme) statusStyle(s api.ConversationStatus) func(...string) string {
	switch s {
	case api.StatusActive:
		return t.successStyle().Render
	case api.StatusPaused:
		return t.warningStyle().Render
	case api.StatusCompleted:
		return t.selectedStyle().Render
	default:
		return t.hintStyle().Render
	}
}

// resolvePersonality looks a personality up by id, preferring the
// conversation roster and falling back to the global list: a participant
// may have been removed from the roster while the personality still exists.
func resolvePersonality(id int, participants, all []api.Personality) *api.Personality {
	for i := range participants {
		if participants[i].ID == id {
			return &participants[i]
		}
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i]
		}
	}
	return nil
}

// toggleID adds the id to the set if absent, removes it if present,
// preserving the order of the remaining entries.
func toggleID(ids []int, id int) []int {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}

// containsID reports whether id is in ids.
func containsID(ids []int, id int) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
