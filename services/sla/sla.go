// Package sla derives a conversation's SLA state. The state is never stored;
// callers evaluate it against the clock every time it is needed.
package sla

import (
	"time"

	"concierge/models"
)

// AtRiskWindow is how close to the deadline a conversation turns at_risk.
const AtRiskWindow = 2 * time.Hour

// State classifies a conversation against its SLA deadline at now.
// Converted and closed conversations are always on_track. A missing deadline
// on an active conversation counts as breached.
func State(status models.ConversationStatus, slaDueAt, now time.Time) models.SlaState {
	if status == models.ConversationConverted || status == models.ConversationClosed {
		return models.SlaOnTrack
	}
	if slaDueAt.IsZero() {
		return models.SlaBreached
	}
	if slaDueAt.Before(now) {
		return models.SlaBreached
	}
	if slaDueAt.Sub(now) <= AtRiskWindow {
		return models.SlaAtRisk
	}
	return models.SlaOnTrack
}

// Of is State applied to a conversation.
func Of(c *models.Conversation, now time.Time) models.SlaState {
	return State(c.Status, c.SlaDueAt, now)
}
