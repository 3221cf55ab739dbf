package listing

import (
	"sort"
	"time"

	"concierge/models"
)

type SortField string

const (
	SortLastActivity SortField = "last_activity"
	SortDateStarted  SortField = "date_started"
	SortPriority     SortField = "priority"
	SortWaitingSince SortField = "waiting_since"
	SortSlaDue       SortField = "sla_due"
)

func (f SortField) Valid() bool {
	switch f {
	case SortLastActivity, SortDateStarted, SortPriority, SortWaitingSince, SortSlaDue:
		return true
	}
	return false
}

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// LastActivity is the latest message time, or the conversation's last update when it has none.
func LastActivity(c *models.ConversationWithRelations) time.Time {
	latest := c.UpdatedAt
	if len(c.Communications) == 0 {
		return latest
	}
	latest = time.Time{}
	for _, m := range c.Communications {
		if m.CreatedAt.After(latest) {
			latest = m.CreatedAt
		}
	}
	return latest
}

// LatestClientMessage is the newest message the client sent, and false when there is none.
func LatestClientMessage(c *models.ConversationWithRelations) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, m := range c.Communications {
		if m.Sender != models.SenderClient {
			continue
		}
		if !found || m.CreatedAt.After(latest) {
			latest = m.CreatedAt
			found = true
		}
	}
	return latest, found
}

func waitingSince(c *models.ConversationWithRelations) time.Time {
	if t, ok := LatestClientMessage(c); ok {
		return t
	}
	return c.CreatedAt
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// SortConversations orders rows in place. Equal keys fall back to ascending id so
// the order is stable across requests. For priority, ascending means most urgent first.
func SortConversations(rows []models.ConversationWithRelations, field SortField, dir SortDirection) {
	key := func(a, b *models.ConversationWithRelations) int {
		switch field {
		case SortDateStarted:
			return compareTime(a.CreatedAt, b.CreatedAt)
		case SortPriority:
			return a.Priority.Rank() - b.Priority.Rank()
		case SortWaitingSince:
			return compareTime(waitingSince(a), waitingSince(b))
		case SortSlaDue:
			return compareTime(a.SlaDueAt, b.SlaDueAt)
		default:
			return compareTime(LastActivity(a), LastActivity(b))
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := key(&rows[i], &rows[j])
		if c == 0 {
			return rows[i].ID < rows[j].ID
		}
		if dir == Asc {
			return c < 0
		}
		return c > 0
	})
}

// IsUnread reports whether the client wrote after the viewer last opened the conversation.
// A conversation without client messages is never unread; one never opened always is.
func IsUnread(c *models.ConversationWithRelations, lastRead map[string]time.Time) bool {
	latest, ok := LatestClientMessage(c)
	if !ok {
		return false
	}
	readAt, ok := lastRead[c.ID]
	if !ok {
		return true
	}
	return latest.After(readAt)
}
