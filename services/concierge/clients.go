package concierge

import (
	"time"

	"concierge/database/repository/store"
	"concierge/models"
	"concierge/services/permissions"
)

// clientRows derives one row per visible client from the viewer's permitted conversations.
// Last activity is the latest message in those conversations, else their latest update,
// else the client's own update time.
func clientRows(t *store.Tables, v *permissions.Viewer) []models.ClientRow {
	permitted := v.FilterConversations(t.Conversations)

	type stats struct {
		count        int
		active       bool
		lastMessage  time.Time
		lastConvEdit time.Time
	}
	byClient := make(map[string]*stats)
	convClient := make(map[string]string, len(permitted))
	for _, c := range permitted {
		st, ok := byClient[c.ClientID]
		if !ok {
			st = &stats{}
			byClient[c.ClientID] = st
		}
		st.count++
		st.active = st.active || c.Status.IsActive()
		if c.UpdatedAt.After(st.lastConvEdit) {
			st.lastConvEdit = c.UpdatedAt
		}
		convClient[c.ID] = c.ClientID
	}
	for _, m := range t.Communications {
		cid, ok := convClient[m.ConversationID]
		if !ok {
			continue
		}
		if st := byClient[cid]; m.CreatedAt.After(st.lastMessage) {
			st.lastMessage = m.CreatedAt
		}
	}

	clients := v.FilterClients(t.Clients, t.Conversations)
	rows := make([]models.ClientRow, 0, len(clients))
	for _, c := range clients {
		row := models.ClientRow{Client: c, LastActivityAt: c.UpdatedAt}
		if st, ok := byClient[c.ID]; ok {
			row.VisibleConversationCount = st.count
			row.IsActive = st.active
			switch {
			case !st.lastMessage.IsZero():
				row.LastActivityAt = st.lastMessage
			case !st.lastConvEdit.IsZero():
				row.LastActivityAt = st.lastConvEdit
			}
		}
		rows = append(rows, row)
	}
	return rows
}
