package listing

import (
	"testing"
	"time"

	"concierge/database/repository/store"
	"concierge/models"
	"concierge/services/relations"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func inbox(t *testing.T) []models.ConversationWithRelations {
	t.Helper()
	data, err := store.DemoData(now)
	if err != nil {
		t.Fatalf("DemoData: %v", err)
	}
	return relations.New(data, now).AllConversations()
}

func ids(rows []models.ConversationWithRelations) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func same(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterConversations(t *testing.T) {
	rows := inbox(t)
	tests := []struct {
		name   string
		filter ConversationFilter
		want   []string
	}{
		{"no filter", ConversationFilter{}, []string{"conv-1", "conv-2", "conv-3", "conv-4", "conv-5", "conv-6", "conv-7"}},
		{"search client name", ConversationFilter{Search: "ashworth"}, []string{"conv-1", "conv-2"}},
		{"search location", ConversationFilter{Search: "CITY AIRPORT"}, []string{"conv-3"}},
		{"status", ConversationFilter{Statuses: []models.ConversationStatus{models.ConversationNew}}, []string{"conv-3", "conv-4"}},
		{"channel", ConversationFilter{Channels: []models.Channel{models.ChannelEmail}}, []string{"conv-2", "conv-5"}},
		{"assignee", ConversationFilter{AssigneeIDs: []string{"usr-3"}}, []string{"conv-1", "conv-2"}},
		{"vip only", ConversationFilter{VipOnly: true}, []string{"conv-1", "conv-2", "conv-4"}},
		{"sla breached", ConversationFilter{SlaStates: []models.SlaState{models.SlaBreached}}, []string{"conv-3"}},
		{"created since two days", ConversationFilter{DateFrom: now.Add(-48 * time.Hour)}, []string{"conv-1", "conv-3", "conv-4"}},
		{"created before a week", ConversationFilter{DateTo: now.AddDate(0, 0, -7)}, []string{"conv-2", "conv-6", "conv-7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(FilterConversations(rows, tt.filter)); !same(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortConversations(t *testing.T) {
	rows := inbox(t)

	SortConversations(rows, SortPriority, Asc)
	if rows[0].ID != "conv-1" {
		t.Errorf("critical conversation should lead, got %s", rows[0].ID)
	}
	// conv-2 and conv-3 are both high; ties break on id.
	if rows[1].ID != "conv-2" || rows[2].ID != "conv-3" {
		t.Errorf("priority tie order = %v", ids(rows))
	}

	SortConversations(rows, SortDateStarted, Desc)
	if rows[0].ID != "conv-1" || rows[len(rows)-1].ID != "conv-7" {
		t.Errorf("date_started desc = %v", ids(rows))
	}

	SortConversations(rows, SortSlaDue, Asc)
	if rows[0].ID != "conv-7" {
		t.Errorf("sla_due asc should start with the oldest deadline, got %v", ids(rows))
	}

	SortConversations(rows, SortLastActivity, Desc)
	if rows[0].ID != "conv-1" {
		t.Errorf("last_activity desc = %v", ids(rows))
	}
}

func TestIsUnread(t *testing.T) {
	rows := inbox(t)
	byID := map[string]*models.ConversationWithRelations{}
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	if !IsUnread(byID["conv-1"], nil) {
		t.Error("never-opened conversation with client messages should be unread")
	}
	if IsUnread(byID["conv-5"], nil) {
		t.Error("conversation without client messages should be read")
	}
	markers := map[string]time.Time{"conv-1": now.Add(-2 * time.Hour)}
	if !IsUnread(byID["conv-1"], markers) {
		t.Error("client wrote after the marker, should be unread")
	}
	markers["conv-1"] = now
	if IsUnread(byID["conv-1"], markers) {
		t.Error("marker after the last client message, should be read")
	}
}

func TestFilterClients(t *testing.T) {
	rows := []models.ClientRow{
		{Client: models.Client{ID: "cl-1", Name: "Richard Ashworth", IsVip: true}, IsActive: true},
		{Client: models.Client{ID: "cl-2", Name: "Sofia Lindqvist", Email: "sofia@nordmail.se"}},
		{Client: models.Client{ID: "cl-3", Name: "Henry Whitmore", Company: "Whitmore Partners"}, IsActive: true},
	}
	if got := FilterClients(rows, ClientFilter{Search: "nordmail"}); len(got) != 1 || got[0].ID != "cl-2" {
		t.Errorf("search by email = %+v", got)
	}
	if got := FilterClients(rows, ClientFilter{Search: "partners"}); len(got) != 1 || got[0].ID != "cl-3" {
		t.Errorf("search by company = %+v", got)
	}
	if got := FilterClients(rows, ClientFilter{ActiveOnly: true, VipOnly: true}); len(got) != 1 || got[0].ID != "cl-1" {
		t.Errorf("active vip = %+v", got)
	}
}
