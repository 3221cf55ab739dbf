package models

import "time"

// Client is a concierge customer. IsVip drives every masking rule.
type Client struct {
	ID                 string    `bson:"id" json:"id"`
	Name               string    `bson:"name" json:"name"`
	Email              string    `bson:"email" json:"email"`
	Phone              string    `bson:"phone" json:"phone"`
	Company            string    `bson:"company" json:"company"`
	IsVip              bool      `bson:"is_vip" json:"isVip"`
	AvatarURL          string    `bson:"avatar_url" json:"avatarUrl"`
	TotalConversations int       `bson:"total_conversations" json:"totalConversations"`
	TotalSpend         float64   `bson:"total_spend" json:"totalSpend"`
	CreatedAt          time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updatedAt"`
}

// ClientRow is a client as seen from one viewer's permitted conversations.
type ClientRow struct {
	Client
	VisibleConversationCount int       `json:"visibleConversationCount"`
	LastActivityAt           time.Time `json:"lastActivityAt"`
	IsActive                 bool      `json:"isActive"`
}

// ClientDetail is a client row plus the conversations the viewer can see for it.
type ClientDetail struct {
	ClientRow
	Conversations []Conversation `json:"conversations"`
}
