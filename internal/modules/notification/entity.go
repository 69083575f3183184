package notification

import "time"

type Type string

const (
	TypeLeadAssigned   Type = "lead_assigned"
	TypeLeadConverted  Type = "lead_converted"
	TypeProjectCreated Type = "project_created"
	TypeWalletCredited Type = "wallet_credited"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

type Notification struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"userId"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Priority  Priority       `json:"priority"`
	IsRead    bool           `json:"isRead"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
