package models

// AuditLog is one recorded mutation of a user's budgets, transactions or
// savings goals. Changes is stored as JSON text.
type AuditLog struct {
	Base
	UserID       string         `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Action       string         `gorm:"not null" json:"action"`
	ResourceType string         `gorm:"not null" json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	IPAddress    string         `json:"ip_address"`
	Changes      map[string]any `gorm:"type:text;serializer:json" json:"changes,omitempty"`
}
