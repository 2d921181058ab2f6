package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
)

// AuditLog records who created what. Expense records are immutable, so only
// create actions exist.
type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID   uint
	UserName string `gorm:"size:100"` // denormalized

	EntityType string `gorm:"size:50;index"` // "expense_record", "user", "site", "team"
	EntityID   uint   `gorm:"index"`

	Action      AuditAction `gorm:"size:20"`
	Description string      `gorm:"size:255"`

	// Snapshot of the entity after the action, as JSON.
	AfterData string `gorm:"type:text"`
}
