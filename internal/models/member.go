package models

import "time"

// Member is the person an expense record is about. Team and User links are
// optional: members created on the fly during expense entry have neither.
type Member struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	TeamID    *uint  `gorm:"index"`
	Team      *Team
	UserID    *uint `gorm:"index"`
	User      *User
	CreatedAt time.Time
	UpdatedAt time.Time
}
