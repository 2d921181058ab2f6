package models

import "time"

type Team struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"`
	Description string `gorm:"size:200"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Members []Member
}
