package models

import "time"

type Site struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Location  string `gorm:"size:200"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
