package models

import "time"

type RecordType string

const (
	RecordTypeIndividual RecordType = "individual"
	RecordTypeTeam       RecordType = "team"
)

// ExpenseRecord is one travel expense entry. MemberName and TeamName are
// denormalized copies taken at submission time; the record itself is
// immutable once written.
type ExpenseRecord struct {
	ID          uint       `gorm:"primaryKey"`
	Date        time.Time  `gorm:"index;not null"`
	MemberName  string     `gorm:"size:100;not null"`
	RecordType  RecordType `gorm:"size:20;not null"`
	TeamName    *string    `gorm:"size:100"` // set only when RecordType is "team"
	SiteID      uint       `gorm:"index;not null"`
	Site        Site
	PersonCount int     `gorm:"not null;default:1"`
	HighwayFee  float64 `gorm:"not null;default:0"`
	ParkingFee  float64 `gorm:"not null;default:0"`
	UserID      uint    `gorm:"index;not null"` // the recorder
	User        User
	MemberID    uint `gorm:"index;not null"` // the subject
	Member      Member
	Notes       string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (r *ExpenseRecord) Total() float64 {
	return r.HighwayFee + r.ParkingFee
}
