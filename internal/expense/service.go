package expense

import (
	"errors"
	"fmt"
	"time"

	"fieldexpense-backend/internal/models"

	"gorm.io/gorm"
)

// ErrSiteNotFound means the submitted site id does not resolve to a Site row.
// Checked before insert so a dangling reference can never be written.
var ErrSiteNotFound = errors.New("site not found")

type SubmitInput struct {
	Name        string
	RecordType  models.RecordType
	TeamName    string
	SiteID      uint
	PersonCount int
	HighwayFee  float64
	ParkingFee  float64
	Notes       string
}

// Submit stores one expense record for the given recorder. The member is
// found by exact name or created without team/user association. Member names
// carry a uniqueness index, so a concurrent first submission for the same
// name loses the insert and re-reads the winner's row.
func Submit(db *gorm.DB, recorderID uint, in SubmitInput) (*models.ExpenseRecord, error) {
	var record *models.ExpenseRecord

	err := db.Transaction(func(tx *gorm.DB) error {
		var site models.Site
		if err := tx.First(&site, "id = ?", in.SiteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSiteNotFound
			}
			return fmt.Errorf("look up site: %w", err)
		}

		member, err := findOrCreateMember(tx, in.Name)
		if err != nil {
			return err
		}

		// team_name is only meaningful for team records; anything submitted
		// alongside an individual record is discarded.
		var teamName *string
		if in.RecordType == models.RecordTypeTeam && in.TeamName != "" {
			teamName = &in.TeamName
		}

		rec := models.ExpenseRecord{
			Date:        time.Now(),
			MemberName:  in.Name,
			RecordType:  in.RecordType,
			TeamName:    teamName,
			SiteID:      site.ID,
			PersonCount: in.PersonCount,
			HighwayFee:  in.HighwayFee,
			ParkingFee:  in.ParkingFee,
			UserID:      recorderID,
			MemberID:    member.ID,
			Notes:       in.Notes,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("create expense record: %w", err)
		}

		record = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func findOrCreateMember(tx *gorm.DB, name string) (*models.Member, error) {
	var member models.Member
	err := tx.Where("name = ?", name).First(&member).Error
	if err == nil {
		return &member, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up member: %w", err)
	}

	member = models.Member{Name: name}
	if createErr := tx.Create(&member).Error; createErr != nil {
		// Unique index violation: another request created the row first.
		if fetchErr := tx.Where("name = ?", name).First(&member).Error; fetchErr != nil {
			return nil, fmt.Errorf("create member: %w", createErr)
		}
	}
	return &member, nil
}
