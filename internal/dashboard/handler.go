package dashboard

import (
	"fmt"

	"fieldexpense-backend/internal/auth"
	"fieldexpense-backend/internal/database"
	"fieldexpense-backend/internal/flash"
	"fieldexpense-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RecentRecord struct {
	ID          uint    `json:"id"`
	Date        string  `json:"date"`
	MemberName  string  `json:"member_name"`
	RecordType  string  `json:"record_type"`
	TeamName    *string `json:"team_name"`
	SiteID      uint    `json:"site_id"`
	PersonCount int     `json:"person_count"`
	HighwayFee  float64 `json:"highway_fee"`
	ParkingFee  float64 `json:"parking_fee"`
	Total       float64 `json:"total"`
}

type Summary struct {
	TotalExpenses float64
	UserExpenses  float64
	RecentRecords []models.ExpenseRecord
}

const recentLimit = 5

// ComputeSummary aggregates fee totals over every record, the principal's own
// records, and the five most recent entries by date. Read-only.
func ComputeSummary(db *gorm.DB, userID uint) (*Summary, error) {
	s := &Summary{}

	sum := "COALESCE(SUM(highway_fee + parking_fee), 0)"
	if err := db.Model(&models.ExpenseRecord{}).Select(sum).Scan(&s.TotalExpenses).Error; err != nil {
		return nil, fmt.Errorf("total expenses: %w", err)
	}
	if err := db.Model(&models.ExpenseRecord{}).Where("user_id = ?", userID).Select(sum).Scan(&s.UserExpenses).Error; err != nil {
		return nil, fmt.Errorf("user expenses: %w", err)
	}
	if err := db.Order("date desc").Limit(recentLimit).Find(&s.RecentRecords).Error; err != nil {
		return nil, fmt.Errorf("recent records: %w", err)
	}

	return s, nil
}

func Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := auth.PrincipalID(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "no principal")
		}

		summary, err := ComputeSummary(database.DB, userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute dashboard")
		}

		recent := make([]RecentRecord, 0, len(summary.RecentRecords))
		for _, r := range summary.RecentRecords {
			recent = append(recent, RecentRecord{
				ID:          r.ID,
				Date:        r.Date.Format("2006-01-02"),
				MemberName:  r.MemberName,
				RecordType:  string(r.RecordType),
				TeamName:    r.TeamName,
				SiteID:      r.SiteID,
				PersonCount: r.PersonCount,
				HighwayFee:  r.HighwayFee,
				ParkingFee:  r.ParkingFee,
				Total:       r.Total(),
			})
		}

		resp := fiber.Map{
			"page":           "dashboard",
			"total_expenses": summary.TotalExpenses,
			"user_expenses":  summary.UserExpenses,
			"recent_records": recent,
		}
		if msg, ok := flash.Pop(c); ok {
			resp["flash"] = msg
		}
		return c.JSON(resp)
	}
}
