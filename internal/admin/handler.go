package admin

import (
	"errors"
	"log/slog"
	"strings"

	"fieldexpense-backend/internal/audit"
	"fieldexpense-backend/internal/auth"
	"fieldexpense-backend/internal/database"
	"fieldexpense-backend/internal/flash"
	"fieldexpense-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

type TeamResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SiteResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type RecordResponse struct {
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
	RecordedBy  uint    `json:"recorded_by"`
}

type AuditLogResponse struct {
	ID          uint   `json:"id"`
	CreatedAt   string `json:"created_at"`
	UserName    string `json:"user_name"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

type CreateSiteRequest struct {
	Name     string `json:"name" form:"name"`
	Location string `json:"location" form:"location"`
}

type CreateTeamRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// OverviewHandler returns unfiltered reads of every collection, records
// newest first.
func OverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list users")
		}
		var teams []models.Team
		if err := database.DB.Find(&teams).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list teams")
		}
		var sites []models.Site
		if err := database.DB.Find(&sites).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list sites")
		}
		var records []models.ExpenseRecord
		if err := database.DB.Order("date desc").Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list records")
		}
		var logs []models.AuditLog
		if err := database.DB.Order("created_at desc").Limit(50).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list audit logs")
		}

		userRes := make([]UserResponse, 0, len(users))
		for _, u := range users {
			userRes = append(userRes, UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin})
		}
		teamRes := make([]TeamResponse, 0, len(teams))
		for _, t := range teams {
			teamRes = append(teamRes, TeamResponse{ID: t.ID, Name: t.Name, Description: t.Description})
		}
		siteRes := make([]SiteResponse, 0, len(sites))
		for _, s := range sites {
			siteRes = append(siteRes, SiteResponse{ID: s.ID, Name: s.Name, Location: s.Location})
		}
		recordRes := make([]RecordResponse, 0, len(records))
		for _, r := range records {
			recordRes = append(recordRes, RecordResponse{
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
				RecordedBy:  r.UserID,
			})
		}
		logRes := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			logRes = append(logRes, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      string(l.Action),
				Description: l.Description,
			})
		}

		resp := fiber.Map{
			"page":       "admin",
			"users":      userRes,
			"teams":      teamRes,
			"sites":      siteRes,
			"records":    recordRes,
			"audit_logs": logRes,
		}
		if msg, ok := flash.Pop(c); ok {
			resp["flash"] = msg
		}
		return c.JSON(resp)
	}
}

func CreateSiteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSiteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		site := models.Site{Name: body.Name, Location: strings.TrimSpace(body.Location)}
		if err := database.DB.Create(&site).Error; err != nil {
			if isDuplicate(database.DB, &models.Site{}, "name", body.Name) {
				return fiber.NewError(fiber.StatusConflict, "site name already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create site")
		}

		writeCreateLog(c, "site", site.ID, "site created: "+site.Name)

		return c.Status(fiber.StatusCreated).JSON(SiteResponse{ID: site.ID, Name: site.Name, Location: site.Location})
	}
}

func CreateTeamHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTeamRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		team := models.Team{Name: body.Name, Description: strings.TrimSpace(body.Description)}
		if err := database.DB.Create(&team).Error; err != nil {
			if isDuplicate(database.DB, &models.Team{}, "name", body.Name) {
				return fiber.NewError(fiber.StatusConflict, "team name already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create team")
		}

		writeCreateLog(c, "team", team.ID, "team created: "+team.Name)

		return c.Status(fiber.StatusCreated).JSON(TeamResponse{ID: team.ID, Name: team.Name, Description: team.Description})
	}
}

// isDuplicate distinguishes a unique-constraint failure from other create
// errors without depending on driver-specific error types.
func isDuplicate(db *gorm.DB, model any, column, value string) bool {
	var count int64
	if err := db.Model(model).Where(column+" = ?", value).Count(&count).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	return count > 0
}

func writeCreateLog(c *fiber.Ctx, entityType string, entityID uint, description string) {
	userID, _ := auth.PrincipalID(c)
	if err := audit.WriteLog(database.DB, audit.LogOptions{
		UserID:      userID,
		UserName:    auth.PrincipalName(c),
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      models.AuditActionCreate,
		Description: description,
	}); err != nil {
		slog.Warn("audit log write failed", "error", err)
	}
}
