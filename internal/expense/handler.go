package expense

import (
	"errors"
	"log/slog"

	"fieldexpense-backend/internal/audit"
	"fieldexpense-backend/internal/auth"
	"fieldexpense-backend/internal/database"
	"fieldexpense-backend/internal/flash"
	"fieldexpense-backend/internal/form"
	"fieldexpense-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SiteResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// DataCollectionPageHandler lists the sites available to the entry form.
func DataCollectionPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sites []models.Site
		if err := database.DB.Order("name asc").Find(&sites).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list sites")
		}

		res := make([]SiteResponse, 0, len(sites))
		for _, s := range sites {
			res = append(res, SiteResponse{ID: s.ID, Name: s.Name, Location: s.Location})
		}

		resp := fiber.Map{"page": "data_collection", "sites": res}
		if msg, ok := flash.Pop(c); ok {
			resp["flash"] = msg
		}
		return c.JSON(resp)
	}
}

// SubmitExpenseHandler validates the form, stores the record, and bounces
// back to the dashboard with a notification.
func SubmitExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		recorderID, ok := auth.PrincipalID(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "no principal")
		}

		p := form.New(func(name string) string { return c.FormValue(name) })
		in := SubmitInput{
			Name:        p.String("name", true),
			RecordType:  models.RecordType(p.OneOf("record_type", string(models.RecordTypeIndividual), string(models.RecordTypeTeam))),
			TeamName:    p.String("team_name", false),
			SiteID:      p.Uint("site"),
			PersonCount: p.Int("person_count", 1, 1),
			HighwayFee:  p.Fee("highway_fee"),
			ParkingFee:  p.Fee("parking_fee"),
			Notes:       p.String("notes", false),
		}
		if err := p.Err(); err != nil {
			flash.Set(c, flash.LevelDanger, err.Error())
			return c.Redirect("/data_collection", fiber.StatusSeeOther)
		}

		record, err := Submit(database.DB, recorderID, in)
		if err != nil {
			if errors.Is(err, ErrSiteNotFound) {
				flash.Set(c, flash.LevelDanger, "invalid input: site: unknown site")
				return c.Redirect("/data_collection", fiber.StatusSeeOther)
			}
			slog.Error("expense submission failed", "recorder_id", recorderID, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "could not save expense record")
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      recorderID,
			UserName:    auth.PrincipalName(c),
			EntityType:  "expense_record",
			EntityID:    record.ID,
			Action:      models.AuditActionCreate,
			Description: "expense recorded for " + record.MemberName,
			After: fiber.Map{
				"id":           record.ID,
				"member_name":  record.MemberName,
				"record_type":  record.RecordType,
				"site_id":      record.SiteID,
				"person_count": record.PersonCount,
				"highway_fee":  record.HighwayFee,
				"parking_fee":  record.ParkingFee,
			},
		}); logErr != nil {
			slog.Warn("audit log write failed", "error", logErr)
		}

		flash.Set(c, flash.LevelSuccess, "expense record added")
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
}
