package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"fieldexpense-backend/internal/database"
	"fieldexpense-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ErrMissingReference means a stored record points at a site or member that
// no longer resolves. That is a data-integrity bug; exports fail loudly
// instead of skipping the row.
var ErrMissingReference = errors.New("missing reference")

var header = []string{"date", "member", "team", "site", "highway_fee", "parking_fee", "total"}

// noTeamMarker fills the team column for members without a team.
const noTeamMarker = "individual"

// Rows resolves every expense record into the seven-column export contract.
func Rows(db *gorm.DB) ([][]string, error) {
	var records []models.ExpenseRecord
	if err := db.Preload("Site").Preload("Member.Team").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		if r.Site.ID == 0 {
			return nil, fmt.Errorf("record %d: site %d: %w", r.ID, r.SiteID, ErrMissingReference)
		}
		if r.Member.ID == 0 {
			return nil, fmt.Errorf("record %d: member %d: %w", r.ID, r.MemberID, ErrMissingReference)
		}

		team := noTeamMarker
		if r.Member.Team != nil {
			team = r.Member.Team.Name
		}

		rows = append(rows, []string{
			r.Date.Format("2006-01-02"),
			r.Member.Name,
			team,
			r.Site.Name,
			formatFee(r.HighwayFee),
			formatFee(r.ParkingFee),
			formatFee(r.Total()),
		})
	}
	return rows, nil
}

// CSVHandler streams every record as a downloadable CSV file.
func CSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := Rows(database.DB)
		if err != nil {
			// MissingReference is fatal, not maskable; surface it as-is.
			return err
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		if err := w.WriteAll(rows); err != nil {
			return fmt.Errorf("write csv rows: %w", err)
		}

		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="expense_records.csv"`)
		return c.Send(buf.Bytes())
	}
}

// XLSXHandler exports the same seven columns as a spreadsheet.
func XLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := Rows(database.DB)
		if err != nil {
			return err
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		for i, cell := range header {
			name, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				return fmt.Errorf("xlsx header cell: %w", err)
			}
			if err := f.SetCellValue(sheet, name, cell); err != nil {
				return fmt.Errorf("xlsx header cell: %w", err)
			}
		}
		for rowIdx, row := range rows {
			for colIdx, value := range row {
				name, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				if err != nil {
					return fmt.Errorf("xlsx cell: %w", err)
				}
				if err := f.SetCellValue(sheet, name, value); err != nil {
					return fmt.Errorf("xlsx cell: %w", err)
				}
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="expense_records.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

func formatFee(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
