package controllers

import (
	"fmt"
	"gymdesk_go/database"
	"gymdesk_go/middleware"
	"gymdesk_go/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ExportController struct{}

func sendWorkbook(c *fiber.Ctx, f *excelize.File, baseName string) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build spreadsheet",
		})
	}

	filename := fmt.Sprintf("%s_%s.xlsx", baseName, time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// ExportMembers downloads the member roster as an XLSX workbook. The same
// active_only filter as the list endpoint applies.
func (ec *ExportController) ExportMembers(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Member{}).Preload("MembershipPlan")
	if c.Query("active_only", "true") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var members []models.Member
	if err := query.Order("membership_number ASC").Find(&members).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch members",
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Members"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Membership Number", "First Name", "Last Name", "DNI", "Email", "Phone",
		"Plan", "Start Date", "End Date", "Active",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, m := range members {
		values := []interface{}{
			m.MembershipNumber,
			m.FirstName,
			m.LastName,
			m.DNI,
			m.Email,
			m.Phone,
			m.MembershipPlan.Name,
			m.MembershipStartDate.Format("2006-01-02"),
			m.MembershipEndDate.Format("2006-01-02"),
			m.IsActive,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	middleware.LogActivity(c, "EXPORT", "members", 0, fiber.Map{
		"count": len(members),
	})

	return sendWorkbook(c, f, "members")
}

// ExportPayments downloads the payment ledger as an XLSX workbook, with the
// same date range filters as the list endpoint.
func (ec *ExportController) ExportPayments(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Payment{}).Preload("Member").Preload("Verifier")

	if from := c.Query("from"); from != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", from, time.Local); err == nil {
			query = query.Where("payment_date >= ?", parsed)
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", to, time.Local); err == nil {
			query = query.Where("payment_date < ?", parsed.AddDate(0, 0, 1))
		}
	}
	if verified := c.Query("verified"); verified != "" {
		query = query.Where("is_verified = ?", verified == "true")
	}

	var payments []models.Payment
	if err := query.Order("payment_date ASC").Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Invoice", "Date", "Member", "Membership Number", "Amount", "Method",
		"Concept", "Verified", "Verified By", "Verified At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range payments {
		verifier := ""
		if p.Verifier != nil {
			verifier = p.Verifier.Username
		}
		verifiedAt := ""
		if p.VerifiedAt != nil {
			verifiedAt = p.VerifiedAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			p.InvoiceNumber,
			p.PaymentDate.Format("2006-01-02"),
			p.Member.FirstName + " " + p.Member.LastName,
			p.Member.MembershipNumber,
			p.Amount,
			p.PaymentMethod,
			p.PaymentConcept,
			p.IsVerified,
			verifier,
			verifiedAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	middleware.LogActivity(c, "EXPORT", "payments", 0, fiber.Map{
		"count": len(payments),
	})

	return sendWorkbook(c, f, "payments")
}
