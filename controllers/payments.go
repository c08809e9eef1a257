package controllers

import (
	"fmt"
	"gymdesk_go/database"
	"gymdesk_go/middleware"
	"gymdesk_go/models"
	"gymdesk_go/services"
	"gymdesk_go/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PaymentController struct{}

// PaymentRequest is the create payload for payments
type PaymentRequest struct {
	MemberID       uint    `json:"member_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gte=0"`
	PaymentMethod  string  `json:"payment_method" validate:"required"`
	PaymentConcept string  `json:"payment_concept" validate:"required"`
	PaymentDate    string  `json:"payment_date"`
	Description    string  `json:"description"`
}

// newInvoiceNumber builds a receipt reference like INV-2025-3f1a9c2e
func newInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%s", now.Year(), uuid.New().String()[:8])
}

// CreatePayment records money received against an active member. New
// payments always start unverified.
func (pc *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Amount < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Amount cannot be negative",
		})
	}
	if !utils.IsValidPaymentMethod(req.PaymentMethod) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment method",
		})
	}
	if !utils.IsValidPaymentConcept(req.PaymentConcept) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment concept",
		})
	}

	var member models.Member
	if err := database.DB.First(&member, req.MemberID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}
	if !member.IsActive {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Cannot record a payment for an inactive member",
		})
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.PaymentDate, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "payment_date must be YYYY-MM-DD",
			})
		}
		paymentDate = parsed
	}

	payment := models.Payment{
		MemberID:       member.ID,
		Amount:         req.Amount,
		PaymentDate:    paymentDate,
		PaymentMethod:  req.PaymentMethod,
		PaymentConcept: req.PaymentConcept,
		Description:    req.Description,
		InvoiceNumber:  newInvoiceNumber(paymentDate),
		IsVerified:     false,
	}

	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create payment",
		})
	}

	database.DB.Preload("Member").First(&payment, payment.ID)

	middleware.LogActivity(c, "CREATE", "payments", payment.ID, fiber.Map{
		"member_id": member.ID,
		"amount":    payment.Amount,
		"invoice":   payment.InvoiceNumber,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"payment": payment,
	})
}

// GetPayments lists payments, newest first, with optional filters:
// member_id, method, concept, verified, from/to dates.
func (pc *PaymentController) GetPayments(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Payment{}).Preload("Member").Preload("Verifier")

	if memberID := c.QueryInt("member_id"); memberID > 0 {
		query = query.Where("member_id = ?", memberID)
	}
	if method := c.Query("method"); method != "" {
		query = query.Where("payment_method = ?", method)
	}
	if concept := c.Query("concept"); concept != "" {
		query = query.Where("payment_concept = ?", concept)
	}
	if verified := c.Query("verified"); verified != "" {
		query = query.Where("is_verified = ?", verified == "true")
	}
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

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 50)
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	if err := query.Order("payment_date DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	return c.JSON(fiber.Map{
		"payments": payments,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// GetPayment returns a single payment
func (pc *PaymentController) GetPayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.Preload("Member").Preload("Verifier").First(&payment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	return c.JSON(fiber.Map{
		"payment": payment,
	})
}

// UpdatePayment edits an unverified payment's details. Verified payments are
// frozen until unverified.
func (pc *PaymentController) UpdatePayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if err := services.ValidatePaymentMutable(&payment); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req struct {
		Amount         *float64 `json:"amount"`
		PaymentMethod  *string  `json:"payment_method"`
		PaymentConcept *string  `json:"payment_concept"`
		PaymentDate    *string  `json:"payment_date"`
		Description    *string  `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Amount cannot be negative",
			})
		}
		updates["amount"] = *req.Amount
	}
	if req.PaymentMethod != nil {
		if !utils.IsValidPaymentMethod(*req.PaymentMethod) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid payment method",
			})
		}
		updates["payment_method"] = *req.PaymentMethod
	}
	if req.PaymentConcept != nil {
		if !utils.IsValidPaymentConcept(*req.PaymentConcept) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid payment concept",
			})
		}
		updates["payment_concept"] = *req.PaymentConcept
	}
	if req.PaymentDate != nil {
		parsed, err := time.ParseInLocation("2006-01-02", *req.PaymentDate, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "payment_date must be YYYY-MM-DD",
			})
		}
		updates["payment_date"] = parsed
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&payment).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update payment",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "payments", payment.ID, fiber.Map{
		"invoice": payment.InvoiceNumber,
	})

	return c.JSON(fiber.Map{
		"message": "Payment updated successfully",
		"payment": payment,
	})
}

// VerifyPayment marks a payment as confirmed received, stamping the verifier
// and timestamp. Only verified payments count toward revenue.
func (pc *PaymentController) VerifyPayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if err := services.ValidatePaymentVerify(&payment); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	now := time.Now()
	if err := database.DB.Model(&payment).Updates(map[string]interface{}{
		"is_verified":    true,
		"verified_by_id": user.ID,
		"verified_at":    now,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to verify payment",
		})
	}

	middleware.LogActivity(c, "UPDATE", "payments", payment.ID, fiber.Map{
		"action":  "verify",
		"invoice": payment.InvoiceNumber,
	})

	database.DB.Preload("Member").Preload("Verifier").First(&payment, payment.ID)

	return c.JSON(fiber.Map{
		"message": "Payment verified successfully",
		"payment": payment,
	})
}

// UnverifyPayment clears the verification fields of a verified payment
func (pc *PaymentController) UnverifyPayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if err := services.ValidatePaymentUnverify(&payment); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := database.DB.Model(&payment).Updates(map[string]interface{}{
		"is_verified":    false,
		"verified_by_id": nil,
		"verified_at":    nil,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to unverify payment",
		})
	}

	middleware.LogActivity(c, "UPDATE", "payments", payment.ID, fiber.Map{
		"action":  "unverify",
		"invoice": payment.InvoiceNumber,
	})

	return c.JSON(fiber.Map{
		"message": "Payment unverified successfully",
	})
}

// DeletePayment removes an unverified payment. Verified payments are audited
// revenue and must be unverified before deletion.
func (pc *PaymentController) DeletePayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if err := services.ValidatePaymentMutable(&payment); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := database.DB.Delete(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete payment",
		})
	}

	middleware.LogActivity(c, "DELETE", "payments", payment.ID, fiber.Map{
		"invoice": payment.InvoiceNumber,
	})

	return c.JSON(fiber.Map{
		"message": "Payment deleted successfully",
	})
}

// GetTodayStats returns today's payment statistics. Revenue counts verified
// payments only; the raw count includes unverified ones.
func (pc *PaymentController) GetTodayStats(c *fiber.Ctx) error {
	dayStart, dayEnd := services.DayWindow(time.Now())

	var totalCount int64
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ?", dayStart, dayEnd).
		Count(&totalCount)

	var verifiedCount int64
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ? AND is_verified = ?", dayStart, dayEnd, true).
		Count(&verifiedCount)

	var revenue float64
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ? AND is_verified = ?", dayStart, dayEnd, true).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue)

	type methodRow struct {
		PaymentMethod string  `json:"payment_method"`
		Count         int64   `json:"count"`
		Total         float64 `json:"total"`
	}
	var byMethod []methodRow
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ? AND is_verified = ?", dayStart, dayEnd, true).
		Select("payment_method, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Group("payment_method").
		Scan(&byMethod)

	return c.JSON(fiber.Map{
		"date":             dayStart.Format("2006-01-02"),
		"total_payments":   totalCount,
		"verified_count":   verifiedCount,
		"unverified_count": totalCount - verifiedCount,
		"revenue":          revenue,
		"by_method":        byMethod,
	})
}

// GetMonthStats returns current-month payment statistics, verified revenue
// separated from raw counts. Pass year and month query params for other months.
func (pc *PaymentController) GetMonthStats(c *fiber.Ctx) error {
	now := time.Now()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "month must be between 1 and 12",
		})
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var totalCount int64
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ?", monthStart, monthEnd).
		Count(&totalCount)

	var verifiedCount int64
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ? AND is_verified = ?", monthStart, monthEnd, true).
		Count(&verifiedCount)

	var revenue float64
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ? AND is_verified = ?", monthStart, monthEnd, true).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue)

	type conceptRow struct {
		PaymentConcept string  `json:"payment_concept"`
		Count          int64   `json:"count"`
		Total          float64 `json:"total"`
	}
	var byConcept []conceptRow
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ? AND is_verified = ?", monthStart, monthEnd, true).
		Select("payment_concept, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Group("payment_concept").
		Scan(&byConcept)

	return c.JSON(fiber.Map{
		"year":             year,
		"month":            month,
		"total_payments":   totalCount,
		"verified_count":   verifiedCount,
		"unverified_count": totalCount - verifiedCount,
		"revenue":          revenue,
		"by_concept":       byConcept,
	})
}
