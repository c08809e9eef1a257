package controllers

import (
	"errors"
	"gymdesk_go/database"
	"gymdesk_go/middleware"
	"gymdesk_go/models"
	"gymdesk_go/services"
	"gymdesk_go/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MemberController struct{}

// MemberRequest is the create/update payload for members. Dates use the
// YYYY-MM-DD wire format.
type MemberRequest struct {
	MembershipNumber      string `json:"membership_number"`
	FirstName             string `json:"first_name" validate:"required"`
	LastName              string `json:"last_name" validate:"required"`
	DNI                   string `json:"dni" validate:"required"`
	Email                 string `json:"email" validate:"required,email"`
	Phone                 string `json:"phone"`
	Address               string `json:"address"`
	BirthDate             string `json:"birth_date"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	MembershipPlanID      uint   `json:"membership_plan_id" validate:"required"`
	MembershipStartDate   string `json:"membership_start_date"`
	MembershipEndDate     string `json:"membership_end_date"`
	TrainerID             *uint  `json:"trainer_id"`
	Notes                 string `json:"notes"`
}

func parseDateField(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateMember registers a new gym member. The membership number is generated
// per calendar year unless the caller supplies one explicitly, and the end
// date defaults to one calendar month after the start date.
func (mc *MemberController) CreateMember(c *fiber.Ctx) error {
	var req MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.FirstName = utils.SanitizeString(req.FirstName)
	req.LastName = utils.SanitizeString(req.LastName)
	req.DNI = utils.SanitizeString(req.DNI)
	req.Email = utils.SanitizeString(req.Email)

	if req.FirstName == "" || req.LastName == "" || req.DNI == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "first_name, last_name, dni and email are required",
		})
	}

	var plan models.MembershipPlan
	if err := database.DB.First(&plan, req.MembershipPlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Membership plan not found",
		})
	}
	if !plan.IsActive {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Membership plan is no longer offered",
		})
	}

	if req.TrainerID != nil {
		var trainer models.User
		if err := database.DB.Where("id = ? AND is_active = ?", *req.TrainerID, true).First(&trainer).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Trainer not found",
			})
		}
	}

	// Advisory uniqueness pre-checks. The unique indexes are the authority;
	// these just produce friendlier errors for the common case.
	var existing models.Member
	if err := database.DB.Where("dni = ?", req.DNI).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A member with this DNI already exists",
		})
	}
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A member with this email already exists",
		})
	}

	ms := services.NewMembershipService()

	startDate := ms.Today()
	if req.MembershipStartDate != "" {
		parsed, err := parseDateField(req.MembershipStartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "membership_start_date must be YYYY-MM-DD",
			})
		}
		startDate = *parsed
	}

	endDate := services.ComputeMembershipEndDate(startDate)
	if req.MembershipEndDate != "" {
		parsed, err := parseDateField(req.MembershipEndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "membership_end_date must be YYYY-MM-DD",
			})
		}
		if !services.MembershipWindowValid(startDate, *parsed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "membership_end_date cannot be before membership_start_date",
			})
		}
		endDate = *parsed
	}

	birthDate, err := parseDateField(req.BirthDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "birth_date must be YYYY-MM-DD",
		})
	}

	explicitNumber := req.MembershipNumber != ""
	membershipNumber := req.MembershipNumber
	if explicitNumber {
		if err := database.DB.Where("membership_number = ?", membershipNumber).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Membership number already taken",
			})
		}
	} else {
		membershipNumber, err = ms.NextMembershipNumber()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to generate membership number",
			})
		}
	}

	member := models.Member{
		MembershipNumber:      membershipNumber,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DNI:                   req.DNI,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		BirthDate:             birthDate,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		MembershipPlanID:      req.MembershipPlanID,
		MembershipStartDate:   startDate,
		MembershipEndDate:     endDate,
		TrainerID:             req.TrainerID,
		Notes:                 req.Notes,
		IsActive:              true,
	}

	err = database.DB.Create(&member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && !explicitNumber {
		// Two simultaneous registrations can race the read for the last
		// number of the year. The unique index catches it; retry once with
		// a fresh number.
		membershipNumber, genErr := ms.NextMembershipNumber()
		if genErr == nil {
			member.ID = 0
			member.MembershipNumber = membershipNumber
			err = database.DB.Create(&member).Error
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Membership number, DNI or email already taken",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create member",
		})
	}

	database.DB.Preload("MembershipPlan").Preload("Trainer").First(&member, member.ID)

	middleware.LogActivity(c, "CREATE", "members", member.ID, fiber.Map{
		"membership_number": member.MembershipNumber,
		"name":              member.FirstName + " " + member.LastName,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Member created successfully",
		"member":  member,
	})
}

// GetMembers lists members with optional filters: active_only, plan_id,
// expired, and a free-text search over name, membership number, DNI and email.
func (mc *MemberController) GetMembers(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Member{}).Preload("MembershipPlan").Preload("Trainer")

	if c.Query("active_only", "true") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if planID := c.QueryInt("plan_id"); planID > 0 {
		query = query.Where("membership_plan_id = ?", planID)
	}
	if c.Query("expired") == "true" {
		query = query.Where("membership_end_date < ?", services.DateOnly(time.Now()))
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR membership_number LIKE ? OR dni LIKE ? OR email LIKE ?",
			like, like, like, like, like,
		)
	}

	// Pagination
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

	var members []models.Member
	if err := query.Order("membership_number ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&members).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch members",
		})
	}

	return c.JSON(fiber.Map{
		"members":  members,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// GetMember returns one member with plan and trainer preloaded
func (mc *MemberController) GetMember(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var member models.Member
	if err := database.DB.Preload("MembershipPlan").Preload("Trainer").First(&member, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	var verifiedTotal float64
	database.DB.Model(&models.Payment{}).
		Where("member_id = ? AND is_verified = ?", member.ID, true).
		Select("COALESCE(SUM(amount), 0)").Scan(&verifiedTotal)

	var totalVisits int64
	database.DB.Model(&models.Attendance{}).
		Where("member_id = ?", member.ID).
		Count(&totalVisits)

	return c.JSON(fiber.Map{
		"member":         member,
		"verified_total": verifiedTotal,
		"total_visits":   totalVisits,
	})
}

// UpdateMember edits a member. Uniqueness of email, DNI and membership number
// is re-validated excluding the member's own row.
func (mc *MemberController) UpdateMember(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var member models.Member
	if err := database.DB.First(&member, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	var req struct {
		MembershipNumber    *string `json:"membership_number"`
		FirstName           *string `json:"first_name"`
		LastName            *string `json:"last_name"`
		DNI                 *string `json:"dni"`
		Email               *string `json:"email"`
		Phone               *string `json:"phone"`
		Address             *string `json:"address"`
		BirthDate           *string `json:"birth_date"`
		MembershipPlanID    *uint   `json:"membership_plan_id"`
		MembershipStartDate *string `json:"membership_start_date"`
		MembershipEndDate   *string `json:"membership_end_date"`
		EmergencyContactName  *string `json:"emergency_contact_name"`
		EmergencyContactPhone *string `json:"emergency_contact_phone"`
		TrainerID             *uint   `json:"trainer_id"`
		Notes                 *string `json:"notes"`
		IsActive              *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	var other models.Member

	if req.MembershipNumber != nil && *req.MembershipNumber != member.MembershipNumber {
		if err := database.DB.Where("membership_number = ? AND id <> ?", *req.MembershipNumber, member.ID).First(&other).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Membership number already taken",
			})
		}
		updates["membership_number"] = *req.MembershipNumber
	}
	if req.Email != nil && *req.Email != member.Email {
		email := utils.SanitizeString(*req.Email)
		if err := database.DB.Where("email = ? AND id <> ?", email, member.ID).First(&other).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A member with this email already exists",
			})
		}
		updates["email"] = email
	}
	if req.DNI != nil && *req.DNI != member.DNI {
		dni := utils.SanitizeString(*req.DNI)
		if err := database.DB.Where("dni = ? AND id <> ?", dni, member.ID).First(&other).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A member with this DNI already exists",
			})
		}
		updates["dni"] = dni
	}
	if req.FirstName != nil {
		updates["first_name"] = utils.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = utils.SanitizeString(*req.LastName)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.EmergencyContactName != nil {
		updates["emergency_contact_name"] = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		updates["emergency_contact_phone"] = *req.EmergencyContactPhone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.BirthDate != nil {
		parsed, err := parseDateField(*req.BirthDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "birth_date must be YYYY-MM-DD",
			})
		}
		updates["birth_date"] = parsed
	}
	if req.MembershipPlanID != nil {
		var plan models.MembershipPlan
		if err := database.DB.First(&plan, *req.MembershipPlanID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Membership plan not found",
			})
		}
		updates["membership_plan_id"] = *req.MembershipPlanID
	}
	if req.TrainerID != nil {
		var trainer models.User
		if err := database.DB.Where("id = ? AND is_active = ?", *req.TrainerID, true).First(&trainer).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Trainer not found",
			})
		}
		updates["trainer_id"] = *req.TrainerID
	}

	startDate := member.MembershipStartDate
	endDate := member.MembershipEndDate
	if req.MembershipStartDate != nil {
		parsed, err := parseDateField(*req.MembershipStartDate)
		if err != nil || parsed == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "membership_start_date must be YYYY-MM-DD",
			})
		}
		startDate = *parsed
		updates["membership_start_date"] = *parsed
	}
	if req.MembershipEndDate != nil {
		parsed, err := parseDateField(*req.MembershipEndDate)
		if err != nil || parsed == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "membership_end_date must be YYYY-MM-DD",
			})
		}
		endDate = *parsed
		updates["membership_end_date"] = *parsed
	}
	// The merged window must stay valid even when only one endpoint moves
	if !services.MembershipWindowValid(startDate, endDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "membership_end_date cannot be before membership_start_date",
		})
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&member).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "Membership number, DNI or email already taken",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update member",
			})
		}
	}

	database.DB.Preload("MembershipPlan").Preload("Trainer").First(&member, member.ID)

	middleware.LogActivity(c, "UPDATE", "members", member.ID, fiber.Map{
		"membership_number": member.MembershipNumber,
	})

	return c.JSON(fiber.Map{
		"message": "Member updated successfully",
		"member":  member,
	})
}

// DeleteMember soft-deletes a member. Payments and attendance history stay
// untouched so revenue and visit reports keep their references.
func (mc *MemberController) DeleteMember(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var member models.Member
	if err := database.DB.First(&member, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	if err := database.DB.Model(&member).Update("is_active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate member",
		})
	}

	middleware.LogActivity(c, "DELETE", "members", member.ID, fiber.Map{
		"membership_number": member.MembershipNumber,
	})

	return c.JSON(fiber.Map{
		"message": "Member deactivated successfully",
	})
}

// GetMemberPayments lists all payments for one member, newest first. Works
// for soft-deleted members too
func (mc *MemberController) GetMemberPayments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var member models.Member
	if err := database.DB.First(&member, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	var payments []models.Payment
	if err := database.DB.Where("member_id = ?", member.ID).
		Preload("Verifier").
		Order("payment_date DESC").
		Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	var verifiedTotal float64
	database.DB.Model(&models.Payment{}).
		Where("member_id = ? AND is_verified = ?", member.ID, true).
		Select("COALESCE(SUM(amount), 0)").Scan(&verifiedTotal)

	return c.JSON(fiber.Map{
		"member":         utils.ToMemberShort(&member),
		"payments":       payments,
		"total":          len(payments),
		"verified_total": verifiedTotal,
	})
}
