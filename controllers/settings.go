package controllers

import (
	"errors"
	"gymdesk_go/config"
	"gymdesk_go/database"
	"gymdesk_go/middleware"
	"gymdesk_go/models"
	"gymdesk_go/services"
	"gymdesk_go/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SettingsController struct{}

// getOrCreateSettings returns the singleton settings row, creating it with
// defaults on first read.
func getOrCreateSettings() (*models.GymSettings, error) {
	var settings models.GymSettings
	err := database.DB.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.GymSettings{GymName: "My Gym"}
		if err := database.DB.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetGymSettings returns the facility profile, creating it lazily
func (sc *SettingsController) GetGymSettings(c *fiber.Ctx) error {
	settings, err := getOrCreateSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load gym settings",
		})
	}

	return c.JSON(fiber.Map{
		"settings": settings,
	})
}

// UpdateGymSettings edits the facility profile (admin only)
func (sc *SettingsController) UpdateGymSettings(c *fiber.Ctx) error {
	settings, err := getOrCreateSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load gym settings",
		})
	}

	var req struct {
		GymName     *string `json:"gym_name"`
		Address     *string `json:"address"`
		Phone       *string `json:"phone"`
		Email       *string `json:"email"`
		Website     *string `json:"website"`
		Instagram   *string `json:"instagram"`
		Facebook    *string `json:"facebook"`
		Whatsapp    *string `json:"whatsapp"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.GymName != nil {
		if *req.GymName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "gym_name cannot be empty",
			})
		}
		updates["gym_name"] = *req.GymName
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Instagram != nil {
		updates["instagram"] = *req.Instagram
	}
	if req.Facebook != nil {
		updates["facebook"] = *req.Facebook
	}
	if req.Whatsapp != nil {
		updates["whatsapp"] = *req.Whatsapp
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := database.DB.Model(settings).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update gym settings",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "gym_settings", settings.ID, nil)

	return c.JSON(fiber.Map{
		"message":  "Gym settings updated successfully",
		"settings": settings,
	})
}

// UploadGymLogo stores the uploaded logo in S3 and saves its URL on the
// settings row. The previous logo is deleted from the bucket best-effort.
func (sc *SettingsController) UploadGymLogo(c *fiber.Ctx) error {
	settings, err := getOrCreateSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load gym settings",
		})
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "logo file is required",
		})
	}

	storageService, err := storage.NewStorageService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Storage is not configured",
		})
	}

	url, err := storageService.UploadImage(file, "logos")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	oldURL := settings.LogoURL
	if err := database.DB.Model(settings).Update("logo_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save logo URL",
		})
	}

	if oldURL != "" {
		if err := storageService.DeleteFile(oldURL); err != nil {
			logrus.WithError(err).Warn("Failed to delete previous gym logo")
		}
	}

	middleware.LogActivity(c, "UPDATE", "gym_settings", settings.ID, fiber.Map{
		"action": "logo_upload",
	})

	return c.JSON(fiber.Map{
		"message":  "Logo uploaded successfully",
		"logo_url": url,
	})
}

// seedDefaultSchedules creates the standard weekly hours if the table is
// empty: Monday-Saturday 06:00-22:00, Sunday 08:00-20:00.
func seedDefaultSchedules() error {
	var count int64
	if err := database.DB.Model(&models.Schedule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := services.DefaultSchedules()
	return database.DB.Create(&defaults).Error
}

// GetSchedules lists all schedule entries, seeding the defaults on first read
func (sc *SettingsController) GetSchedules(c *fiber.Ctx) error {
	if err := seedDefaultSchedules(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to initialize schedules",
		})
	}

	var schedules []models.Schedule
	if err := database.DB.Order("day_of_week ASC, opening_time ASC").Find(&schedules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch schedules",
		})
	}

	return c.JSON(fiber.Map{
		"schedules": schedules,
	})
}

// GetSchedulesByDay lists entries for one day of week (0=Monday .. 6=Sunday)
func (sc *SettingsController) GetSchedulesByDay(c *fiber.Ctx) error {
	day, err := c.ParamsInt("day")
	if err != nil || day < 0 || day > 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "day must be between 0 and 6",
		})
	}

	if err := seedDefaultSchedules(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to initialize schedules",
		})
	}

	var schedules []models.Schedule
	if err := database.DB.Where("day_of_week = ?", day).
		Order("opening_time ASC").Find(&schedules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch schedules",
		})
	}

	return c.JSON(fiber.Map{
		"day_of_week": day,
		"schedules":   schedules,
	})
}

// ScheduleRequest is the create/update payload for schedule entries
type ScheduleRequest struct {
	DayOfWeek   int    `json:"day_of_week"`
	Name        string `json:"name" validate:"required"`
	OpeningTime string `json:"opening_time" validate:"required"`
	ClosingTime string `json:"closing_time" validate:"required"`
	IsOpen      *bool  `json:"is_open"`
	Notes       string `json:"notes"`
}

// CreateSchedule adds a schedule entry after validating its time window and
// checking the overlap policy against other entries on the same day.
func (sc *SettingsController) CreateSchedule(c *fiber.Ctx) error {
	var req ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	if err := services.ValidateScheduleWindow(req.DayOfWeek, req.OpeningTime, req.ClosingTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var existing []models.Schedule
	if err := database.DB.Where("day_of_week = ?", req.DayOfWeek).Find(&existing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check schedule conflicts",
		})
	}

	overlapping, err := services.CheckScheduleConflict(existing, req.Name, req.OpeningTime, req.ClosingTime, config.AppConfig.ScheduleStrictOverlap)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	for _, other := range overlapping {
		logrus.WithFields(logrus.Fields{
			"day_of_week": req.DayOfWeek,
			"new":         req.Name,
			"existing":    other.Name,
		}).Warn("Schedule entries overlap in time")
	}

	isOpen := true
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}

	schedule := models.Schedule{
		DayOfWeek:   req.DayOfWeek,
		Name:        req.Name,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		IsOpen:      isOpen,
		Notes:       req.Notes,
	}

	if err := database.DB.Create(&schedule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create schedule",
		})
	}

	middleware.LogActivity(c, "CREATE", "schedules", schedule.ID, fiber.Map{
		"name": schedule.Name,
		"day":  schedule.DayOfWeek,
	})

	resp := fiber.Map{
		"message":  "Schedule created successfully",
		"schedule": schedule,
	}
	if len(overlapping) > 0 {
		resp["warning"] = "This entry overlaps other schedules on the same day"
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSchedule returns one schedule entry
func (sc *SettingsController) GetSchedule(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule ID",
		})
	}

	var schedule models.Schedule
	if err := database.DB.First(&schedule, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Schedule not found",
		})
	}

	return c.JSON(fiber.Map{
		"schedule": schedule,
	})
}

// UpdateSchedule edits a schedule entry, re-running window validation and
// the overlap policy over the merged values
func (sc *SettingsController) UpdateSchedule(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule ID",
		})
	}

	var schedule models.Schedule
	if err := database.DB.First(&schedule, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Schedule not found",
		})
	}

	var req struct {
		DayOfWeek   *int    `json:"day_of_week"`
		Name        *string `json:"name"`
		OpeningTime *string `json:"opening_time"`
		ClosingTime *string `json:"closing_time"`
		IsOpen      *bool   `json:"is_open"`
		Notes       *string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	day := schedule.DayOfWeek
	name := schedule.Name
	opening := schedule.OpeningTime
	closing := schedule.ClosingTime
	if req.DayOfWeek != nil {
		day = *req.DayOfWeek
	}
	if req.Name != nil {
		if *req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "name cannot be empty",
			})
		}
		name = *req.Name
	}
	if req.OpeningTime != nil {
		opening = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		closing = *req.ClosingTime
	}

	if err := services.ValidateScheduleWindow(day, opening, closing); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var existing []models.Schedule
	if err := database.DB.Where("day_of_week = ? AND id <> ?", day, schedule.ID).Find(&existing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check schedule conflicts",
		})
	}

	overlapping, err := services.CheckScheduleConflict(existing, name, opening, closing, config.AppConfig.ScheduleStrictOverlap)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	updates := map[string]interface{}{
		"day_of_week":  day,
		"name":         name,
		"opening_time": opening,
		"closing_time": closing,
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := database.DB.Model(&schedule).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update schedule",
		})
	}

	middleware.LogActivity(c, "UPDATE", "schedules", schedule.ID, fiber.Map{
		"name": schedule.Name,
	})

	resp := fiber.Map{
		"message":  "Schedule updated successfully",
		"schedule": schedule,
	}
	if len(overlapping) > 0 {
		resp["warning"] = "This entry overlaps other schedules on the same day"
	}

	return c.JSON(resp)
}

// DeleteSchedule removes a schedule entry. Facility hours carry no history,
// so this is a hard delete.
func (sc *SettingsController) DeleteSchedule(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule ID",
		})
	}

	var schedule models.Schedule
	if err := database.DB.First(&schedule, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Schedule not found",
		})
	}

	if err := database.DB.Delete(&schedule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete schedule",
		})
	}

	middleware.LogActivity(c, "DELETE", "schedules", schedule.ID, fiber.Map{
		"name": schedule.Name,
	})

	return c.JSON(fiber.Map{
		"message": "Schedule deleted successfully",
	})
}

// PlanRequest is the create/update payload for membership plans
type PlanRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	DaysPerWeek int     `json:"days_per_week" validate:"required,min=1,max=7"`
	Features    string  `json:"features"`
}

// GetMembershipPlans lists plans. By default only active plans come back;
// pass include_inactive=true for the full catalog.
func (sc *SettingsController) GetMembershipPlans(c *fiber.Ctx) error {
	query := database.DB.Model(&models.MembershipPlan{})
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var plans []models.MembershipPlan
	if err := query.Order("price ASC").Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch membership plans",
		})
	}

	return c.JSON(fiber.Map{
		"plans": plans,
	})
}

// CreateMembershipPlan adds a plan to the catalog (admin only)
func (sc *SettingsController) CreateMembershipPlan(c *fiber.Ctx) error {
	var req PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}
	if req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "price cannot be negative",
		})
	}
	if req.DaysPerWeek < 1 || req.DaysPerWeek > 7 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days_per_week must be between 1 and 7",
		})
	}

	plan := models.MembershipPlan{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DaysPerWeek: req.DaysPerWeek,
		Features:    req.Features,
		IsActive:    true,
	}

	if err := database.DB.Create(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create membership plan",
		})
	}

	middleware.LogActivity(c, "CREATE", "membership_plans", plan.ID, fiber.Map{
		"name":  plan.Name,
		"price": plan.Price,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Membership plan created successfully",
		"plan":    plan,
	})
}

// GetMembershipPlan returns one plan
func (sc *SettingsController) GetMembershipPlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	var plan models.MembershipPlan
	if err := database.DB.First(&plan, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Membership plan not found",
		})
	}

	return c.JSON(fiber.Map{
		"plan": plan,
	})
}

// UpdateMembershipPlan edits a plan (admin only)
func (sc *SettingsController) UpdateMembershipPlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	var plan models.MembershipPlan
	if err := database.DB.First(&plan, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Membership plan not found",
		})
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		DaysPerWeek *int     `json:"days_per_week"`
		Features    *string  `json:"features"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "name cannot be empty",
			})
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "price cannot be negative",
			})
		}
		updates["price"] = *req.Price
	}
	if req.DaysPerWeek != nil {
		if *req.DaysPerWeek < 1 || *req.DaysPerWeek > 7 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "days_per_week must be between 1 and 7",
			})
		}
		updates["days_per_week"] = *req.DaysPerWeek
	}
	if req.Features != nil {
		updates["features"] = *req.Features
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&plan).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update membership plan",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "membership_plans", plan.ID, fiber.Map{
		"name": plan.Name,
	})

	return c.JSON(fiber.Map{
		"message": "Membership plan updated successfully",
		"plan":    plan,
	})
}

// DeleteMembershipPlan soft-deletes a plan. Members may still reference it,
// so the row is only flagged inactive.
func (sc *SettingsController) DeleteMembershipPlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	var plan models.MembershipPlan
	if err := database.DB.First(&plan, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Membership plan not found",
		})
	}

	if err := database.DB.Model(&plan).Update("is_active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate membership plan",
		})
	}

	middleware.LogActivity(c, "DELETE", "membership_plans", plan.ID, fiber.Map{
		"name": plan.Name,
	})

	return c.JSON(fiber.Map{
		"message": "Membership plan deactivated successfully",
	})
}
