package controllers

import (
	"errors"
	"gymdesk_go/database"
	"gymdesk_go/middleware"
	"gymdesk_go/models"
	"gymdesk_go/services"
	"gymdesk_go/services/websocket"
	"gymdesk_go/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

type AttendanceController struct {
	hub *websocket.Hub
}

func NewAttendanceController(hub *websocket.Hub) *AttendanceController {
	return &AttendanceController{hub: hub}
}

// CheckInRequest identifies the member checking in, by ID or by
// membership number
type CheckInRequest struct {
	MemberID         uint   `json:"member_id"`
	MembershipNumber string `json:"membership_number"`
	Notes            string `json:"notes"`
}

func (ac *AttendanceController) broadcast(eventType string, attendance *models.Attendance, member *models.Member) {
	if ac.hub == nil {
		return
	}
	ac.hub.BroadcastEvent(eventType, fiber.Map{
		"attendance_id":    attendance.ID,
		"member":           utils.ToMemberShort(member),
		"check_in_time":    attendance.CheckInTime,
		"check_out_time":   attendance.CheckOutTime,
		"duration_minutes": attendance.DurationMinutes,
	})
}

// CheckIn opens an attendance session for a member. Fails if the member is
// missing, inactive, expired, or already has an open session today.
func (ac *AttendanceController) CheckIn(c *fiber.Ctx) error {
	var req CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.MemberID == 0 && req.MembershipNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "member_id or membership_number is required",
		})
	}

	var member models.Member
	var err error
	if req.MemberID != 0 {
		err = database.DB.First(&member, req.MemberID).Error
	} else {
		err = database.DB.Where("membership_number = ?", req.MembershipNumber).First(&member).Error
	}
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	now := time.Now()
	if err := services.ValidateCheckIn(&member, now); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// One open session per member per calendar day
	dayStart, dayEnd := services.DayWindow(now)
	var open models.Attendance
	err = database.DB.Where(
		"member_id = ? AND check_in_time >= ? AND check_in_time < ? AND check_out_time IS NULL",
		member.ID, dayStart, dayEnd,
	).First(&open).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":         "Member already has an open check-in today",
			"attendance_id": open.ID,
		})
	}

	attendance := models.Attendance{
		MemberID:    member.ID,
		CheckInTime: now,
		Notes:       req.Notes,
	}
	if err := database.DB.Create(&attendance).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record check-in",
		})
	}

	middleware.LogActivity(c, "CREATE", "attendance", attendance.ID, fiber.Map{
		"member_id":         member.ID,
		"membership_number": member.MembershipNumber,
	})

	ac.broadcast("attendance.checked_in", &attendance, &member)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Check-in recorded",
		"attendance": attendance,
		"member":     utils.ToMemberShort(&member),
	})
}

// CheckOut closes an open attendance session by its ID
func (ac *AttendanceController) CheckOut(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}

	var attendance models.Attendance
	if err := database.DB.Preload("Member").First(&attendance, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	return ac.closeSession(c, &attendance)
}

// CheckOutByMember locates the member's open session for today and closes it
func (ac *AttendanceController) CheckOutByMember(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("memberId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var member models.Member
	if err := database.DB.First(&member, memberID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	dayStart, dayEnd := services.DayWindow(time.Now())
	var attendance models.Attendance
	if err := database.DB.Where(
		"member_id = ? AND check_in_time >= ? AND check_in_time < ? AND check_out_time IS NULL",
		member.ID, dayStart, dayEnd,
	).First(&attendance).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No open check-in found for this member today",
		})
	}
	attendance.Member = member

	return ac.closeSession(c, &attendance)
}

func (ac *AttendanceController) closeSession(c *fiber.Ctx, attendance *models.Attendance) error {
	var req struct {
		Notes *string `json:"notes"`
	}
	// Body is optional on check-out
	_ = c.BodyParser(&req)

	if err := services.CloseAttendance(attendance, time.Now()); err != nil {
		if errors.Is(err, services.ErrAlreadyCheckedOut) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record check-out",
		})
	}

	updates := map[string]interface{}{
		"check_out_time":   attendance.CheckOutTime,
		"duration_minutes": attendance.DurationMinutes,
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
		attendance.Notes = *req.Notes
	}

	if err := database.DB.Model(attendance).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record check-out",
		})
	}

	middleware.LogActivity(c, "UPDATE", "attendance", attendance.ID, fiber.Map{
		"member_id":        attendance.MemberID,
		"duration_minutes": attendance.DurationMinutes,
	})

	ac.broadcast("attendance.checked_out", attendance, &attendance.Member)

	return c.JSON(fiber.Map{
		"message":    "Check-out recorded",
		"attendance": attendance,
	})
}

// GetAttendance lists attendance records, newest first, with optional
// member_id, open_only and date range filters
func (ac *AttendanceController) GetAttendance(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Attendance{}).Preload("Member")

	if memberID := c.QueryInt("member_id"); memberID > 0 {
		query = query.Where("member_id = ?", memberID)
	}
	if c.Query("open_only") == "true" {
		query = query.Where("check_out_time IS NULL")
	}
	if from := c.Query("from"); from != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", from, time.Local); err == nil {
			query = query.Where("check_in_time >= ?", parsed)
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", to, time.Local); err == nil {
			query = query.Where("check_in_time < ?", parsed.AddDate(0, 0, 1))
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

	var records []models.Attendance
	if err := query.Order("check_in_time DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch attendance records",
		})
	}

	return c.JSON(fiber.Map{
		"attendance": records,
		"total":      total,
		"page":       page,
		"per_page":   perPage,
	})
}

// GetTodayAttendance lists today's sessions, open ones first
func (ac *AttendanceController) GetTodayAttendance(c *fiber.Ctx) error {
	dayStart, dayEnd := services.DayWindow(time.Now())

	var records []models.Attendance
	if err := database.DB.Preload("Member").
		Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayEnd).
		Order("check_out_time IS NULL DESC, check_in_time DESC").
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch attendance records",
		})
	}

	open := 0
	for i := range records {
		if records[i].CheckOutTime == nil {
			open++
		}
	}

	return c.JSON(fiber.Map{
		"date":              dayStart.Format("2006-01-02"),
		"attendance":        records,
		"total":             len(records),
		"current_occupancy": open,
	})
}

// GetAttendanceRecord returns a single attendance record
func (ac *AttendanceController) GetAttendanceRecord(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}

	var attendance models.Attendance
	if err := database.DB.Preload("Member").First(&attendance, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	return c.JSON(fiber.Map{
		"attendance": attendance,
	})
}

// DeleteAttendance hard-deletes an attendance record (admin only). Sessions
// are operational data, not audited revenue, so removal is physical.
func (ac *AttendanceController) DeleteAttendance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}

	var attendance models.Attendance
	if err := database.DB.First(&attendance, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	if err := database.DB.Delete(&attendance).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete attendance record",
		})
	}

	middleware.LogActivity(c, "DELETE", "attendance", attendance.ID, fiber.Map{
		"member_id": attendance.MemberID,
	})

	return c.JSON(fiber.Map{
		"message": "Attendance record deleted",
	})
}

// GetTodayStats returns today's visit statistics: total visits, current
// occupancy, average session length and the busiest check-in hour
func (ac *AttendanceController) GetTodayStats(c *fiber.Ctx) error {
	dayStart, dayEnd := services.DayWindow(time.Now())

	var totalVisits int64
	database.DB.Model(&models.Attendance{}).
		Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayEnd).
		Count(&totalVisits)

	var currentOccupancy int64
	database.DB.Model(&models.Attendance{}).
		Where("check_in_time >= ? AND check_in_time < ? AND check_out_time IS NULL", dayStart, dayEnd).
		Count(&currentOccupancy)

	var avgDuration float64
	database.DB.Model(&models.Attendance{}).
		Where("check_in_time >= ? AND check_in_time < ? AND duration_minutes IS NOT NULL", dayStart, dayEnd).
		Select("COALESCE(AVG(duration_minutes), 0)").Scan(&avgDuration)

	type hourRow struct {
		Hour  int   `json:"hour"`
		Count int64 `json:"count"`
	}
	var byHour []hourRow
	database.DB.Model(&models.Attendance{}).
		Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayEnd).
		Select("HOUR(check_in_time) as hour, COUNT(*) as count").
		Group("HOUR(check_in_time)").
		Order("count DESC, hour ASC").
		Scan(&byHour)

	peakHour := -1
	if len(byHour) > 0 {
		peakHour = byHour[0].Hour
	}

	return c.JSON(fiber.Map{
		"date":                 dayStart.Format("2006-01-02"),
		"total_visits":         totalVisits,
		"current_occupancy":    currentOccupancy,
		"avg_duration_minutes": avgDuration,
		"peak_hour":            peakHour,
		"visits_by_hour":       byHour,
	})
}

// GetMemberStats returns one member's visit history summary
func (ac *AttendanceController) GetMemberStats(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var member models.Member
	if err := database.DB.First(&member, memberID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	var totalVisits int64
	database.DB.Model(&models.Attendance{}).
		Where("member_id = ?", member.ID).
		Count(&totalVisits)

	var avgDuration float64
	database.DB.Model(&models.Attendance{}).
		Where("member_id = ? AND duration_minutes IS NOT NULL", member.ID).
		Select("COALESCE(AVG(duration_minutes), 0)").Scan(&avgDuration)

	days := c.QueryInt("days", 30)
	if days < 1 || days > 365 {
		days = 30
	}
	windowStart := services.DateOnly(time.Now()).AddDate(0, 0, -days)

	var visitsInWindow int64
	database.DB.Model(&models.Attendance{}).
		Where("member_id = ? AND check_in_time >= ?", member.ID, windowStart).
		Count(&visitsInWindow)

	visitsPerWeek := float64(visitsInWindow) / (float64(days) / 7.0)

	var lastVisit models.Attendance
	var lastVisitAt *time.Time
	if err := database.DB.Where("member_id = ?", member.ID).
		Order("check_in_time DESC").First(&lastVisit).Error; err == nil {
		lastVisitAt = &lastVisit.CheckInTime
	}

	return c.JSON(fiber.Map{
		"member":               utils.ToMemberShort(&member),
		"period_days":          days,
		"total_visits":         totalVisits,
		"visits_in_period":     visitsInWindow,
		"visits_per_week":      visitsPerWeek,
		"avg_duration_minutes": avgDuration,
		"last_visit":           lastVisitAt,
	})
}
