package controllers

import (
	"gymdesk_go/database"
	"gymdesk_go/models"
	"gymdesk_go/services"
	"time"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct{}

// GetStats returns the headline dashboard numbers: members, today's visits
// and occupancy, today's and this month's verified revenue.
func (dc *DashboardController) GetStats(c *fiber.Ctx) error {
	now := time.Now()
	today := services.DateOnly(now)
	dayStart, dayEnd := services.DayWindow(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)

	var activeMembers int64
	database.DB.Model(&models.Member{}).Where("is_active = ?", true).Count(&activeMembers)

	var totalMembers int64
	database.DB.Model(&models.Member{}).Count(&totalMembers)

	var expiredMembers int64
	database.DB.Model(&models.Member{}).
		Where("is_active = ? AND membership_end_date < ?", true, today).
		Count(&expiredMembers)

	var newMembersThisMonth int64
	database.DB.Model(&models.Member{}).
		Where("created_at >= ?", monthStart).
		Count(&newMembersThisMonth)

	var visitsToday int64
	database.DB.Model(&models.Attendance{}).
		Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayEnd).
		Count(&visitsToday)

	var currentOccupancy int64
	database.DB.Model(&models.Attendance{}).
		Where("check_in_time >= ? AND check_in_time < ? AND check_out_time IS NULL", dayStart, dayEnd).
		Count(&currentOccupancy)

	var revenueToday float64
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ? AND is_verified = ?", dayStart, dayEnd, true).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenueToday)

	var revenueThisMonth float64
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND is_verified = ?", monthStart, true).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenueThisMonth)

	var pendingPayments int64
	database.DB.Model(&models.Payment{}).
		Where("is_verified = ?", false).
		Count(&pendingPayments)

	return c.JSON(fiber.Map{
		"active_members":         activeMembers,
		"total_members":          totalMembers,
		"expired_members":        expiredMembers,
		"new_members_this_month": newMembersThisMonth,
		"visits_today":           visitsToday,
		"current_occupancy":      currentOccupancy,
		"revenue_today":          revenueToday,
		"revenue_this_month":     revenueThisMonth,
		"pending_payments":       pendingPayments,
	})
}

// GetMembershipTypes returns the distribution of active members across plans
func (dc *DashboardController) GetMembershipTypes(c *fiber.Ctx) error {
	type planRow struct {
		PlanID   uint    `json:"plan_id"`
		PlanName string  `json:"plan_name"`
		Price    float64 `json:"price"`
		Members  int64   `json:"members"`
	}

	var rows []planRow
	if err := database.DB.Model(&models.Member{}).
		Select("membership_plans.id as plan_id, membership_plans.name as plan_name, membership_plans.price as price, COUNT(members.id) as members").
		Joins("JOIN membership_plans ON membership_plans.id = members.membership_plan_id").
		Where("members.is_active = ?", true).
		Group("membership_plans.id, membership_plans.name, membership_plans.price").
		Order("members DESC").
		Scan(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch membership distribution",
		})
	}

	return c.JSON(fiber.Map{
		"membership_types": rows,
	})
}

// GetRecentActivity returns the latest registrations, payments and check-ins
func (dc *DashboardController) GetRecentActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var recentMembers []models.Member
	database.DB.Preload("MembershipPlan").
		Order("created_at DESC").Limit(limit).
		Find(&recentMembers)

	var recentPayments []models.Payment
	database.DB.Preload("Member").
		Order("created_at DESC").Limit(limit).
		Find(&recentPayments)

	var recentCheckIns []models.Attendance
	database.DB.Preload("Member").
		Order("check_in_time DESC").Limit(limit).
		Find(&recentCheckIns)

	return c.JSON(fiber.Map{
		"recent_members":   recentMembers,
		"recent_payments":  recentPayments,
		"recent_check_ins": recentCheckIns,
	})
}

// GetAttendanceTrends returns daily visit counts for the last N days,
// zero-filled so the chart has a point for every day.
func (dc *DashboardController) GetAttendanceTrends(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 90 {
		days = 7
	}

	end := services.DateOnly(time.Now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)

	type dayRow struct {
		Day   string `json:"day"`
		Count int64  `json:"count"`
	}
	var rows []dayRow
	database.DB.Model(&models.Attendance{}).
		Where("check_in_time >= ? AND check_in_time < ?", start, end).
		Select("DATE(check_in_time) as day, COUNT(*) as count").
		Group("DATE(check_in_time)").
		Scan(&rows)

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Day] = r.Count
	}

	trends := make([]dayRow, 0, days)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		trends = append(trends, dayRow{Day: key, Count: counts[key]})
	}

	return c.JSON(fiber.Map{
		"days":   days,
		"trends": trends,
	})
}

// GetRevenueTrends returns verified revenue per month for the last N months,
// oldest first and zero-filled. Months with no verified payments report 0.
func (dc *DashboardController) GetRevenueTrends(c *fiber.Ctx) error {
	months := c.QueryInt("months", 6)
	if months < 1 || months > 24 {
		months = 6
	}

	now := time.Now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	start := currentMonth.AddDate(0, -(months - 1), 0)
	end := currentMonth.AddDate(0, 1, 0)

	type monthRow struct {
		Month   string  `json:"month"`
		Revenue float64 `json:"revenue"`
	}
	var rows []monthRow
	database.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ? AND is_verified = ?", start, end, true).
		Select("DATE_FORMAT(payment_date, '%Y-%m') as month, COALESCE(SUM(amount), 0) as revenue").
		Group("DATE_FORMAT(payment_date, '%Y-%m')").
		Scan(&rows)

	revenues := make(map[string]float64, len(rows))
	for _, r := range rows {
		revenues[r.Month] = r.Revenue
	}

	trends := make([]monthRow, 0, months)
	for m := start; m.Before(end); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		trends = append(trends, monthRow{Month: key, Revenue: revenues[key]})
	}

	return c.JSON(fiber.Map{
		"months": months,
		"trends": trends,
	})
}
