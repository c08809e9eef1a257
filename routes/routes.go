package routes

import (
	"gymdesk_go/controllers"
	"gymdesk_go/middleware"
	"gymdesk_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	memberController := &controllers.MemberController{}
	paymentController := &controllers.PaymentController{}
	attendanceController := controllers.NewAttendanceController(wsHub)
	dashboardController := &controllers.DashboardController{}
	settingsController := &controllers.SettingsController{}
	exportController := &controllers.ExportController{}
	logController := &controllers.LogController{}
	healthController := controllers.NewHealthController(nil)
	wsController := controllers.NewWebSocketController(wsHub)

	// API group
	api := app.Group("/api")

	// Public routes (no authentication required)
	api.Get("/health", healthController.GetHealthStatus)

	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/token", authController.Token)
	auth.Post("/login", authController.Login)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Profile routes (authenticated users)
	protected.Post("/auth/logout", authController.Logout)
	protected.Get("/auth/me", authController.GetProfile)
	protected.Put("/auth/me", authController.UpdateProfile)
	protected.Post("/auth/change-password", authController.ChangePassword)

	// User management routes (admin only)
	users := protected.Group("/auth/users", middleware.RequireAdmin())
	users.Get("/", userController.GetUsers)
	users.Get("/:id", userController.GetUser)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", userController.DeleteUser)

	// Member management routes
	members := protected.Group("/members")
	members.Get("/", memberController.GetMembers)
	members.Get("/export", exportController.ExportMembers)
	members.Post("/", memberController.CreateMember)
	members.Get("/:id", memberController.GetMember)
	members.Put("/:id", memberController.UpdateMember)
	members.Delete("/:id", middleware.RequireAdmin(), memberController.DeleteMember)
	members.Get("/:id/payments", memberController.GetMemberPayments)

	// Payment management routes
	payments := protected.Group("/payments")
	payments.Get("/", paymentController.GetPayments)
	payments.Get("/export", exportController.ExportPayments)
	payments.Get("/stats/today", paymentController.GetTodayStats)
	payments.Get("/stats/month", paymentController.GetMonthStats)
	payments.Post("/", paymentController.CreatePayment)
	payments.Get("/:id", paymentController.GetPayment)
	payments.Put("/:id", paymentController.UpdatePayment)
	payments.Put("/:id/verify", paymentController.VerifyPayment)
	payments.Put("/:id/unverify", middleware.RequireAdmin(), paymentController.UnverifyPayment)
	payments.Delete("/:id", middleware.RequireAdmin(), paymentController.DeletePayment)

	// Attendance routes
	attendance := protected.Group("/attendance")
	attendance.Post("/check-in", attendanceController.CheckIn)
	attendance.Get("/", attendanceController.GetAttendance)
	attendance.Get("/today", attendanceController.GetTodayAttendance)
	attendance.Get("/stats/today", attendanceController.GetTodayStats)
	attendance.Get("/stats/member/:id", attendanceController.GetMemberStats)
	attendance.Put("/member/:memberId/check-out", attendanceController.CheckOutByMember)
	attendance.Get("/:id", attendanceController.GetAttendanceRecord)
	attendance.Put("/:id/check-out", attendanceController.CheckOut)
	attendance.Delete("/:id", middleware.RequireAdmin(), attendanceController.DeleteAttendance)

	// Dashboard routes
	dashboard := protected.Group("/dashboard")
	dashboard.Get("/stats", dashboardController.GetStats)
	dashboard.Get("/membership-types", dashboardController.GetMembershipTypes)
	dashboard.Get("/recent-activity", dashboardController.GetRecentActivity)
	dashboard.Get("/attendance-trends", dashboardController.GetAttendanceTrends)
	dashboard.Get("/revenue-trends", dashboardController.GetRevenueTrends)

	// Settings routes
	settings := protected.Group("/settings")
	settings.Get("/gym", settingsController.GetGymSettings)
	settings.Put("/gym", middleware.RequireAdmin(), settingsController.UpdateGymSettings)
	settings.Post("/gym/logo", middleware.RequireAdmin(), settingsController.UploadGymLogo)

	// Opening hours
	schedules := settings.Group("/schedules")
	schedules.Get("/", settingsController.GetSchedules)
	schedules.Get("/day/:day", settingsController.GetSchedulesByDay)
	schedules.Post("/", middleware.RequireAdmin(), settingsController.CreateSchedule)
	schedules.Get("/:id", settingsController.GetSchedule)
	schedules.Put("/:id", middleware.RequireAdmin(), settingsController.UpdateSchedule)
	schedules.Delete("/:id", middleware.RequireAdmin(), settingsController.DeleteSchedule)

	// Membership plan routes
	plans := settings.Group("/membership-plans")
	plans.Get("/", settingsController.GetMembershipPlans)
	plans.Post("/", middleware.RequireAdmin(), settingsController.CreateMembershipPlan)
	plans.Get("/:id", settingsController.GetMembershipPlan)
	plans.Put("/:id", middleware.RequireAdmin(), settingsController.UpdateMembershipPlan)
	plans.Delete("/:id", middleware.RequireAdmin(), settingsController.DeleteMembershipPlan)

	// Log management routes (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/archives", logController.GetArchives)
	logs.Get("/archives/:id/download", logController.DownloadArchive)
	logs.Delete("/old", logController.DeleteOldLogs)
	logs.Post("/flush-cache", logController.FlushCachedLogs)
	logs.Get("/:id", logController.GetLog)

	// WebSocket routes
	ws := protected.Group("/ws")
	ws.Get("/stats", middleware.RequireAdmin(), wsController.GetWebSocketStats)

	// WebSocket connection endpoint - use websocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())
}
