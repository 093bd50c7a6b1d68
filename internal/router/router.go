package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/handler"
	"github.com/hsh-clinic/clinic-backend/internal/metrics"
	"github.com/hsh-clinic/clinic-backend/internal/middleware"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	StudentPortal *handler.StudentPortalHandler
	StudentMgmt   *handler.StudentManagementHandler
	Admin         *handler.AdminHandler
	Audit         *handler.AuditHandler
	AuditStream   *handler.AuditStreamHandler
	Reservations  *handler.ReservationAdminHandler
	Transfers     *handler.TransferHandler
	Emergency     *handler.EmergencyHandler
	Statistics    *handler.StatisticsHandler
	References    map[string]*handler.ReferenceHandler
	System        *handler.SystemHandler
}

// Role sets shared by several admin routes.
var (
	superOnly      = []model.Role{model.RoleSuperAdmin}
	frontDesk      = []model.Role{model.RoleSuperAdmin, model.RoleCounter}
	blockers       = []model.Role{model.RoleSuperAdmin, model.RoleSecondManager, model.RoleCounter}
	viewers        = []model.Role{model.RoleSuperAdmin, model.RoleCounter, model.RoleObserver}
	transferClerks = []model.Role{model.RoleSuperAdmin, model.RoleTransferClerk, model.RoleBadrHospitalAdmin}
	allStaff       = append([]model.Role{model.RoleSuperAdmin}, model.AdminRoles...)
)

// SetupRouter configures all Gin route groups with appropriate middlewares.
// authLimiter guards the unauthenticated auth routes.
func SetupRouter(
	auth middleware.Authorizer,
	handlers *Handlers,
	cfg *config.Config,
	authLimiter gin.HandlerFunc,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// An empty AllowedOrigins list allows all origins so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli(5))

	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	authenticated := middleware.Authenticate(auth)
	api := router.Group("/api/v1", middleware.NoStore())

	// ─── 1. Auth (public, rate limited) ────────────────────────────────
	authAPI := api.Group("/auth", authLimiter)
	{
		authAPI.POST("/login", handlers.Auth.Login)
		authAPI.POST("/signup", handlers.Auth.Signup)
		authAPI.GET("/activate", handlers.Auth.Activate)
		authAPI.GET("/confirm-email", handlers.Auth.ConfirmEmail)
		authAPI.POST("/otp", handlers.Auth.SendOTP)
		authAPI.POST("/forget-password", handlers.Auth.ForgetPassword)
		authAPI.POST("/logout", authenticated, handlers.Auth.Logout)
	}

	// ─── 2. Student portal (owner only) ────────────────────────────────
	owner := []gin.HandlerFunc{authenticated, middleware.RequireTypes(model.TypeUser), middleware.RequireOwner("student_id")}

	reservations := api.Group("/reservations/:student_id", owner...)
	{
		reservations.POST("", handlers.StudentPortal.CreateReservation)
		reservations.GET("", handlers.StudentPortal.ListReservations)
		reservations.GET("/:exam_id", handlers.StudentPortal.GetReservation)
		reservations.PUT("/:exam_id", handlers.StudentPortal.UpdateReservation)
		reservations.DELETE("/:exam_id", handlers.StudentPortal.CancelReservation)
	}

	profile := api.Group("/profile/:student_id", owner...)
	{
		profile.GET("", handlers.StudentPortal.GetProfile)
		profile.PUT("", handlers.StudentPortal.UpdateProfile)
		profile.PATCH("/photo", handlers.StudentPortal.UpdatePhoto)
		profile.POST("/password", handlers.Auth.ChangePassword)
	}

	// ─── 3. Admin (staff, per-route roles) ─────────────────────────────
	admin := api.Group("/admin", authenticated, middleware.RequireTypes(model.TypeAdmin))
	role := middleware.RequireRoles
	{
		admin.GET("/statistics", role(superOnly...), handlers.Statistics.Summary)
		admin.GET("/statistics/monthly", role(superOnly...), handlers.Statistics.Monthly)
		admin.GET("/system/metrics", role(superOnly...), handlers.System.MetricsSSE)

		logs := admin.Group("/logs", role(superOnly...))
		logs.GET("", handlers.Audit.List)
		logs.DELETE("", handlers.Audit.Clear)
		logs.GET("/:actor_class/:actor_id", handlers.Audit.List)
		logs.DELETE("/:actor_class/:actor_id", handlers.Audit.Clear)

		admins := admin.Group("/admins")
		admins.POST("", role(superOnly...), handlers.Admin.Create)
		admins.GET("", role(superOnly...), handlers.Admin.List)
		admins.GET("/:id", role(superOnly...), handlers.Admin.Get)
		admins.PUT("/:id", role(superOnly...), handlers.Admin.Update)
		admins.DELETE("/:id", role(superOnly...), handlers.Admin.Delete)
		admins.PATCH("/:id/password", role(allStaff...), handlers.Admin.ResetPassword)

		superAdmins := admin.Group("/super-admins", role(superOnly...))
		superAdmins.POST("", handlers.Admin.CreateSuperAdmin)
		superAdmins.PATCH("/password", handlers.Auth.ChangePassword)

		students := admin.Group("/students")
		students.GET("", role(frontDesk...), handlers.StudentMgmt.List)
		students.POST("", role(frontDesk...), handlers.StudentMgmt.Create)
		students.PUT("/:id", role(frontDesk...), handlers.StudentMgmt.Update)
		students.DELETE("/:id", role(frontDesk...), handlers.StudentMgmt.Delete)
		students.PATCH("/:id/block", role(blockers...), handlers.StudentMgmt.Block)
		students.PATCH("/:id/unblock", role(blockers...), handlers.StudentMgmt.Unblock)
		students.POST("/:id/observation", role(viewers...), handlers.StudentMgmt.SendObservation)

		res := admin.Group("/reservations")
		res.GET("", role(viewers...), handlers.Reservations.List)
		res.GET("/export", role(viewers...), handlers.Reservations.Export)
		res.PATCH("/:id/decision", role(frontDesk...), handlers.Reservations.Decide)

		transfers := admin.Group("/transfers", role(transferClerks...))
		transfers.POST("", handlers.Transfers.Create)
		transfers.GET("", handlers.Transfers.List)
		transfers.PUT("/:id", handlers.Transfers.Update)

		emergency := admin.Group("/emergency", role(frontDesk...))
		emergency.POST("", handlers.Emergency.Create)
		emergency.GET("", handlers.Emergency.List)
		emergency.GET("/:id", handlers.Emergency.Get)
		emergency.PUT("/:id", handlers.Emergency.Update)
		emergency.DELETE("/:id", handlers.Emergency.Delete)
	}

	// ─── 4. Reference data (public reads, super-admin writes) ──────────
	for _, kind := range model.ReferenceKinds {
		h, ok := handlers.References[kind.Slug]
		if !ok {
			continue
		}
		g := api.Group("/sysdata/" + kind.Slug)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("", authenticated, role(superOnly...), h.Create)
		g.PUT("/:id", authenticated, role(superOnly...), h.Update)
		g.DELETE("/:id", authenticated, role(superOnly...), h.Delete)
	}

	// ─── 5. WebSocket (token via ?token=) ──────────────────────────────
	ws := router.Group("/ws/v1", authenticated, role(superOnly...))
	{
		ws.GET("/admin/audit/stream", handlers.AuditStream.Stream)
	}

	return router
}
