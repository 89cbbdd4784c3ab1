// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/handlers"
	"github.com/melodia-community/melodia-backend/internal/middleware"
	"github.com/melodia-community/melodia-backend/internal/services"
)

// Services bundles the constructed service layer so the scheduler and the
// router can share the same instances.
type Services struct {
	Roster      *services.RosterService
	Application *services.ApplicationService
	Auth        *services.AuthService
	Event       *services.EventService
	Gallery     *services.GalleryService
	Contact     *services.ContactService
	Suggestion  *services.SuggestionService
	Payment     *services.PaymentService
	User        *services.UserService
	Admin       *services.AdminService
}

func BuildServices(db *gorm.DB, cfg *config.Config) (*Services, error) {
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	notificationService := services.NewNotificationService(db, cfg)
	rosterService := services.NewRosterService(db, cfg)

	return &Services{
		Roster:      rosterService,
		Application: services.NewApplicationService(db, cfg, rosterService, storageService, notificationService),
		Auth:        services.NewAuthService(db, cfg, rosterService, notificationService),
		Event:       services.NewEventService(db, storageService),
		Gallery:     services.NewGalleryService(db, storageService),
		Contact:     services.NewContactService(db, notificationService),
		Suggestion:  services.NewSuggestionService(db),
		Payment:     services.NewPaymentService(db, cfg, notificationService),
		User:        services.NewUserService(db),
		Admin:       services.NewAdminService(db, rosterService),
	}, nil
}

func Initialize(db *gorm.DB, cfg *config.Config, svcs *Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svcs.Auth)
	applicationHandler := handlers.NewApplicationHandler(svcs.Application)
	eventHandler := handlers.NewEventHandler(svcs.Event)
	galleryHandler := handlers.NewGalleryHandler(svcs.Gallery)
	contactHandler := handlers.NewContactHandler(svcs.Contact)
	suggestionHandler := handlers.NewSuggestionHandler(svcs.Suggestion)
	paymentHandler := handlers.NewPaymentHandler(svcs.Payment)
	userHandler := handlers.NewUserHandler(svcs.User)
	adminHandler := handlers.NewAdminHandler(svcs.Admin, svcs.Roster)

	r := gin.New()
	limits := middleware.NewRateLimits(cfg)

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(limits.General)
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(limits.Auth)
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/verify-email/:token", authHandler.VerifyEmail)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Membership application intake (public, multipart with receipt)
		membership := v1.Group("/membership")
		{
			membership.POST("/apply", limits.Upload, applicationHandler.Submit)
		}

		// User self-service routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/password", userHandler.ChangePassword)
			users.DELETE("/account", userHandler.DeactivateAccount)
		}

		// Event routes
		events := v1.Group("/events")
		{
			events.GET("", middleware.OptionalAuth(), eventHandler.List)
			events.GET("/:id", middleware.OptionalAuth(), eventHandler.Get)
		}

		// Gallery routes
		gallery := v1.Group("/gallery")
		{
			gallery.GET("", galleryHandler.List)
			gallery.GET("/:id", galleryHandler.Get)
		}

		// Contact form (public)
		contact := v1.Group("/contact")
		{
			contact.POST("", contactHandler.Submit)
		}

		// Song suggestion routes (members only)
		suggestions := v1.Group("/suggestions")
		suggestions.Use(middleware.AuthRequired())
		{
			suggestions.GET("", suggestionHandler.List)
			suggestions.POST("", suggestionHandler.Create)
			suggestions.POST("/:id/vote", suggestionHandler.Vote)
			suggestions.DELETE("/:id", suggestionHandler.Delete)
		}

		// Dues payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("/dues", middleware.OptionalAuth(), paymentHandler.CreateDuesIntent)
			payments.POST("/confirm", middleware.OptionalAuth(), paymentHandler.ConfirmPayment)
			payments.GET("/history", middleware.AuthRequired(), paymentHandler.GetHistory)
		}

		// Board routes: application review and content management
		board := v1.Group("/admin")
		board.Use(middleware.AuthRequired(), middleware.BoardRequired())
		{
			boardApplications := board.Group("/applications")
			{
				boardApplications.GET("", applicationHandler.List)
				boardApplications.GET("/:id", applicationHandler.Get)
				boardApplications.PUT("/:id/review", applicationHandler.Review)
			}

			boardEvents := board.Group("/events")
			{
				boardEvents.POST("", eventHandler.Create)
				boardEvents.PUT("/:id", eventHandler.Update)
				boardEvents.POST("/:id/cover", limits.Upload, eventHandler.UploadCover)
				boardEvents.DELETE("/:id", eventHandler.Delete)
			}

			boardGallery := board.Group("/gallery")
			{
				boardGallery.POST("", limits.Upload, galleryHandler.Upload)
				boardGallery.DELETE("/:id", galleryHandler.Delete)
			}

			boardContact := board.Group("/contact")
			{
				boardContact.GET("", contactHandler.List)
				boardContact.GET("/:id", contactHandler.Get)
				boardContact.PUT("/:id/resolve", contactHandler.Resolve)
			}

			board.PUT("/suggestions/:id/status", suggestionHandler.UpdateStatus)
		}

		// Admin-only routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/role", adminHandler.UpdateUserRole)
				adminUsers.PUT("/:id/active", adminHandler.SetUserActive)
			}

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)

			adminNotifications := admin.Group("/notifications")
			{
				adminNotifications.GET("", adminHandler.GetNotifications)
				adminNotifications.PUT("/:id/read", adminHandler.MarkNotificationRead)
			}

			adminRoster := admin.Group("/roster")
			{
				adminRoster.GET("/status", adminHandler.GetRosterStatus)
				adminRoster.POST("/sync", adminHandler.TriggerRosterSync)
			}
		}
	}

	// Static file serving when uploads are stored on local disk
	if cfg.AWS.AccessKeyID == "" || cfg.AWS.SecretAccessKey == "" {
		r.Static("/uploads", cfg.AWS.LocalUploadsDir)
	}

	return r
}
