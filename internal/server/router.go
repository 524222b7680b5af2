package server

import (
	"net/http"

	"maintenance-hub/internal/config"
	"maintenance-hub/internal/handlers"
	"maintenance-hub/internal/middleware"
	"maintenance-hub/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const sessionCookie = "mh_session"

func NewRouter(cfg *config.Config, db *gorm.DB, h *handlers.Handler, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(log), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookie, store))

	api := r.Group("/api/v1")
	api.Use(middleware.Transaction(db, log))

	// AUTH
	public := api.Group("/auth")
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	public.POST("/password-reset", h.RequestPasswordReset)
	public.POST("/password-reset/confirm", h.ConfirmPasswordReset)
	public.POST("/verify-email/confirm", h.ConfirmEmailVerification)

	auth := api.Group("/")
	auth.Use(middleware.Authenticate(h.Tokens))

	auth.POST("/auth/logout", h.Logout)
	auth.GET("/auth/me", h.Me)
	auth.POST("/auth/verify-email", h.RequestEmailVerification)

	admin := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleOperator)

	// USERS
	auth.GET("/users/", admin, h.ListUsers)
	auth.GET("/users/providers", h.ListProviders)
	auth.GET("/users/:id", h.GetUser)
	auth.PUT("/users/:id", h.UpdateUser)

	// ASSETS
	auth.GET("/assets/", h.ListAssets)
	auth.POST("/assets/", h.CreateAsset)
	auth.GET("/assets/:id", h.GetAsset)
	auth.PUT("/assets/:id", h.UpdateAsset)
	auth.DELETE("/assets/:id", h.DeleteAsset)
	auth.GET("/assets/:id/inventory", h.ListAssetInventory)
	auth.GET("/assets/:id/documents", h.ListAssetDocuments)

	// INVENTORY
	auth.GET("/assets/inventory/", h.ListInventory)
	auth.POST("/assets/inventory/", h.CreateInventoryItem)
	auth.GET("/assets/inventory/:id", h.GetInventoryItem)
	auth.PUT("/assets/inventory/:id", h.UpdateInventoryItem)
	auth.DELETE("/assets/inventory/:id", h.DeleteInventoryItem)

	// SUPPLIERS
	auth.GET("/suppliers/", h.ListSuppliers)
	auth.GET("/suppliers/:id", h.GetSupplier)
	auth.POST("/suppliers/", staff, h.CreateSupplier)
	auth.PUT("/suppliers/:id", staff, h.UpdateSupplier)
	auth.DELETE("/suppliers/:id", staff, h.DeleteSupplier)

	// SERVICE ORDERS
	auth.GET("/service-orders/", h.ListOrders)
	auth.POST("/service-orders/", middleware.RequireRole(models.RoleClient, models.RoleAdmin), h.CreateOrder)
	auth.GET("/service-orders/:id", h.GetOrder)
	auth.PUT("/service-orders/:id", h.UpdateOrder)
	auth.DELETE("/service-orders/:id", h.DeleteOrder)
	auth.POST("/service-orders/:id/assign/:provider_id", h.AssignOrder)
	auth.GET("/service-orders/:id/checklist/", h.ListChecklist)
	auth.POST("/service-orders/:id/checklist/", h.CreateChecklistItem)
	auth.PUT("/service-orders/checklist/:id", h.UpdateChecklistItem)
	auth.DELETE("/service-orders/checklist/:id", h.DeleteChecklistItem)
	auth.GET("/service-orders/:id/documents", h.ListOrderDocuments)
	auth.GET("/service-orders/:id/payments", h.ListOrderPayments)
	auth.GET("/service-orders/:id/invoices", h.ListOrderInvoices)

	// DOCUMENTS
	auth.POST("/documents/", h.CreateDocument)
	auth.GET("/documents/:id", h.GetDocument)
	auth.PUT("/documents/:id", h.UpdateDocument)
	auth.DELETE("/documents/:id", h.DeleteDocument)

	// PAYMENTS
	auth.POST("/payments/", h.CreatePayment)
	auth.GET("/payments/:id", h.GetPayment)
	auth.PUT("/payments/:id", h.UpdatePayment)
	auth.POST("/invoices/", admin, h.CreateInvoice)
	auth.GET("/invoices/:id", h.GetInvoice)

	// NOTIFICATIONS
	auth.GET("/notifications/", h.ListNotifications)
	auth.POST("/notifications/", admin, h.CreateNotification)
	auth.PUT("/notifications/:id/read", h.MarkNotificationRead)
	auth.DELETE("/notifications/:id", h.DeleteNotification)

	// AUDIT
	auth.GET("/audit/", admin, h.ListAudit)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
