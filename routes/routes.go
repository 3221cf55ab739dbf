package routes

import (
	"net/http"
	"time"

	"concierge/handlers"
	"concierge/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers login (public) and the current-user lookup.
func RegisterAuthRoutes(api *gin.RouterGroup, protected *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/auth/login", hb.Auth.LoginHandler)
	protected.GET("/auth/me", hb.Auth.MeHandler)
}

func RegisterDashboardRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/dashboard", hb.Dashboard.GetDashboardHandler)
}

func RegisterConversationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	conv := api.Group("/conversations")
	{
		conv.GET("", hb.Conversations.ListConversationsHandler)
		conv.GET("/:id", hb.Conversations.GetConversationHandler)
		conv.POST("/:id/transition", hb.Conversations.TransitionHandler)
		conv.PUT("/:id/assignee", hb.Conversations.AssignHandler)
		conv.POST("/:id/communications", hb.Conversations.AddCommunicationHandler)
		conv.POST("/:id/notes", hb.Conversations.AddNoteHandler)
		conv.POST("/:id/read", hb.Conversations.MarkReadHandler)
		conv.POST("/:id/bookings", hb.Conversations.CreateBookingHandler)
	}
}

func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.GET("", hb.Bookings.ListBookingsHandler)
		bookings.GET("/:id", hb.Bookings.GetBookingHandler)
		bookings.POST("/:id/transition", hb.Bookings.TransitionHandler)
		bookings.PUT("/:id/assignee", hb.Bookings.AssignHandler)
		bookings.PUT("/:id/schedule", hb.Bookings.ScheduleHandler)
		bookings.POST("/:id/invoices", hb.Bookings.CreateInvoiceHandler)
	}
}

func RegisterBillingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	invoices := api.Group("/invoices")
	{
		invoices.GET("", hb.Invoices.ListInvoicesHandler)
		invoices.GET("/:id", hb.Invoices.GetInvoiceHandler)
		invoices.GET("/:id/pdf", hb.Invoices.DownloadPDFHandler)
		invoices.POST("/:id/send", hb.Invoices.SendHandler)
		invoices.POST("/:id/cancel", hb.Invoices.CancelHandler)
		invoices.POST("/:id/payments", hb.Invoices.ConfirmPaymentHandler)
	}

	payments := api.Group("/payments")
	{
		payments.GET("", hb.Payments.ListPaymentsHandler)
		payments.POST("/:id/settle", hb.Payments.SettleHandler)
		payments.POST("/:id/refund", hb.Payments.RefundHandler)
	}
}

func RegisterClientRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/clients", hb.Clients.ListClientsHandler)
	api.GET("/clients/:id", hb.Clients.GetClientHandler)
}

// RegisterAdminRoutes sets up endpoints for admin operations. The route gate keeps
// non-admin roles out of /api/admin.
func RegisterAdminRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	admin := api.Group("/admin")
	{
		admin.GET("/users", hb.Admin.GetAllUsersHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, users middleware.UserLoader, gate middleware.RouteAuthorizer) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(users), middleware.RouteGuardMiddleware(gate))

	RegisterAuthRoutes(api, protected, hb)
	RegisterDashboardRoutes(protected, hb)
	RegisterConversationRoutes(protected, hb)
	RegisterBookingRoutes(protected, hb)
	RegisterBillingRoutes(protected, hb)
	RegisterClientRoutes(protected, hb)
	RegisterAdminRoutes(protected, hb)
	RegisterHealthRoute(r)
}
