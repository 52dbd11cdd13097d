package routes

import (
	"github.com/gofiber/fiber/v2"

	"BidVault/internal/handlers"
	"BidVault/internal/middleware"
)

func SetupNotificationRoutes(app *fiber.App) {
	notifications := app.Group("/api/notifications", middleware.Protected())

	notifications.Get("/", handlers.GetNotifications)
	notifications.Get("/unread-count", handlers.GetUnreadCount)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Put("/read-all", handlers.MarkAllNotificationsRead)
	notifications.Delete("/:id", handlers.DeleteNotification)
}
