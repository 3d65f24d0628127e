package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kshathishka/collabstudy/internal/handlers"
	notification_handler "github.com/kshathishka/collabstudy/internal/handlers/notification-handler"
	"github.com/kshathishka/collabstudy/internal/middleware"
	"github.com/kshathishka/collabstudy/state"
)

func NotificationRouter(r chi.Router, state *state.AppState) {
	notificationHandler := notification_handler.NewNotificationHandler(state)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))

		protected.Route("/api/v1/notifications", func(r chi.Router) {
			r.Get("/", handlers.WrapHandler(notificationHandler.ListNotifications))
			r.Get("/unread-count", handlers.WrapHandler(notificationHandler.UnreadCount))
			r.Patch("/read-all", handlers.WrapHandler(notificationHandler.MarkAllRead))
			r.Patch("/{notificationId}/read", handlers.WrapHandler(notificationHandler.MarkRead))
			r.Delete("/{notificationId}", handlers.WrapHandler(notificationHandler.DeleteNotification))
		})
	})
}
