package controller

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"order-view-service/internal/middleware"
	"order-view-service/internal/notification"
)

type NotificationServer interface {
	Serve(conn notification.Conn, sub notification.Subscriber) error
}

type NotificationController struct {
	hub      NotificationServer
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewNotificationController accepts upgrades from allowedOrigins; "*"
// allows any origin.
func NewNotificationController(hub NotificationServer, allowedOrigins []string, logger *zap.Logger) *NotificationController {
	anyOrigin := slices.Contains(allowedOrigins, "*")
	return &NotificationController{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// GET /ws/notifications
// The caller only receives notifications for its own orders unless it is
// an admin.
func (ctl *NotificationController) Subscribe(c *gin.Context) {
	conn, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		ctl.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	sub := notification.Subscriber{
		UserID: c.GetString(middleware.KeyUserID),
		Admin:  middleware.IsAdmin(c),
	}
	if err := ctl.hub.Serve(conn, sub); err != nil {
		ctl.logger.Warn("websocket session rejected", zap.Error(err))
	}
}
