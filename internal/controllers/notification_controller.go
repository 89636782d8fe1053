package controllers

import (
	"net/http"
	"strconv"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/realtime"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/services"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/gorilla/websocket"
)

type NotificationController struct {
	notificationService services.NotificationService
	dashboardService    services.DashboardService
	hub                 *realtime.Hub
	upgrader            websocket.Upgrader
}

// NewNotificationController wires the inbox endpoints and the websocket
// feed. allowedOrigins limits websocket upgrades; empty allows any origin.
func NewNotificationController(
	notificationService services.NotificationService,
	dashboardService services.DashboardService,
	hub *realtime.Hub,
	allowedOrigins []string,
) *NotificationController {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &NotificationController{
		notificationService: notificationService,
		dashboardService:    dashboardService,
		hub:                 hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// GET /api/v1/notifications?unread=true&limit=50
func (c *NotificationController) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	out, err := c.notificationService.List(r.Context(), s, unreadOnly, queryInt(r, "limit"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if out == nil {
		out = []*models.Notification{}
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GET /api/v1/notifications/unread-count
func (c *NotificationController) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	n, err := c.notificationService.UnreadCount(r.Context(), s)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.UnreadCountResponse{Unread: n})
}

// POST /api/v1/notifications/{id}/read
func (c *NotificationController) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.notificationService.MarkRead(r.Context(), s, id); err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Notification marked as read"})
}

// POST /api/v1/notifications/read-all
func (c *NotificationController) MarkAllReadHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	n, err := c.notificationService.MarkAllRead(r.Context(), s)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MarkAllReadResponse{Marked: n})
}

// GET /api/v1/notifications/ws
func (c *NotificationController) StreamHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		utils.Logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := realtime.NewClient(c.hub, conn, s)
	if !c.hub.Register(r.Context(), client) {
		_ = conn.Close()
		return
	}
	client.Serve()
}

// GET /api/v1/dashboard
func (c *NotificationController) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFrom(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	stats, err := c.dashboardService.Stats(r.Context(), s)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
