package handlers

import (
	"net/http"

	"maintenance-hub/internal/models"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
)

type notificationCreate struct {
	UserID           uint                    `json:"user_id" binding:"required"`
	Title            string                  `json:"title" binding:"required,max=255"`
	Message          string                  `json:"message" binding:"required"`
	NotificationType models.NotificationType `json:"notification_type" binding:"omitempty,oneof=email sms push in_app system"`
	ReferenceType    string                  `json:"reference_type" binding:"max=50"`
	ReferenceID      *uint                   `json:"reference_id"`
}

// ListNotifications returns the caller's own notifications, admins included.
func (h *Handler) ListNotifications(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := repository.NewNotifications(tx(c)).ListByOwner(ctx(c), me(c).ID, p)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req notificationCreate
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	if err := h.requireUser(c, req.UserID, "recipient"); err != nil {
		fail(c, err)
		return
	}
	if req.NotificationType == "" {
		req.NotificationType = models.NotifyInApp
	}

	n, err := repository.NewNotifications(tx(c)).Create(ctx(c), &models.Notification{
		Title:            req.Title,
		Message:          req.Message,
		NotificationType: req.NotificationType,
		Status:           models.NotificationPending,
		UserID:           req.UserID,
		ReferenceType:    req.ReferenceType,
		ReferenceID:      req.ReferenceID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.audit(c, "notification", n.ID, "create", n.Title); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, n)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	notes := repository.NewNotifications(tx(c))
	n, ok := load(c, "id", notes.Get, policy.RelOwner, "read this notification")
	if !ok {
		return
	}
	n, err := notes.MarkRead(ctx(c), n, h.now())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, n)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	notes := repository.NewNotifications(tx(c))
	n, ok := load(c, "id", notes.Get, policy.RelOwner, "delete this notification")
	if !ok {
		return
	}
	prev, err := notes.Delete(ctx(c), n.ID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, prev)
}
