package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
)

type NotificationHandler struct {
	notificationRepo repos.NotificationRepo
}

func NewNotificationHandler(notificationRepo repos.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

func (nh *NotificationHandler) List(c *gin.Context) {
	wallet := c.Param("wallet")
	unreadOnly := c.Query("unread") == "true"
	notifications, err := nh.notificationRepo.GetByRecipient(c.Request.Context(), nil, wallet, unreadOnly)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (nh *NotificationHandler) UnreadCount(c *gin.Context) {
	wallet := c.Param("wallet")
	count, err := nh.notificationRepo.CountUnread(c.Request.Context(), nil, wallet)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (nh *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := nh.notificationRepo.MarkRead(c.Request.Context(), nil, id); err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

func (nh *NotificationHandler) MarkAllRead(c *gin.Context) {
	wallet := c.Param("wallet")
	updated, err := nh.notificationRepo.MarkAllRead(c.Request.Context(), nil, wallet)
	if err != nil {
		c.JSON(apierr.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": updated})
}
