package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"
	
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
	"github.com/hostelia/hostelia-BE/internal/notification"
	"github.com/hostelia/hostelia-BE/internal/token"
	"github.com/hostelia/hostelia-BE/internal/worker"
)

type notificationResponse struct {
	ID                string     `json:"id"`
	Type              string     `json:"type"`
	Title             string     `json:"title"`
	Message           string     `json:"message"`
	RelatedEntityID   *string    `json:"related_entity_id"`
	RelatedEntityType *string    `json:"related_entity_type"`
	Read              bool       `json:"read"`
	ReadAt            *time.Time `json:"read_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toNotificationResponse(n db.Notification) notificationResponse {
	resp := notificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	
	if n.RelatedEntityID.Valid {
		resp.RelatedEntityID = &n.RelatedEntityID.String
	}
	if n.RelatedEntityType.Valid {
		resp.RelatedEntityType = &n.RelatedEntityType.String
	}
	if n.ReadAt.Valid {
		resp.ReadAt = &n.ReadAt.Time
	}
	
	return resp
}

type listNotificationsResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	TotalCount    int64                  `json:"total_count"`
	HasMore       bool                   `json:"has_more"`
}

// @Summary		List the caller's notifications
// @Description	Returns notifications newest-first, paged by limit/skip, optionally filtered to unread only
// @Tags			notifications
// @Produce		json
// @Param			limit		query		int		false	"Page size (default 50, max 100)"
// @Param			skip		query		int		false	"Offset (default 0)"
// @Param			unreadOnly	query		bool	false	"Only unread notifications"
// @Success		200			{object}	listNotificationsResponse
// @Router			/v1/notifications [get]
func (server *Server) listNotifications(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)
	
	// Malformed values fall back to defaults; out-of-range values are
	// clamped by the service.
	limit, _ := strconv.Atoi(c.Query("limit"))
	skip, _ := strconv.Atoi(c.Query("skip"))
	unreadOnly, _ := strconv.ParseBool(c.Query("unreadOnly"))
	
	result, err := server.notificationService.ListNotifications(c.Request.Context(), authPayload.Subject, notification.ListParams{
		Limit:      limit,
		Skip:       skip,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	notifications := make([]notificationResponse, 0, len(result.Notifications))
	for _, n := range result.Notifications {
		notifications = append(notifications, toNotificationResponse(n))
	}
	
	c.JSON(http.StatusOK, listNotificationsResponse{
		Notifications: notifications,
		TotalCount:    result.TotalCount,
		HasMore:       result.HasMore,
	})
}

// @Summary		Mark one notification as read
// @Tags			notifications
// @Produce		json
// @Param			id	path		string	true	"Notification ID"
// @Success		200	{object}	notificationResponse
// @Failure		404	{object}	object	"Not owned by the caller, or does not exist"
// @Router			/v1/notifications/{id}/read [patch]
func (server *Server) markNotificationRead(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)
	notificationID := c.Param("id")
	
	n, err := server.notificationService.MarkNotificationRead(c.Request.Context(), notificationID, authPayload.Subject)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(ErrNotificationNotFound))
			return
		}
		
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	c.JSON(http.StatusOK, toNotificationResponse(n))
}

// @Summary		Mark all of the caller's notifications as read
// @Tags			notifications
// @Produce		json
// @Success		200	{object}	object	"updated_count"
// @Router			/v1/notifications/read-all [patch]
func (server *Server) markAllNotificationsRead(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)
	
	updated, err := server.notificationService.MarkAllNotificationsRead(c.Request.Context(), authPayload.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	c.JSON(http.StatusOK, gin.H{"updated_count": updated})
}

// @Summary		Count the caller's unread notifications
// @Tags			notifications
// @Produce		json
// @Success		200	{object}	object	"unread_count"
// @Router			/v1/notifications/unread-count [get]
func (server *Server) getUnreadCount(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)
	
	count, err := server.notificationService.CountUnreadNotifications(c.Request.Context(), authPayload.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

type createNotificationRequest struct {
	UserIDs           []string `json:"user_ids" binding:"required,min=1"`
	Type              string   `json:"type" binding:"required"`
	Title             string   `json:"title" binding:"required"`
	Message           string   `json:"message" binding:"required"`
	RelatedEntityID   string   `json:"related_entity_id"`
	RelatedEntityType string   `json:"related_entity_type"`
	EmailRecipients   []string `json:"email_recipients"`
}

// @Summary		Queue a notification for one or more students
// @Description	Warden/admin entry point; the notification is persisted and fanned out asynchronously
// @Tags			staff
// @Accept			json
// @Produce		json
// @Success		202	{object}	object	"message"
// @Router			/v1/staff/notifications [post]
func (server *Server) createNotification(c *gin.Context) {
	req := new(createNotificationRequest)
	
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	data := notification.CreateParams{
		Type:              req.Type,
		Title:             req.Title,
		Message:           req.Message,
		RelatedEntityID:   req.RelatedEntityID,
		RelatedEntityType: req.RelatedEntityType,
	}
	if err := data.ValidateData(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	payload := &worker.PayloadSendNotification{
		UserIDs:           req.UserIDs,
		Type:              req.Type,
		Title:             req.Title,
		Message:           req.Message,
		RelatedEntityID:   req.RelatedEntityID,
		RelatedEntityType: req.RelatedEntityType,
		EmailRecipients:   req.EmailRecipients,
	}
	
	err := server.taskDistributor.DistributeTaskSendNotification(c.Request.Context(), payload, asynq.Queue(worker.QueueDefault))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	c.JSON(http.StatusAccepted, gin.H{"message": "notification queued"})
}
