package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	
	"github.com/gin-gonic/gin"
	
	"github.com/hostelia/hostelia-BE/internal/event"
	"github.com/hostelia/hostelia-BE/internal/token"
)

// keepAliveInterval is how often a comment frame is written so proxies and
// load balancers do not tear down an idle stream.
const keepAliveInterval = 30 * time.Second

// @Summary		Stream notifications via Server-Sent Events
// @Description	Establishes an SSE connection that pushes the caller's notifications as they are created
// @Tags			notifications
// @Produce		text/event-stream
// @Success		200	{string}	string	"Event stream. Each event is a 'data: {json}' frame; keep-alive comment frames carry no data"
// @Router			/v1/notifications/stream [get]
func (server *Server) streamNotifications(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)
	userID := authPayload.Subject
	
	// SSE headers
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	
	registry := server.notificationService.Registry()
	
	channel := event.NewStreamChannel()
	registry.Register(userID, channel)
	defer func() {
		channel.Close()
		registry.Unregister(userID, channel)
	}()
	
	// Synthetic ack so the client can tell the stream is open before any
	// notification arrives.
	if err := writeServerSentEvent(c.Writer, gin.H{"type": event.TypeConnected}); err != nil {
		return
	}
	
	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()
	
	for {
		select {
		case evt := <-channel.Events():
			if err := writeServerSentEvent(c.Writer, evt.Data); err != nil {
				return
			}
		case <-keepAlive.C:
			// Comment-only frame, ignored by clients for data purposes.
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func writeServerSentEvent(w gin.ResponseWriter, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	
	if _, err = fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	w.Flush()
	
	return nil
}
