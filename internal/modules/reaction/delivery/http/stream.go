package handler

import (
	"log"
	"net/http"
	"time"

	reaction "anoa.com/reactions/internal/modules/reaction/service"
	"anoa.com/reactions/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const streamWriteWait = 10 * time.Second

// ResultStreamHandler pushes the vote events of one instance to websocket
// clients. The first frame is the rendered result at connect time.
type ResultStreamHandler struct {
	service     reaction.ReactionService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewResultStreamHandler(service reaction.ReactionService, redisClient *redis.Client, checkOrigin func(r *http.Request) bool) *ResultStreamHandler {
	return &ResultStreamHandler{
		service:     service,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (h *ResultStreamHandler) Stream(c *gin.Context) {
	instanceID, ok := parseID(c)
	if !ok {
		return
	}

	// Resolve the instance before upgrading so a missing one is a plain 404.
	view, err := h.service.GetResult(c.Request.Context(), instanceID, response.GetOptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(view); err != nil {
		log.Printf("Failed to write result to websocket: %v", err)
		return
	}

	if h.redisClient == nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "live updates unavailable"))
		return
	}

	ctx := c.Request.Context()
	pubsub := h.redisClient.Subscribe(ctx, reaction.InstanceChannel(instanceID))
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("Failed to subscribe to redis channel: %v", err)
		return
	}
	events := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("Failed to write vote event to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
