package handler

import (
	"context"
	"net/http"

	postDto "anoa.com/socialblog/internal/modules/post/dto"
	post "anoa.com/socialblog/internal/modules/post/service"
	realtime "anoa.com/socialblog/internal/modules/realtime/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// FeedSocket streams a composed feed over a websocket. Only the "all" mode
// re-sends on post changes; a "following" feed is sent once.
type FeedSocket struct {
	service  post.PostService
	changes  realtime.ChangeFeed
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewFeedSocket(service post.PostService, changes realtime.ChangeFeed, log *zap.Logger, checkOrigin func(r *http.Request) bool) *FeedSocket {
	return &FeedSocket{
		service: service,
		changes: changes,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (h *FeedSocket) HandleWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mode := c.DefaultQuery("mode", postDto.FeedModeAll)
	if mode != postDto.FeedModeAll && mode != postDto.FeedModeFollowing {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be one of all following"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("failed to upgrade websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	var changes <-chan realtime.Change
	if mode == postDto.FeedModeAll {
		sub, err := h.changes.Subscribe(ctx, post.PostsRelation)
		if err != nil {
			h.log.Warn("feed subscription failed", zap.String("user_id", userID), zap.Error(err))
		} else {
			defer sub.Close()
			changes = sub.Changes()
		}
	}

	// Client disconnect ends the stream
	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !h.send(ctx, conn, userID, mode) {
		return
	}

	for {
		select {
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if !h.send(ctx, conn, userID, mode) {
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *FeedSocket) send(ctx context.Context, conn *websocket.Conn, userID, mode string) bool {
	posts, err := h.service.GetFeed(ctx, userID, mode)
	if err != nil {
		h.log.Error("feed refresh failed", zap.String("user_id", userID), zap.String("mode", mode), zap.Error(err))
		return true
	}

	if err := conn.WriteJSON(postDto.FeedResponse{Mode: mode, Data: posts}); err != nil {
		h.log.Debug("feed write failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return true
}
