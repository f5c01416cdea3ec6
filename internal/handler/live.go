package handler

import (
	"net/http"
	"time"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/live"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

func (h *Handler) liveFeed(c *gin.Context) {
	watch, err := h.services.Live.WatchFeed(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		watch.Close()
		h.logger.Sugar().Errorf("failed to upgrade feed subscription: %s", err.Error())
		return
	}

	pump(h.logger, ws, watch)
}

func (h *Handler) liveComments(c *gin.Context) {
	postID, ok := uuidParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	watch, err := h.services.Live.WatchComments(c.Request.Context(), postID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		watch.Close()
		h.logger.Sugar().Errorf("failed to upgrade comments subscription for post(%s): %s", postID.String(), err.Error())
		return
	}

	pump(h.logger, ws, watch)
}

// pump writes every snapshot of watch to ws until either side goes away.
func pump[T any](logger *zap.Logger, ws *websocket.Conn, watch *live.Watch[T]) {
	defer ws.Close()
	defer watch.Close()

	// Clients only send control frames; reading is needed to notice a close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case snapshot, ok := <-watch.Snapshots():
			if !ok {
				ws.SetWriteDeadline(time.Now().Add(writeWait))
				ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(snapshot); err != nil {
				logger.Sugar().Debugf("failed to write snapshot: %s", err.Error())
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
