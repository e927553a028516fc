package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "foodstore/internal/infrastructure/websocket"
	"foodstore/pkg/logger"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ReviewFeedHandler streams review events of one product over a websocket.
type ReviewFeedHandler struct {
	hub *ws.Hub
}

func NewReviewFeedHandler(hub *ws.Hub) *ReviewFeedHandler {
	return &ReviewFeedHandler{
		hub: hub,
	}
}

func (h *ReviewFeedHandler) LiveReviews(c echo.Context) error {
	productID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logger.Warn("Review feed upgrade failed for product %s: %v", productID, err)
		return nil
	}

	client := &ws.Client{
		Conn: conn,
		Sub:  h.hub.Subscribe(productID),
	}
	client.Serve()
	return nil
}
