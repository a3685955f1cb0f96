package websocket

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// UpgradeRequired rejects plain HTTP requests on the socket route.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler serves one socket per request. The user id is read from the "user_id"
// local set by the JWT middleware.
func (h *Hub) Handler(ctx context.Context) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID := fmt.Sprint(conn.Locals("user_id"))
		client := &Client{Hub: h, Conn: conn, UserID: userID, Send: make(chan []byte, 256)}
		h.register <- client

		go client.writePump()
		client.readPump(ctx)
	})
}
