package handler

import (
	"log"

	"winehouse-pos/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UpgradeWS rejects plain HTTP requests on the websocket route
func UpgradeWS(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWS registers the authenticated connection with the hub until it closes
func ServeWS(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		raw, _ := c.Locals("user_id").(string)
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.Close()
			return
		}

		client := &ws.Client{UserID: userID, Conn: c}
		hub.Register <- client
		defer func() {
			hub.Unregister <- client
		}()

		for {
			// Clients only listen; reads detect disconnects
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WS read error for %s: %v", userID, err)
				}
				return
			}
		}
	})
}
