package ws

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub *Hub
	log *zap.Logger
}

func NewHandler(hub *Hub, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{hub: hub, log: log}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleProfileWS upgrades an authenticated request. userKey is the Locals
// key under which the auth middleware stored the caller's user id.
func (h *Handler) HandleProfileWS(userKey string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if h == nil || h.hub == nil {
			return fiber.ErrServiceUnavailable
		}
		userID, ok := c.Locals(userKey).(uuid.UUID)
		if !ok || userID == uuid.Nil {
			return fiber.ErrUnauthorized
		}

		upgrade := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				h.log.Warn("ws upgrade failed", zap.Error(err))
				return
			}

			client := NewClient(h.hub, conn, userID)
			h.hub.Register(client)
			go client.WritePump()
			go client.ReadPump()
		})
		return upgrade(c)
	}
}
