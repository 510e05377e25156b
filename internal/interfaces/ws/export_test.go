package ws

import "github.com/gofiber/contrib/websocket"

func (h *Hub) Join(c *websocket.Conn) bool { return h.join(c) }

func (h *Hub) Leave(c *websocket.Conn) { h.leave(c) }
