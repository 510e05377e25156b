// Package ws publica por websocket los cambios de stock ya confirmados.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

var _ inventory.StockNotifier = (*Hub)(nil)

// StockEvent es el mensaje que reciben los clientes de /ws/stock.
type StockEvent struct {
	Type            string    `json:"type"`
	MovementID      int64     `json:"movement_id"`
	ProductID       int64     `json:"product_id"`
	BranchID        *int64    `json:"branch_id,omitempty"`
	MovementType    string    `json:"movement_type"`
	Quantity        int64     `json:"quantity"`
	QuantityAfter   int64     `json:"quantity_after"`
	ReferenceNumber string    `json:"reference_number"`
	ReferenceType   string    `json:"reference_type"`
	At              time.Time `json:"at"`
}

// NewStockEvent arma el evento stock_update de un movimiento.
func NewStockEvent(m *entity.MovementEntry) StockEvent {
	return StockEvent{
		Type:            "stock_update",
		MovementID:      m.ID,
		ProductID:       m.ProductID,
		BranchID:        m.BranchID,
		MovementType:    string(m.Type),
		Quantity:        m.Quantity,
		QuantityAfter:   m.QuantityAfter,
		ReferenceNumber: m.ReferenceNumber,
		ReferenceType:   string(m.ReferenceType),
		At:              m.CreatedAt,
	}
}

// Hub mantiene las conexiones abiertas y difunde los eventos.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{} // se cierra cuando Run termina
	mu         sync.Mutex
	log        *logger.Logger
}

// NewHub crea el hub. Hay que arrancar Run en una goroutine.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run atiende registro, baja y difusión hasta que se cancele ctx.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				_ = conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			h.log.Debug().Msg("cliente ws conectado")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients devuelve cuántas conexiones hay abiertas.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encola un evento por movimiento. Nunca bloquea la operación que ya hizo commit:
// si el buffer está lleno el evento se descarta.
func (h *Hub) Publish(_ context.Context, entries []*entity.MovementEntry) {
	for _, m := range entries {
		msg, err := json.Marshal(NewStockEvent(m))
		if err != nil {
			h.log.Error().Err(err).Int64("movement_id", m.ID).Msg("codificar evento de stock")
			continue
		}
		select {
		case h.broadcast <- msg:
		default:
			h.log.Warn().Int64("movement_id", m.ID).Msg("buffer ws lleno, evento descartado")
		}
	}
}

// join registra la conexión; false si el hub ya se detuvo.
func (h *Hub) join(c *websocket.Conn) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave da de baja la conexión; con el hub detenido Run ya las cerró todas.
func (h *Hub) leave(c *websocket.Conn) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Register monta /ws/stock en el router.
func (h *Hub) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	router.Get("/ws/stock", websocket.New(func(c *websocket.Conn) {
		if !h.join(c) {
			_ = c.Close()
			return
		}
		defer h.leave(c)
		for {
			// el cliente solo escucha; leer detecta el cierre
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
