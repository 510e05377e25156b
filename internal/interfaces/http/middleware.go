package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

const (
	localRequestID = "request_id"
	localLogger    = "logger"
)

// RequestID asigna un UUID a cada petición (o respeta X-Request-ID si el cliente lo envía).
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: localRequestID,
	})
}

// RequestLogger deja un sublogger con request_id en Locals y escribe una línea por petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id, _ := c.Locals(localRequestID).(string)
		reqLog := log.WithRequestID(id)
		c.Locals(localLogger, reqLog)

		err := c.Next()

		ev := reqLog.Info()
		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("http")
		return err
	}
}

func requestLogger(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return logger.Nop()
}
