package http

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/idempotency"
)

// HeaderIdempotencyKey llave que el cliente repite al reintentar un POST.
const HeaderIdempotencyKey = "Idempotency-Key"

// Idempotency reproduce la respuesta guardada cuando un POST llega con una Idempotency-Key ya usada.
// Mientras la primera petición no termina, los duplicados reciben 409.
func Idempotency(store idempotency.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if c.Method() != fiber.MethodPost || key == "" {
			return c.Next()
		}
		// la llave es por usuario y ruta
		scoped := GetUserID(c) + ":" + c.Path() + ":" + key
		ctx := c.Context()

		if replayed, err := replay(c, store, scoped); replayed || err != nil {
			return err
		}

		unlock, err := store.Lock(ctx, scoped)
		if errors.Is(err, idempotency.ErrInFlight) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_FLIGHT", Message: err.Error()})
		}
		if err != nil {
			return writeError(c, err)
		}
		defer unlock(ctx)

		// otra petición pudo terminar entre el Get y el Lock
		if replayed, err := replay(c, store, scoped); replayed || err != nil {
			return err
		}

		if err := c.Next(); err != nil {
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			return nil
		}
		resp := idempotency.Response{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        bytes.Clone(c.Response().Body()),
		}
		if err := store.Save(ctx, scoped, resp); err != nil {
			requestLogger(c).Warn().Err(err).Msg("no se guardó la respuesta idempotente")
		}
		return nil
	}
}

func replay(c *fiber.Ctx, store idempotency.Store, key string) (bool, error) {
	resp, err := store.Get(c.Context(), key)
	if err != nil {
		return true, writeError(c, err)
	}
	if resp == nil {
		return false, nil
	}
	c.Set("Idempotent-Replayed", "true")
	c.Set(fiber.HeaderContentType, resp.ContentType)
	return true, c.Status(resp.Status).Send(resp.Body)
}
