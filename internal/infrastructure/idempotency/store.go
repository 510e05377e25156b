// Package idempotency guarda respuestas de POST por Idempotency-Key para que un reintento del cliente
// no registre dos veces el mismo documento.
package idempotency

import (
	"context"
	"errors"
)

// ErrInFlight indica que otra petición con la misma llave sigue en curso.
var ErrInFlight = errors.New("petición con la misma Idempotency-Key en curso")

// Response es la respuesta cacheada de la primera ejecución.
type Response struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Store es el puerto que usa el middleware HTTP.
type Store interface {
	// Get devuelve la respuesta guardada o (nil, nil) si la llave es nueva.
	Get(ctx context.Context, key string) (*Response, error)
	// Lock reserva la llave; devuelve ErrInFlight si ya está tomada.
	Lock(ctx context.Context, key string) (unlock func(context.Context), err error)
	// Save guarda la respuesta final para los reintentos.
	Save(ctx context.Context, key string, resp Response) error
}
