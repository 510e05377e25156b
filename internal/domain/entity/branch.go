package entity

import "time"

// Branch representa una sucursal donde se almacena y vende inventario (multi-sucursal).
type Branch struct {
	ID        int64
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
