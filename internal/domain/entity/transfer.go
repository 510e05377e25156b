package entity

import (
	"fmt"
	"time"
)

// TransferStatus estado del traslado entre sucursales.
type TransferStatus string

const (
	TransferSent      TransferStatus = "sent"      // enviado, mercancía en tránsito
	TransferReceived  TransferStatus = "received"  // recibido en destino (terminal)
	TransferCancelled TransferStatus = "cancelled" // anulado antes de recibir (terminal)
)

// BranchTransfer traslado de mercancía entre dos sucursales.
// Su existencia implica que el origen ya fue debitado; Received implica que el destino fue acreditado.
type BranchTransfer struct {
	ID           int64
	Number       string
	FromBranchID int64
	ToBranchID   int64
	Items        []TransferItem
	Status       TransferStatus
	Notes        string
	SentAt       time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
}

// TransferItem línea del traslado. DestProductID se fija al recibir.
type TransferItem struct {
	ProductID     int64
	Quantity      int64
	DestProductID *int64
}

// TransferNumber formato del consecutivo de traslados.
func TransferNumber(id int64) string {
	return fmt.Sprintf("TR-%06d", id)
}
