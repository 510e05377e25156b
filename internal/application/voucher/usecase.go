package voucher

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger/internal/application/account"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

// UseCase recibos de caja (clientes) y comprobantes de egreso (proveedores).
// Crear resta el monto del saldo de la cuenta; eliminar aplica el delta opuesto exacto.
type UseCase struct {
	txRunner inventory.TxRunner
	ledger   *account.BalanceLedger
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner inventory.TxRunner, ledger *account.BalanceLedger, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, ledger: ledger, log: log, now: time.Now}
}

// Create registra el comprobante y reduce el saldo de la cuenta en Amount.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateVoucherRequest) (*dto.VoucherResponse, error) {
	kind := entity.VoucherKind(in.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: tipo de comprobante %q", domain.ErrInvalidInput, in.Kind)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentCash
	}
	v := &entity.Voucher{
		Kind:          kind,
		AccountID:     in.AccountID,
		Amount:        in.Amount,
		PaymentMethod: method,
		VoucherNumber: in.VoucherNumber,
		Notes:         in.Notes,
		CreatedAt:     uc.now(),
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		acc, err := repos.Accounts.GetByID(ctx, v.AccountID)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if acc == nil || acc.Type != kind.AccountType() {
			return fmt.Errorf("%w: %s %d", domain.ErrNotFound, kind.AccountType(), v.AccountID)
		}
		if err := repos.Vouchers.Create(ctx, v); err != nil {
			return fmt.Errorf("create voucher: %w", err)
		}
		_, err = uc.ledger.Adjust(ctx, repos, account.AdjustInput{
			AccountID:       v.AccountID,
			AccountType:     kind.AccountType(),
			Delta:           v.Amount.Neg(),
			ReferenceType:   entity.RefVoucher,
			ReferenceNumber: v.VoucherNumber,
			Note:            v.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("kind", string(v.Kind)).
		Str("ref", v.VoucherNumber).
		Int64("account_id", v.AccountID).
		Str("amount", v.Amount.String()).
		Msg("comprobante registrado")
	return toVoucherResponse(v), nil
}

// Delete elimina el comprobante y devuelve el monto al saldo.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	var v *entity.Voucher
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		v, err = repos.Vouchers.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get voucher: %w", err)
		}
		if v == nil {
			return fmt.Errorf("%w: comprobante %d", domain.ErrNotFound, id)
		}
		_, err = uc.ledger.Adjust(ctx, repos, account.AdjustInput{
			AccountID:       v.AccountID,
			AccountType:     v.Kind.AccountType(),
			Delta:           v.Amount,
			ReferenceType:   entity.RefReversal,
			ReferenceNumber: v.VoucherNumber,
			Note:            "reversa de " + v.VoucherNumber,
		})
		if err != nil {
			return err
		}
		return repos.Vouchers.Delete(ctx, v.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("ref", v.VoucherNumber).Msg("comprobante eliminado")
	return nil
}

// List lista comprobantes, opcionalmente de una cuenta.
func (uc *UseCase) List(ctx context.Context, accountID *int64, kind string, limit, offset int) (*dto.VoucherListResponse, error) {
	k := entity.VoucherKind(kind)
	if k != "" && !k.IsValid() {
		return nil, fmt.Errorf("%w: tipo de comprobante %q", domain.ErrInvalidInput, kind)
	}
	var list []*entity.Voucher
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		list, err = repos.Vouchers.List(ctx, repository.VoucherFilter{
			AccountID: accountID,
			Kind:      k,
			Limit:     limit,
			Offset:    offset,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	items := make([]dto.VoucherResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVoucherResponse(v))
	}
	return &dto.VoucherListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toVoucherResponse(v *entity.Voucher) *dto.VoucherResponse {
	return &dto.VoucherResponse{
		ID:            v.ID,
		Kind:          string(v.Kind),
		AccountID:     v.AccountID,
		Amount:        v.Amount,
		PaymentMethod: v.PaymentMethod,
		VoucherNumber: v.VoucherNumber,
		Notes:         v.Notes,
		CreatedAt:     v.CreatedAt,
	}
}
