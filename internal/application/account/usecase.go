package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// UseCase casos de uso de clientes y proveedores.
type UseCase struct {
	txRunner inventory.TxRunner
	ledger   *BalanceLedger
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner inventory.TxRunner, ledger *BalanceLedger, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, ledger: ledger, log: log}
}

// Create registra un cliente o proveedor. El saldo arranca en el saldo inicial.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	accType := entity.AccountType(in.Type)
	if !accType.IsValid() {
		return nil, fmt.Errorf("%w: tipo de cuenta %q", domain.ErrInvalidInput, in.Type)
	}
	if in.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: cupo negativo", domain.ErrInvalidInput)
	}
	now := time.Now()
	acc := &entity.Account{
		Type:           accType,
		Name:           strings.TrimSpace(in.Name),
		Phone:          in.Phone,
		OpeningBalance: in.OpeningBalance,
		Balance:        in.OpeningBalance,
		CreditLimit:    in.CreditLimit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		return repos.Accounts.Create(ctx, acc)
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return toAccountResponse(acc), nil
}

// GetByID obtiene una cuenta.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.AccountResponse, error) {
	var acc *entity.Account
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		acc, err = repos.Accounts.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return toAccountResponse(acc), nil
}

// List lista cuentas filtrando por tipo (vacío = todas).
func (uc *UseCase) List(ctx context.Context, accountType string, limit, offset int) (*dto.AccountListResponse, error) {
	t := entity.AccountType(accountType)
	if t != "" && !t.IsValid() {
		return nil, fmt.Errorf("%w: tipo de cuenta %q", domain.ErrInvalidInput, accountType)
	}
	var list []*entity.Account
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		list, err = repos.Accounts.List(ctx, t, limit, offset)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	items := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAccountResponse(a))
	}
	return &dto.AccountListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// UpdateCreditLimit cambia el cupo. Es la única operación que lo modifica.
func (uc *UseCase) UpdateCreditLimit(ctx context.Context, id int64, limit decimal.Decimal) (*dto.AccountResponse, error) {
	if limit.IsNegative() {
		return nil, fmt.Errorf("%w: cupo negativo", domain.ErrInvalidInput)
	}
	var acc *entity.Account
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		acc, err = repos.Accounts.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if acc == nil {
			return domain.ErrNotFound
		}
		acc.CreditLimit = limit
		return repos.Accounts.UpdateCreditLimit(ctx, id, limit)
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(acc), nil
}

// AdjustAccountBalance ajuste manual de saldo (corrección de cartera).
func (uc *UseCase) AdjustAccountBalance(ctx context.Context, id int64, in dto.AdjustBalanceRequest) (*dto.AccountResponse, error) {
	if in.Delta.IsZero() {
		return nil, fmt.Errorf("%w: ajuste en cero", domain.ErrInvalidInput)
	}
	ref := in.ReferenceNumber
	if ref == "" {
		ref = "AJ-" + strings.ToUpper(uuid.NewString()[:8])
	}
	var acc *entity.Account
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		current, err := repos.Accounts.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if current == nil {
			return domain.ErrNotFound
		}
		acc, err = uc.ledger.Adjust(ctx, repos, AdjustInput{
			AccountID:       id,
			AccountType:     current.Type,
			Delta:           in.Delta,
			ReferenceType:   entity.RefManual,
			ReferenceNumber: ref,
			Note:            in.Note,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("account_id", id).
		Str("delta", in.Delta.String()).
		Str("balance", acc.Balance.String()).
		Str("ref", ref).
		Msg("saldo ajustado manualmente")
	return toAccountResponse(acc), nil
}

// Statement extracto de la cuenta: ajustes más recientes primero.
func (uc *UseCase) Statement(ctx context.Context, id int64, limit, offset int) (*dto.StatementResponse, error) {
	var (
		acc     *entity.Account
		entries []*entity.AccountEntry
	)
	err := uc.txRunner.View(ctx, func(repos repository.Repos) error {
		var err error
		acc, err = repos.Accounts.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if acc == nil {
			return domain.ErrNotFound
		}
		entries, err = repos.AccountEntries.ListByAccount(ctx, id, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AccountEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.AccountEntryResponse{
			ID:              e.ID,
			Delta:           e.Delta,
			BalanceAfter:    e.BalanceAfter,
			ReferenceType:   string(e.ReferenceType),
			ReferenceNumber: e.ReferenceNumber,
			Note:            e.Note,
			CreatedAt:       e.CreatedAt,
		})
	}
	return &dto.StatementResponse{
		Account: *toAccountResponse(acc),
		Entries: items,
		Page:    dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	if a == nil {
		return nil
	}
	return &dto.AccountResponse{
		ID:              a.ID,
		Type:            string(a.Type),
		Name:            a.Name,
		Phone:           a.Phone,
		OpeningBalance:  a.OpeningBalance,
		Balance:         a.Balance,
		CreditLimit:     a.CreditLimit,
		OverCreditLimit: a.OverCreditLimit(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
