package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-ledger/internal/application/account"
	"github.com/jhoicas/retail-ledger/internal/application/document"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/reconcile"
	"github.com/jhoicas/retail-ledger/internal/application/transfer"
	"github.com/jhoicas/retail-ledger/internal/application/usecase"
	"github.com/jhoicas/retail-ledger/internal/application/voucher"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/idempotency"
	"github.com/jhoicas/retail-ledger/internal/interfaces/ws"
	"github.com/jhoicas/retail-ledger/pkg/jwt"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BranchUC        *usecase.BranchUseCase
	ProductUC       *usecase.ProductUseCase
	MovementUC      *inventory.MovementUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	TransferUC      *transfer.UseCase
	AccountUC       *account.UseCase
	DocumentUC      *document.UseCase
	VoucherUC       *voucher.UseCase
	ReconcileUC     *reconcile.UseCase

	Idempotency  idempotency.Store // nil = sin Idempotency-Key
	Hub          *ws.Hub           // nil = sin /ws/stock
	HealthChecks map[string]HealthCheck
	JWTSecret    string
	JWTIssuer    string
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestID(), RequestLogger(deps.Log))
	app.Get("/health", NewHealthHandler(deps.HealthChecks).Get)
	if deps.Hub != nil {
		deps.Hub.Register(app)
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	if deps.Idempotency != nil {
		protected.Use(Idempotency(deps.Idempotency))
	}

	adminOnly := RequireRole(jwt.RoleAdmin)
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", adminOnly, branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", stockRoles, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", stockRoles, productHandler.Update)

	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.MovementUC, deps.ReplenishmentUC)
	invGroup.Post("/movements", adminOnly, inventoryHandler.ApplyMovement)
	invGroup.Post("/movements/reverse", adminOnly, inventoryHandler.ReverseMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", stockRoles, transferHandler.Send)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/in-transit", transferHandler.InTransit)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/receive", stockRoles, transferHandler.Receive)
	transfers.Post("/:id/cancel", stockRoles, transferHandler.Cancel)
	transfers.Delete("/:id", adminOnly, transferHandler.Delete)

	accounts := protected.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AccountUC)
	accounts.Post("/", accountHandler.Create)
	accounts.Get("/", accountHandler.List)
	accounts.Get("/:id", accountHandler.GetByID)
	accounts.Put("/:id/credit-limit", adminOnly, accountHandler.UpdateCreditLimit)
	accounts.Post("/:id/adjust", adminOnly, accountHandler.Adjust)
	accounts.Get("/:id/statement", accountHandler.Statement)

	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	documents.Post("/", documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Delete("/:id", adminOnly, documentHandler.Delete)

	vouchers := protected.Group("/vouchers")
	voucherHandler := NewVoucherHandler(deps.VoucherUC)
	vouchers.Post("/", voucherHandler.Create)
	vouchers.Get("/", voucherHandler.List)
	vouchers.Delete("/:id", adminOnly, voucherHandler.Delete)

	recon := protected.Group("/reconciliation", adminOnly)
	reconcileHandler := NewReconcileHandler(deps.ReconcileUC)
	recon.Get("/products", reconcileHandler.Products)
	recon.Get("/accounts", reconcileHandler.Accounts)
}
