package repository

// Repos agrupa los repositorios atados a una misma unidad de trabajo (transacción).
type Repos struct {
	Branches       BranchRepository
	Products       ProductRepository
	Movements      MovementRepository
	Transfers      TransferRepository
	Accounts       AccountRepository
	AccountEntries AccountEntryRepository
	Vouchers       VoucherRepository
	Documents      DocumentRepository
}
