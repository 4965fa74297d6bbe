package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxRepos bundles transaction-bound repositories handed to a TxFn. Every
// write performed through them commits or rolls back as one unit.
type TxRepos struct {
	Orders      OrderRepository
	Inventory   InventoryRepository
	Positions   StockPositionRepository
	Adjustments StockAdjustmentRepository
	Visits      VisitRepository
}

type TxFn func(ctx context.Context, r *TxRepos) error

// TxManager runs a function inside a database transaction. Any error from
// the function rolls the whole transaction back; no partial effect survives.
type TxManager interface {
	WithTx(ctx context.Context, fn TxFn) error
}

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type pgxTxManager struct {
	db TxBeginner
}

func NewTxManager(db TxBeginner) TxManager {
	return &pgxTxManager{db: db}
}

func (m *pgxTxManager) WithTx(ctx context.Context, fn TxFn) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	repos := &TxRepos{
		Orders:      NewOrderRepo(tx),
		Inventory:   NewInventoryRepo(tx),
		Positions:   NewStockPositionRepo(tx),
		Adjustments: NewStockAdjustmentRepo(tx),
		Visits:      NewVisitRepo(tx),
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
