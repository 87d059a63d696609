package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.StockAccountRepository = (*StockAccountRepo)(nil)

// StockAccountRepo implementación de StockAccountRepository sobre PostgreSQL (usable con pool o tx).
type StockAccountRepo struct {
	q Querier
}

// NewStockAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAccountRepository(q Querier) *StockAccountRepo {
	return &StockAccountRepo{q: q}
}

// Get obtiene la cuenta de stock de un SKU en una tienda. Si no existe devuelve
// una cuenta en cero: la creación real ocurre en el Upsert del primer movimiento.
func (r *StockAccountRepo) Get(storeID, skuID string) (*entity.StockAccount, error) {
	query := `
		SELECT tenant_id, store_id, sku_id, quantity, avg_cost, updated_at
		FROM stock_accounts WHERE store_id = $1 AND sku_id = $2`
	return r.scanOne(query, storeID, skuID)
}

// GetForUpdate obtiene la cuenta y bloquea la fila (SELECT FOR UPDATE) para que el
// leer-modificar-escribir del costeo no pierda actualizaciones concurrentes.
// FOR UPDATE sobre una fila inexistente no bloquea nada: dos primeros movimientos
// concurrentes del mismo (tienda, SKU) partirían ambos de cero y el segundo commit
// pisaría al primero. Se materializa la fila en cero antes de bloquear.
func (r *StockAccountRepo) GetForUpdate(storeID, skuID string) (*entity.StockAccount, error) {
	ensure := `
		INSERT INTO stock_accounts (tenant_id, store_id, sku_id, quantity, avg_cost, updated_at)
		VALUES ('', $1, $2, 0, 0, now())
		ON CONFLICT (store_id, sku_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), ensure, storeID, skuID); err != nil {
		return nil, fmt.Errorf("ensure stock account: %w", err)
	}
	query := `
		SELECT tenant_id, store_id, sku_id, quantity, avg_cost, updated_at
		FROM stock_accounts WHERE store_id = $1 AND sku_id = $2
		FOR UPDATE`
	return r.scanOne(query, storeID, skuID)
}

func (r *StockAccountRepo) scanOne(query, storeID, skuID string) (*entity.StockAccount, error) {
	var a entity.StockAccount
	err := r.q.QueryRow(context.Background(), query, storeID, skuID).Scan(
		&a.TenantID, &a.StoreID, &a.SKUID, &a.Quantity, &a.AvgCost, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockAccount{
				StoreID:  storeID,
				SKUID:    skuID,
				Quantity: decimal.Zero,
				AvgCost:  decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock account: %w", err)
	}
	return &a, nil
}

// Upsert inserta o actualiza cantidad y costo promedio (por tienda y SKU).
func (r *StockAccountRepo) Upsert(account *entity.StockAccount) error {
	query := `
		INSERT INTO stock_accounts (tenant_id, store_id, sku_id, quantity, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (store_id, sku_id)
		DO UPDATE SET tenant_id = EXCLUDED.tenant_id, quantity = EXCLUDED.quantity,
			avg_cost = EXCLUDED.avg_cost, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		account.TenantID, account.StoreID, account.SKUID, account.Quantity, account.AvgCost,
	)
	if err != nil {
		return fmt.Errorf("upsert stock account: %w", err)
	}
	return nil
}

// ListByStore lista las cuentas de una tienda (para la vista de stock actual).
func (r *StockAccountRepo) ListByStore(storeID string, limit, offset int) ([]*entity.StockAccount, error) {
	query := `
		SELECT tenant_id, store_id, sku_id, quantity, avg_cost, updated_at
		FROM stock_accounts WHERE store_id = $1
		ORDER BY sku_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAccount
	for rows.Next() {
		var a entity.StockAccount
		if err := rows.Scan(&a.TenantID, &a.StoreID, &a.SKUID, &a.Quantity, &a.AvgCost, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
