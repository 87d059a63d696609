package repository

import "github.com/jhoicas/stock-engine/internal/domain/entity"

// StockAccountRepository define el puerto para consultar/actualizar la cuenta de stock
// por (tienda, SKU). Usado dentro de transacciones para garantizar consistencia.
type StockAccountRepository interface {
	Get(storeID, skuID string) (*entity.StockAccount, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Si la cuenta
	// no existe devuelve una en cero lista para su primer movimiento.
	GetForUpdate(storeID, skuID string) (*entity.StockAccount, error)
	Upsert(account *entity.StockAccount) error
	ListByStore(storeID string, limit, offset int) ([]*entity.StockAccount, error)
}
