package repository

import (
	"time"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el libro de movimientos.
// Solo inserta y lee: los movimientos son inmutables, no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListBySKU(skuID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
