package stock

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad: o se confirman todas las hojas de una
// descomposición o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		accountRepo repository.StockAccountRepository,
	) error) error
}
