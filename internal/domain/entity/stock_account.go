package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAccount agregado por (tienda, SKU): cantidad actual y costo promedio ponderado.
// Se crea perezosamente en cero con el primer movimiento que referencia la clave y
// solo se muta dentro de la transacción del motor de costeo (fila bloqueada).
type StockAccount struct {
	TenantID  string
	StoreID   string
	SKUID     string
	Quantity  decimal.Decimal
	AvgCost   decimal.Decimal // costo promedio ponderado, >= 0
	UpdatedAt time.Time
}
