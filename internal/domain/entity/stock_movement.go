package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementDirection sentido de un movimiento sobre la cuenta de stock.
type MovementDirection string

const (
	DirectionIn  MovementDirection = "in"  // entrada
	DirectionOut MovementDirection = "out" // salida
)

// MovementSubtype subtipo de negocio de un movimiento. El sentido se deriva
// con DirectionFor; nunca se almacena un subtipo sin sentido conocido.
type MovementSubtype string

const (
	SubtypePurchase       MovementSubtype = "purchase"
	SubtypeSale           MovementSubtype = "sale"
	SubtypeWaste          MovementSubtype = "waste"
	SubtypeReturnCustomer MovementSubtype = "return_customer"
	SubtypeReturnSupplier MovementSubtype = "return_supplier"
	SubtypeAdjustmentIn   MovementSubtype = "adjustment_in"
	SubtypeAdjustmentOut  MovementSubtype = "adjustment_out"
	SubtypeTransferIn     MovementSubtype = "transfer_in"
	SubtypeTransferOut    MovementSubtype = "transfer_out"
)

// directionBySubtype tabla fija subtipo -> sentido.
var directionBySubtype = map[MovementSubtype]MovementDirection{
	SubtypePurchase:       DirectionIn,
	SubtypeReturnCustomer: DirectionIn,
	SubtypeAdjustmentIn:   DirectionIn,
	SubtypeTransferIn:     DirectionIn,
	SubtypeSale:           DirectionOut,
	SubtypeWaste:          DirectionOut,
	SubtypeReturnSupplier: DirectionOut,
	SubtypeAdjustmentOut:  DirectionOut,
	SubtypeTransferOut:    DirectionOut,
}

// DirectionFor resuelve el sentido de un subtipo. Un subtipo fuera de la tabla
// es un error de programación, no de datos: se hace panic en vez de retornar error.
func DirectionFor(s MovementSubtype) MovementDirection {
	d, ok := directionBySubtype[s]
	if !ok {
		panic(fmt.Sprintf("subtipo de movimiento sin sentido registrado: %q", s))
	}
	return d
}

// ValidSubtype indica si el subtipo pertenece a la tabla fija.
func ValidSubtype(s MovementSubtype) bool {
	_, ok := directionBySubtype[s]
	return ok
}

// StockMovement registro inmutable del libro de movimientos. Nunca se actualiza
// ni se borra después de creado; las correcciones se modelan como movimientos nuevos.
type StockMovement struct {
	ID             string
	TransactionID  string // agrupa las hojas de una misma descomposición de venta
	TenantID       string
	StoreID        string
	SKUID          string // ingrediente o variante vendible afectada
	Direction      MovementDirection
	Subtype        MovementSubtype
	Quantity       decimal.Decimal  // siempre > 0; el sentido lo da Direction
	UnitCost       *decimal.Decimal // costo unitario al momento del movimiento (nil si no aplica)
	Reason         string           // texto legible para auditoría (pedido + ítem consumido)
	DocumentNumber string           // documento externo opcional (factura, remisión)
	RecipeUnitID   string           // unidad declarada en la receta, para trazabilidad
	CreatedAt      time.Time
	CreatedBy      string // actor que originó el movimiento
}
