package entity

import "github.com/shopspring/decimal"

// StockPolicy política de stock de una variante vendible, derivada de sus flags.
// El motor de descomposición despacha por política, no por condicionales anidados.
type StockPolicy int

const (
	// PolicyUnmanaged la variante no genera movimientos propios (manage_stock = false).
	PolicyUnmanaged StockPolicy = iota
	// PolicyDirect la variante consume su propio stock al venderse.
	PolicyDirect
	// PolicyRecipe la variante es producida: al venderse consume los ingredientes de su receta.
	PolicyRecipe
)

// SellableUnit variante vendible con alcance de tienda y su lista de materiales
// (receta, componentes fijos de combo). Datos de solo lectura para el motor:
// el CRUD del catálogo vive fuera de este núcleo.
type SellableUnit struct {
	ID          string
	TenantID    string
	StoreID     string
	Name        string
	ManageStock bool
	IsProduced  bool
	CostPrice   decimal.Decimal // costo unitario de referencia de la variante
	UnitID      string          // unidad en la que se lleva su stock

	Recipe          []RecipeLine     // ingredientes consumidos si IsProduced
	ComboComponents []ComboComponent // componentes fijos del combo
}

// Policy deriva la política de stock de los flags de la variante.
func (v *SellableUnit) Policy() StockPolicy {
	switch {
	case !v.ManageStock:
		return PolicyUnmanaged
	case v.IsProduced:
		return PolicyRecipe
	default:
		return PolicyDirect
	}
}

// Ingredient SKU elemental rastreado en inventario.
type Ingredient struct {
	ID        string
	Name      string
	CostPrice decimal.Decimal // costo unitario en su unidad de stock
	UnitID    string          // unidad en la que se lleva su stock
}

// RecipeLine línea de receta: cantidad de un ingrediente, en la unidad declarada.
// La unidad de la línea puede diferir de la unidad de stock del ingrediente;
// el motor convierte con la tabla de conversiones al descomponer.
type RecipeLine struct {
	Ingredient *Ingredient
	UnitID     string
	Quantity   decimal.Decimal
}

// ComboComponent componente fijo de un combo, con su cantidad por combo vendido.
// El componente puede a su vez ser producido o combo (recursión a profundidad arbitraria).
type ComboComponent struct {
	Component *SellableUnit
	Quantity  decimal.Decimal
}

// Addon adición con receta de ingredientes propia (ej. "queso extra").
type Addon struct {
	ID     string
	Name   string
	Recipe []RecipeLine
}
