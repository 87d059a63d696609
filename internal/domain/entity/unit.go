package entity

import "github.com/shopspring/decimal"

// Unit unidad de medida de referencia (kg, g, ml, un, ...).
type Unit struct {
	ID     string
	Symbol string // código corto único
	Name   string
}

// UnitConversion arista dirigida entre dos unidades: multiplicar por Factor
// convierte de FromUnitID a ToUnitID. La inversa se deriva dividiendo, no se almacena.
type UnitConversion struct {
	FromUnitID string
	ToUnitID   string
	Factor     decimal.Decimal // > 0
}
