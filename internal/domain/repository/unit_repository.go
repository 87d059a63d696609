package repository

import "github.com/jhoicas/stock-engine/internal/domain/entity"

// UnitRepository carga la tabla de referencia de unidades y factores de conversión.
// Se lee una vez al arrancar el servicio; el servicio de conversión la mantiene en memoria.
type UnitRepository interface {
	ListUnits() ([]*entity.Unit, error)
	ListConversions() ([]*entity.UnitConversion, error)
}
