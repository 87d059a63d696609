package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo lee la tabla de referencia de unidades y conversiones. Solo lectura:
// se carga una vez al arrancar para construir el servicio de conversión.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// ListUnits devuelve todas las unidades registradas.
func (r *UnitRepo) ListUnits() ([]*entity.Unit, error) {
	query := `SELECT id, symbol, name FROM units ORDER BY symbol`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.Symbol, &u.Name); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// ListConversions devuelve todas las aristas de conversión registradas.
func (r *UnitRepo) ListConversions() ([]*entity.UnitConversion, error) {
	query := `SELECT from_unit_id, to_unit_id, factor FROM unit_conversions`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list unit conversions: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnitConversion
	for rows.Next() {
		var c entity.UnitConversion
		if err := rows.Scan(&c.FromUnitID, &c.ToUnitID, &c.Factor); err != nil {
			return nil, fmt.Errorf("scan unit conversion: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
