package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// El libro es de solo inserción: no existen UPDATE ni DELETE sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, transaction_id, tenant_id, store_id, sku_id, direction, subtype,
		quantity, unit_cost, reason, document_number, recipe_unit_id, created_at, created_by`

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	docNumber := (*string)(nil)
	if movement.DocumentNumber != "" {
		docNumber = &movement.DocumentNumber
	}
	recipeUnit := (*string)(nil)
	if movement.RecipeUnitID != "" {
		recipeUnit = &movement.RecipeUnitID
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.TransactionID, movement.TenantID, movement.StoreID, movement.SKUID,
		string(movement.Direction), string(movement.Subtype), movement.Quantity, movement.UnitCost,
		movement.Reason, docNumber, recipeUnit, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. nil, nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	m, err := scanMovement(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByStore lista movimientos de una tienda en un rango de fechas.
func (r *StockMovementRepo) ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list("store_id", storeID, from, to, limit, offset)
}

// ListBySKU lista movimientos de un SKU en un rango de fechas.
func (r *StockMovementRepo) ListBySKU(skuID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list("sku_id", skuID, from, to, limit, offset)
}

func (r *StockMovementRepo) list(column, value string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by %s: %w", column, err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(scan func(dest ...any) error) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var direction, subtype string
	var docNumber, recipeUnit, createdBy *string
	err := scan(
		&m.ID, &m.TransactionID, &m.TenantID, &m.StoreID, &m.SKUID, &direction, &subtype,
		&m.Quantity, &m.UnitCost, &m.Reason, &docNumber, &recipeUnit, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	m.Direction = entity.MovementDirection(direction)
	m.Subtype = entity.MovementSubtype(subtype)
	if docNumber != nil {
		m.DocumentNumber = *docNumber
	}
	if recipeUnit != nil {
		m.RecipeUnitID = *recipeUnit
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
