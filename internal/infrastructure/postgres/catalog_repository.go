package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// maxCatalogDepth tope de carga recursiva de combos. Mantiene acotada la carga de
// un catálogo con componentes auto-referentes mal creados por el CRUD externo.
const maxCatalogDepth = 8

// CatalogRepo lee el grafo de materiales desde PostgreSQL. Solo lectura:
// las tablas del catálogo las administra el CRUD del back office.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// GetSellableUnit devuelve la variante con receta y componentes de combo cargados
// recursivamente. nil, nil si no existe.
func (r *CatalogRepo) GetSellableUnit(ctx context.Context, id string) (*entity.SellableUnit, error) {
	return r.loadVariant(ctx, id, 0)
}

func (r *CatalogRepo) loadVariant(ctx context.Context, id string, depth int) (*entity.SellableUnit, error) {
	if depth > maxCatalogDepth {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrBOMTooDeep, id)
	}

	query := `
		SELECT id, tenant_id, store_id, name, manage_stock, is_produced, cost_price, unit_id
		FROM sellable_units WHERE id = $1`
	var v entity.SellableUnit
	var unitID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.TenantID, &v.StoreID, &v.Name, &v.ManageStock, &v.IsProduced, &v.CostPrice, &unitID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sellable unit: %w", err)
	}
	if unitID != nil {
		v.UnitID = *unitID
	}

	if v.Recipe, err = r.loadRecipe(ctx, `
		SELECT rl.unit_id, rl.quantity, i.id, i.name, i.cost_price, i.unit_id
		FROM recipe_lines rl
		JOIN ingredients i ON i.id = rl.ingredient_id
		WHERE rl.sellable_unit_id = $1
		ORDER BY rl.position`, id); err != nil {
		return nil, err
	}

	if err := r.loadComboComponents(ctx, &v, depth); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *CatalogRepo) loadComboComponents(ctx context.Context, v *entity.SellableUnit, depth int) error {
	query := `
		SELECT component_id, quantity
		FROM combo_components WHERE sellable_unit_id = $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, v.ID)
	if err != nil {
		return fmt.Errorf("list combo components: %w", err)
	}
	defer rows.Close()

	var refs []entity.ComboComponent
	var ids []string
	for rows.Next() {
		var componentID string
		var comp entity.ComboComponent
		if err := rows.Scan(&componentID, &comp.Quantity); err != nil {
			return fmt.Errorf("scan combo component: %w", err)
		}
		refs = append(refs, comp)
		ids = append(ids, componentID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Cargar componentes después de cerrar el cursor: el Querier puede ser una tx
	// sin soporte de cursores concurrentes.
	for i := range refs {
		child, err := r.loadVariant(ctx, ids[i], depth+1)
		if err != nil {
			return err
		}
		refs[i].Component = child // nil si la referencia está rota; el motor la omite
	}
	v.ComboComponents = refs
	return nil
}

// GetAddon devuelve la adición con su receta. nil, nil si no existe.
func (r *CatalogRepo) GetAddon(ctx context.Context, id string) (*entity.Addon, error) {
	query := `SELECT id, name FROM addons WHERE id = $1`
	var a entity.Addon
	err := r.q.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get addon: %w", err)
	}

	if a.Recipe, err = r.loadRecipe(ctx, `
		SELECT rl.unit_id, rl.quantity, i.id, i.name, i.cost_price, i.unit_id
		FROM addon_recipe_lines rl
		JOIN ingredients i ON i.id = rl.ingredient_id
		WHERE rl.addon_id = $1
		ORDER BY rl.position`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *CatalogRepo) loadRecipe(ctx context.Context, query, ownerID string) ([]entity.RecipeLine, error) {
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.RecipeLine
	for rows.Next() {
		var rl entity.RecipeLine
		var ing entity.Ingredient
		var lineUnit, ingUnit *string
		if err := rows.Scan(&lineUnit, &rl.Quantity, &ing.ID, &ing.Name, &ing.CostPrice, &ingUnit); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		if lineUnit != nil {
			rl.UnitID = *lineUnit
		}
		if ingUnit != nil {
			ing.UnitID = *ingUnit
		}
		rl.Ingredient = &ing
		lines = append(lines, rl)
	}
	return lines, rows.Err()
}
