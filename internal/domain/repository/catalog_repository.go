package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// CatalogRepository lee el grafo de materiales (variantes, recetas, combos, adiciones).
// Solo lectura: el catálogo lo administran pantallas CRUD fuera de este núcleo.
type CatalogRepository interface {
	// GetSellableUnit devuelve la variante con receta y componentes de combo
	// cargados recursivamente. nil, nil si no existe.
	GetSellableUnit(ctx context.Context, id string) (*entity.SellableUnit, error)
	// GetAddon devuelve la adición con su receta. nil, nil si no existe.
	GetAddon(ctx context.Context, id string) (*entity.Addon, error)
}
