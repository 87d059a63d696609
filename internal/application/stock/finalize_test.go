package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/stock"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

func newFinalize(store *memory.Store) *stock.FinalizeOrderLineUseCase {
	decompose := newDecompose(store)
	return stock.NewFinalizeOrderLineUseCase(memory.NewCatalogRepository(store), decompose, logger.Nop())
}

// Flujo completo: la línea se arma desde el catálogo y se descompone.
func TestFinalizeOrderLine_ArmaYDescompone(t *testing.T) {
	store := memory.NewStore()
	seed(store, "burger", "helado", "tocineta")
	store.SeedVariant(directVariant("burger", "Hamburguesa", "2.90"))
	store.SeedVariant(directVariant("helado", "Helado vaso", "0.90"))
	store.SeedAddon(&entity.Addon{
		ID: "extra-tocineta", Name: "Tocineta extra",
		Recipe: []entity.RecipeLine{
			{Ingredient: ingredient("tocineta", "Tocineta", "0.60", "u-un"), UnitID: "u-un", Quantity: d("2")},
		},
	})
	uc := newFinalize(store)

	movs, err := uc.FinalizeOrderLine(context.Background(), stock.FinalizeOrderLineInput{
		TenantID:    testTenant,
		StoreID:     testStore,
		ActorID:     testActor,
		OrderNumber: "PED-0099",
		UnitID:      "burger",
		Quantity:    d("2"),
		Options:     []stock.OptionSelection{{UnitID: "helado", Quantity: d("1")}},
		Addons:      []stock.AddonSelection{{AddonID: "extra-tocineta", Quantity: d("1")}},
	})
	require.NoError(t, err)
	require.Len(t, movs, 3, "variante + opción + ingrediente de adición")

	assert.Equal(t, "burger", movs[0].SKUID)
	require.NotNil(t, movs[0].UnitCost)
	assert.True(t, movs[0].UnitCost.Equal(d("2.90")), "sin costo en la línea se usa el de la variante")
	assert.Equal(t, "helado", movs[1].SKUID)
	assert.Equal(t, "tocineta", movs[2].SKUID)
	assert.True(t, movs[2].Quantity.Equal(d("4")), "2 tocinetas * 1 adición * 2 líneas")
}

// Referencias rotas del pedido al catálogo (opción o adición inexistente) se omiten.
func TestFinalizeOrderLine_ReferenciasRotasSeOmiten(t *testing.T) {
	store := memory.NewStore()
	seed(store, "burger")
	store.SeedVariant(directVariant("burger", "Hamburguesa", "2.90"))
	uc := newFinalize(store)

	movs, err := uc.FinalizeOrderLine(context.Background(), stock.FinalizeOrderLineInput{
		TenantID:    testTenant,
		StoreID:     testStore,
		ActorID:     testActor,
		OrderNumber: "PED-0100",
		UnitID:      "burger",
		Quantity:    d("1"),
		Options:     []stock.OptionSelection{{UnitID: "no-existe", Quantity: d("1")}},
		Addons:      []stock.AddonSelection{{AddonID: "tampoco", Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo la variante principal emite")
}

// La variante principal inexistente sí es error: sin ella no hay venta que finalizar.
func TestFinalizeOrderLine_VariantePrincipalInexistente(t *testing.T) {
	store := memory.NewStore()
	uc := newFinalize(store)

	_, err := uc.FinalizeOrderLine(context.Background(), stock.FinalizeOrderLineInput{
		TenantID: testTenant,
		StoreID:  testStore,
		UnitID:   "fantasma",
		Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Cantidades no positivas en opciones o adiciones se rechazan antes de tocar el catálogo.
func TestFinalizeOrderLine_SeleccionesConCantidadNoPositiva(t *testing.T) {
	store := memory.NewStore()
	seed(store, "burger")
	store.SeedVariant(directVariant("burger", "Hamburguesa", "2.90"))
	uc := newFinalize(store)

	_, err := uc.FinalizeOrderLine(context.Background(), stock.FinalizeOrderLineInput{
		TenantID: testTenant,
		StoreID:  testStore,
		UnitID:   "burger",
		Quantity: d("1"),
		Options:  []stock.OptionSelection{{UnitID: "burger", Quantity: d("-5")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "opción con cantidad negativa")

	_, err = uc.FinalizeOrderLine(context.Background(), stock.FinalizeOrderLineInput{
		TenantID: testTenant,
		StoreID:  testStore,
		UnitID:   "burger",
		Quantity: d("1"),
		Addons:   []stock.AddonSelection{{AddonID: "x", Quantity: d("0")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "adición con cantidad cero")

	assert.Empty(t, store.Movements(), "nada llega al libro con selecciones inválidas")
}

// Un contexto cancelado corta la carga del catálogo antes de abrir la transacción.
func TestFinalizeOrderLine_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	store.SeedVariant(directVariant("burger", "Hamburguesa", "2.90"))
	uc := newFinalize(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.FinalizeOrderLine(ctx, stock.FinalizeOrderLineInput{
		TenantID: testTenant,
		StoreID:  testStore,
		UnitID:   "burger",
		Quantity: d("1"),
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.Movements())
}

// Una variante de otro tenant no es visible para la línea.
func TestFinalizeOrderLine_TenantAjeno(t *testing.T) {
	store := memory.NewStore()
	v := directVariant("burger", "Hamburguesa", "2.90")
	v.TenantID = "otro-tenant"
	store.SeedVariant(v)
	uc := newFinalize(store)

	_, err := uc.FinalizeOrderLine(context.Background(), stock.FinalizeOrderLineInput{
		TenantID: testTenant,
		StoreID:  testStore,
		UnitID:   "burger",
		Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
