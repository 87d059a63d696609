package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/stock"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
)

const (
	testTenant = "tenant-1"
	testStore  = "store-1"
	testActor  = "user-1"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func newLedger() (*stock.LedgerUseCase, *memory.Store) {
	store := memory.NewStore()
	return stock.NewLedgerUseCase(memory.NewTxRunner(store)), store
}

func registerIn(t *testing.T, uc *stock.LedgerUseCase, sku, qty, cost string) *entity.StockMovement {
	t.Helper()
	m, err := uc.Register(context.Background(), stock.RegisterInput{
		ActorID:  testActor,
		TenantID: testTenant,
		StoreID:  testStore,
		SKUID:    sku,
		Quantity: d(qty),
		Subtype:  entity.SubtypePurchase,
		UnitCost: dp(cost),
	})
	require.NoError(t, err)
	return m
}

func mustAccount(t *testing.T, store *memory.Store, sku string) *entity.StockAccount {
	t.Helper()
	acc := store.Account(testStore, sku)
	require.NotNil(t, acc, "la cuenta (%s, %s) debe existir", testStore, sku)
	return acc
}

func movements(t *testing.T, store *memory.Store, sku string) []*entity.StockMovement {
	t.Helper()
	return store.MovementsBySKU(sku)
}

// Escenario de referencia del motor de costeo:
// compra 10 a 2.00 -> (10, 2.00); compra 5 a 3.20 -> (15, 2.40); venta 4 -> (11, 2.40).
func TestRegister_EscenarioPromedioPonderado(t *testing.T) {
	uc, store := newLedger()

	registerIn(t, uc, "burger", "10", "2.00")
	acc := mustAccount(t, store, "burger")
	assert.True(t, acc.Quantity.Equal(d("10")))
	assert.True(t, acc.AvgCost.Equal(d("2.00")), "primer ingreso fija el costo, got %s", acc.AvgCost)

	registerIn(t, uc, "burger", "5", "3.20")
	acc = mustAccount(t, store, "burger")
	assert.True(t, acc.Quantity.Equal(d("15")))
	assert.True(t, acc.AvgCost.Equal(d("2.40")), "(10*2.00+5*3.20)/15 = 2.40, got %s", acc.AvgCost)

	_, err := uc.Register(context.Background(), stock.RegisterInput{
		ActorID:  testActor,
		TenantID: testTenant,
		StoreID:  testStore,
		SKUID:    "burger",
		Quantity: d("4"),
		Subtype:  entity.SubtypeSale,
	})
	require.NoError(t, err)
	acc = mustAccount(t, store, "burger")
	assert.True(t, acc.Quantity.Equal(d("11")))
	assert.True(t, acc.AvgCost.Equal(d("2.40")), "la salida no toca el costo promedio, got %s", acc.AvgCost)
}

// La cuenta se crea perezosamente en cero con el primer movimiento.
func TestRegister_CreaCuentaEnCeroAlPrimerMovimiento(t *testing.T) {
	uc, store := newLedger()

	mov := registerIn(t, uc, "queso", "3", "8.50")
	assert.Equal(t, entity.DirectionIn, mov.Direction)
	assert.Equal(t, entity.SubtypePurchase, mov.Subtype)

	acc := mustAccount(t, store, "queso")
	assert.Equal(t, testTenant, acc.TenantID)
	assert.True(t, acc.Quantity.Equal(d("3")))
	assert.True(t, acc.AvgCost.Equal(d("8.50")))
}

// Entrada sin costo unitario: suma cantidad sin recostear (devolución de cliente).
func TestRegister_EntradaSinCostoNoRecostea(t *testing.T) {
	uc, store := newLedger()
	store.SeedAccount(testTenant, testStore, "pan", d("10"), d("0.30"))

	_, err := uc.Register(context.Background(), stock.RegisterInput{
		ActorID:  testActor,
		TenantID: testTenant,
		StoreID:  testStore,
		SKUID:    "pan",
		Quantity: d("2"),
		Subtype:  entity.SubtypeReturnCustomer,
	})
	require.NoError(t, err)

	acc := mustAccount(t, store, "pan")
	assert.True(t, acc.Quantity.Equal(d("12")))
	assert.True(t, acc.AvgCost.Equal(d("0.30")), "sin costo unitario el promedio no cambia")
}

// Una salida mayor al saldo se rechaza y no deja rastro (regla de negocio unificada).
func TestRegister_SalidaMayorAlSaldoFalla(t *testing.T) {
	uc, store := newLedger()
	store.SeedAccount(testTenant, testStore, "carne", d("2"), d("5.00"))

	_, err := uc.Register(context.Background(), stock.RegisterInput{
		ActorID:  testActor,
		TenantID: testTenant,
		StoreID:  testStore,
		SKUID:    "carne",
		Quantity: d("3"),
		Subtype:  entity.SubtypeWaste,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	acc := mustAccount(t, store, "carne")
	assert.True(t, acc.Quantity.Equal(d("2")), "la cuenta no debe quedar mutada tras el rechazo")
	assert.Empty(t, movements(t, store, "carne"), "no debe quedar movimiento en el libro")
}

// Validaciones de entrada: cantidad no positiva, subtipo desconocido, ids vacíos.
func TestRegister_EntradasInvalidas(t *testing.T) {
	uc, _ := newLedger()
	base := stock.RegisterInput{
		ActorID:  testActor,
		TenantID: testTenant,
		StoreID:  testStore,
		SKUID:    "sku",
		Quantity: d("1"),
		Subtype:  entity.SubtypePurchase,
	}

	casos := []struct {
		nombre string
		mutar  func(*stock.RegisterInput)
	}{
		{"cantidad cero", func(in *stock.RegisterInput) { in.Quantity = decimal.Zero }},
		{"cantidad negativa", func(in *stock.RegisterInput) { in.Quantity = d("-1") }},
		{"subtipo desconocido", func(in *stock.RegisterInput) { in.Subtype = "prestamo" }},
		{"sin tienda", func(in *stock.RegisterInput) { in.StoreID = "" }},
		{"sin tenant", func(in *stock.RegisterInput) { in.TenantID = "" }},
		{"sin sku", func(in *stock.RegisterInput) { in.SKUID = "" }},
		{"costo negativo", func(in *stock.RegisterInput) { in.UnitCost = dp("-2") }},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			in := base
			c.mutar(&in)
			_, err := uc.Register(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// El movimiento creado lleva toda la procedencia.
func TestRegister_MovimientoConProcedencia(t *testing.T) {
	uc, store := newLedger()

	mov, err := uc.Register(context.Background(), stock.RegisterInput{
		ActorID:        testActor,
		TenantID:       testTenant,
		StoreID:        testStore,
		SKUID:          "harina",
		Quantity:       d("25"),
		Subtype:        entity.SubtypePurchase,
		UnitCost:       dp("1.10"),
		Reason:         "Compra semanal proveedor molinos",
		DocumentNumber: "FC-00123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, mov.ID)
	assert.NotEmpty(t, mov.TransactionID)
	assert.Equal(t, testTenant, mov.TenantID)
	assert.Equal(t, testStore, mov.StoreID)
	assert.Equal(t, testActor, mov.CreatedBy)
	assert.Equal(t, "Compra semanal proveedor molinos", mov.Reason)
	assert.Equal(t, "FC-00123", mov.DocumentNumber)
	require.NotNil(t, mov.UnitCost)
	assert.True(t, mov.UnitCost.Equal(d("1.10")))

	list := movements(t, store, "harina")
	require.Len(t, list, 1)
	assert.Equal(t, mov.ID, list[0].ID)
}
