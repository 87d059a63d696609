// Package memory implementa los puertos de persistencia sobre mapas en memoria.
// Sirve para tests y modo demo: misma semántica transaccional que PostgreSQL
// (serialización por mutex, rollback por snapshot) sin levantar una base de datos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/application/stock"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

type accountKey struct {
	storeID string
	skuID   string
}

// Store estado compartido en memoria. El mutex serializa las transacciones
// completas, el equivalente del lock de fila en PostgreSQL.
type Store struct {
	mu        sync.Mutex
	accounts  map[accountKey]*entity.StockAccount
	movements []*entity.StockMovement

	units       []*entity.Unit
	conversions []*entity.UnitConversion
	variants    map[string]*entity.SellableUnit
	addons      map[string]*entity.Addon
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		accounts: make(map[accountKey]*entity.StockAccount),
		variants: make(map[string]*entity.SellableUnit),
		addons:   make(map[string]*entity.Addon),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Siembra de datos (tests / demo)
// ──────────────────────────────────────────────────────────────────────────────

// SeedAccount deja una cuenta con cantidad y costo dados.
func (s *Store) SeedAccount(tenantID, storeID, skuID string, qty, avgCost decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountKey{storeID: storeID, skuID: skuID}] = &entity.StockAccount{
		TenantID:  tenantID,
		StoreID:   storeID,
		SKUID:     skuID,
		Quantity:  qty,
		AvgCost:   avgCost,
		UpdatedAt: time.Now(),
	}
}

// SeedUnits registra la tabla de referencia de unidades.
func (s *Store) SeedUnits(units []*entity.Unit, conversions []*entity.UnitConversion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = units
	s.conversions = conversions
}

// SeedVariant registra una variante vendible en el catálogo.
func (s *Store) SeedVariant(v *entity.SellableUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variants[v.ID] = v
}

// SeedAddon registra una adición en el catálogo.
func (s *Store) SeedAddon(a *entity.Addon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addons[a.ID] = a
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura directa (tests / vistas)
// ──────────────────────────────────────────────────────────────────────────────

// Account devuelve una copia de la cuenta, o nil si nunca recibió movimientos.
func (s *Store) Account(storeID, skuID string) *entity.StockAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[accountKey{storeID: storeID, skuID: skuID}]; ok {
		cp := *acc
		return &cp
	}
	return nil
}

// Movements devuelve copias de todos los movimientos en orden de inserción.
func (s *Store) Movements() []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		cp := *m
		list = append(list, &cp)
	}
	return list
}

// MovementsBySKU devuelve copias de los movimientos de un SKU en orden de inserción.
func (s *Store) MovementsBySKU(skuID string) []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range s.movements {
		if m.SKUID == skuID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el callback con el store bloqueado y restaura un snapshot si
// falla: ninguna hoja de una descomposición fallida queda visible.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run serializa la transacción completa y revierte el estado ante error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	accountRepo repository.StockAccountRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snapAccounts := make(map[accountKey]*entity.StockAccount, len(r.store.accounts))
	for k, acc := range r.store.accounts {
		cp := *acc
		snapAccounts[k] = &cp
	}
	snapMovLen := len(r.store.movements)

	movRepo := &movementRepo{store: r.store}
	accountRepo := &accountRepo{store: r.store}
	if err := fn(movRepo, accountRepo); err != nil {
		r.store.accounts = snapAccounts
		r.store.movements = r.store.movements[:snapMovLen]
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios (válidos solo dentro de Run: el mutex ya está tomado)
// ──────────────────────────────────────────────────────────────────────────────

type accountRepo struct {
	store *Store
}

var _ repository.StockAccountRepository = (*accountRepo)(nil)

func (r *accountRepo) Get(storeID, skuID string) (*entity.StockAccount, error) {
	if acc, ok := r.store.accounts[accountKey{storeID: storeID, skuID: skuID}]; ok {
		cp := *acc
		return &cp, nil
	}
	return &entity.StockAccount{StoreID: storeID, SKUID: skuID, Quantity: decimal.Zero, AvgCost: decimal.Zero}, nil
}

// GetForUpdate en memoria equivale a Get: el mutex del TxRunner ya excluye a los demás.
func (r *accountRepo) GetForUpdate(storeID, skuID string) (*entity.StockAccount, error) {
	return r.Get(storeID, skuID)
}

func (r *accountRepo) Upsert(account *entity.StockAccount) error {
	cp := *account
	r.store.accounts[accountKey{storeID: account.StoreID, skuID: account.SKUID}] = &cp
	return nil
}

func (r *accountRepo) ListByStore(storeID string, limit, offset int) ([]*entity.StockAccount, error) {
	var list []*entity.StockAccount
	for k, acc := range r.store.accounts {
		if k.storeID != storeID {
			continue
		}
		cp := *acc
		list = append(list, &cp)
	}
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

type movementRepo struct {
	store *Store
}

var _ repository.StockMovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(movement *entity.StockMovement) error {
	cp := *movement
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.StoreID == storeID }, from, to, limit, offset)
}

func (r *movementRepo) ListBySKU(skuID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.SKUID == skuID }, from, to, limit, offset)
}

func (r *movementRepo) list(match func(*entity.StockMovement) bool, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.store.movements {
		if !match(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios de referencia (fuera de transacción)
// ──────────────────────────────────────────────────────────────────────────────

// UnitRepo lee la tabla de unidades sembrada.
type UnitRepo struct {
	store *Store
}

var _ repository.UnitRepository = (*UnitRepo)(nil)

// NewUnitRepository construye el adaptador.
func NewUnitRepository(store *Store) *UnitRepo {
	return &UnitRepo{store: store}
}

func (r *UnitRepo) ListUnits() ([]*entity.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.units, nil
}

func (r *UnitRepo) ListConversions() ([]*entity.UnitConversion, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.conversions, nil
}

// CatalogRepo lee el catálogo sembrado.
type CatalogRepo struct {
	store *Store
}

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(store *Store) *CatalogRepo {
	return &CatalogRepo{store: store}
}

func (r *CatalogRepo) GetSellableUnit(ctx context.Context, id string) (*entity.SellableUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.variants[id], nil
}

func (r *CatalogRepo) GetAddon(ctx context.Context, id string) (*entity.Addon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.addons[id], nil
}
