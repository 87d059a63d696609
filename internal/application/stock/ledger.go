package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/costing"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// LedgerUseCase registra movimientos de stock de forma transaccional: bloquea la
// fila de la cuenta (SELECT FOR UPDATE), aplica el costeo promedio ponderado y
// agrega el registro inmutable al libro. Es el único camino de escritura sobre
// StockAccount y StockMovement.
type LedgerUseCase struct {
	txRunner TxRunner
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner}
}

// RegisterInput entrada para registrar un movimiento. Quantity siempre > 0;
// el sentido lo determina el subtipo. UnitCost es obligatorio solo si la entrada
// debe recostear la cuenta (compras); en salidas se ignora para el promedio.
type RegisterInput struct {
	ActorID        string
	TenantID       string
	StoreID        string
	SKUID          string
	Quantity       decimal.Decimal
	Subtype        entity.MovementSubtype
	UnitCost       *decimal.Decimal
	Reason         string
	DocumentNumber string
	RecipeUnitID   string // unidad declarada en la receta, solo trazabilidad
	TransactionID  string // vacío = se genera uno nuevo
}

func (in *RegisterInput) validate() error {
	if in.TenantID == "" || in.StoreID == "" || in.SKUID == "" {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if !entity.ValidSubtype(in.Subtype) {
		return domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// Register inicia una transacción, aplica el movimiento y hace Commit o Rollback.
// Devuelve el movimiento creado.
func (uc *LedgerUseCase) Register(ctx context.Context, input RegisterInput) (*entity.StockMovement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		accountRepo repository.StockAccountRepository,
	) error {
		m, err := applyMovement(movRepo, accountRepo, input, time.Now())
		if err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// applyMovement ejecuta los pasos del motor de costeo sobre repositorios ya atados
// a una transacción. Lo comparten Register (una hoja por tx) y la descomposición
// de ventas (muchas hojas en una sola tx).
//  1. Obtiene-o-crea la cuenta con la fila bloqueada.
//  2. Entrada con costo: recostea con promedio ponderado y suma cantidad.
//  3. Salida: verifica saldo suficiente y resta; el costo no cambia.
//  4. Agrega el movimiento al libro.
func applyMovement(
	movRepo repository.StockMovementRepository,
	accountRepo repository.StockAccountRepository,
	in RegisterInput,
	now time.Time,
) (*entity.StockMovement, error) {
	// Invariante del libro: la cantidad de un movimiento siempre es > 0, el sentido
	// lo da el subtipo. Una cantidad negativa en una salida sumaría saldo.
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	direction := entity.DirectionFor(in.Subtype)

	account, err := accountRepo.GetForUpdate(in.StoreID, in.SKUID)
	if err != nil {
		return nil, err
	}
	if account.TenantID == "" {
		account.TenantID = in.TenantID
	}

	switch direction {
	case entity.DirectionIn:
		if in.UnitCost != nil {
			account.AvgCost = costing.WeightedAverage(account.Quantity, account.AvgCost, in.Quantity, *in.UnitCost)
		}
		account.Quantity = account.Quantity.Add(in.Quantity)
	case entity.DirectionOut:
		if account.Quantity.LessThan(in.Quantity) {
			return nil, domain.ErrInsufficientStock
		}
		account.Quantity = account.Quantity.Sub(in.Quantity)
	}
	account.UpdatedAt = now
	if err := accountRepo.Upsert(account); err != nil {
		return nil, err
	}

	txID := in.TransactionID
	if txID == "" {
		txID = uuid.New().String()
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		TransactionID:  txID,
		TenantID:       in.TenantID,
		StoreID:        in.StoreID,
		SKUID:          in.SKUID,
		Direction:      direction,
		Subtype:        in.Subtype,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		Reason:         in.Reason,
		DocumentNumber: in.DocumentNumber,
		RecipeUnitID:   in.RecipeUnitID,
		CreatedAt:      now,
		CreatedBy:      in.ActorID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
