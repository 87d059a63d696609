package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/application/units"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// maxBOMDepth tope de recursión sobre el grafo de materiales. Un catálogo real
// rara vez pasa de combo -> componente -> receta; 8 deja margen sin arriesgar
// recorridos descontrolados.
const maxBOMDepth = 8

// DecomposeSaleUseCase descompone una línea de pedido vendida en sus consumos
// elementales de stock y los registra como movimientos SALE. Toda la línea se
// ejecuta en UNA transacción: si una hoja falla (saldo insuficiente, conversión
// sin resolver, ciclo) no queda ningún movimiento parcial confirmado.
//
// El recorrido es determinista: receta, componentes fijos de combo, opciones
// elegidas y por último adiciones, en el orden en que aparecen en el grafo.
type DecomposeSaleUseCase struct {
	txRunner TxRunner
	units    *units.Service
	log      *logger.Logger
}

// NewDecomposeSaleUseCase construye el caso de uso.
func NewDecomposeSaleUseCase(txRunner TxRunner, unitsSvc *units.Service, log *logger.Logger) *DecomposeSaleUseCase {
	return &DecomposeSaleUseCase{txRunner: txRunner, units: unitsSvc, log: log}
}

// DecomposeSale registra los consumos de una línea vendida y devuelve los
// movimientos creados, en el orden de emisión.
func (uc *DecomposeSaleUseCase) DecomposeSale(ctx context.Context, line *entity.OrderLine) ([]*entity.StockMovement, error) {
	if line == nil || line.Unit == nil {
		return nil, domain.ErrInvalidInput
	}
	if line.TenantID == "" || line.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !line.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var created []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		accountRepo repository.StockAccountRepository,
	) error {
		w := &bomWalker{
			line:        line,
			txID:        uuid.New().String(),
			now:         time.Now(),
			movRepo:     movRepo,
			accountRepo: accountRepo,
			units:       uc.units,
			log:         uc.log,
			path:        make(map[string]bool),
		}
		if err := w.walkLine(); err != nil {
			return err
		}
		created = w.created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// bomWalker estado de un recorrido del grafo de materiales dentro de la transacción.
// path contiene las variantes del camino actual para detectar ciclos; se limpia al
// retroceder, así un mismo componente compartido por dos combos no dispara falso positivo.
type bomWalker struct {
	line        *entity.OrderLine
	txID        string
	now         time.Time
	movRepo     repository.StockMovementRepository
	accountRepo repository.StockAccountRepository
	units       *units.Service
	log         *logger.Logger
	path        map[string]bool
	created     []*entity.StockMovement
}

func (w *bomWalker) walkLine() error {
	// Árbol de la variante vendida: receta/consumo propio + combos fijos.
	// La raíz consume al costo registrado en la línea; los componentes anidados
	// al costo de referencia de cada variante.
	if err := w.walkVariant(w.line.Unit, w.line.Quantity, w.line.CostPrice, 0); err != nil {
		return err
	}

	// Opciones de combo elegidas por el cliente.
	for _, opt := range w.line.Options {
		if opt.Unit == nil {
			w.skip("opción de combo sin variante enlazada")
			continue
		}
		qty := opt.Quantity.Mul(w.line.Quantity)
		if err := w.walkVariant(opt.Unit, qty, opt.Unit.CostPrice, 0); err != nil {
			return err
		}
	}

	// Adiciones: cada una consume su propia receta de ingredientes.
	for _, sel := range w.line.Addons {
		if sel.Addon == nil {
			w.skip("adición sin addon enlazado")
			continue
		}
		qty := sel.Quantity.Mul(w.line.Quantity)
		if err := w.consumeRecipe(sel.Addon.Recipe, sel.Addon.Name, qty); err != nil {
			return err
		}
	}
	return nil
}

// walkVariant aplica las reglas de descomposición a una variante con cantidad efectiva qty.
// unitCost es el costo a registrar si la variante consume su propio stock.
func (w *bomWalker) walkVariant(v *entity.SellableUnit, qty, unitCost decimal.Decimal, depth int) error {
	if !qty.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: cantidad no positiva para variante %s", domain.ErrInvalidInput, v.ID)
	}
	if depth > maxBOMDepth {
		return fmt.Errorf("%w: variante %s", domain.ErrBOMTooDeep, v.ID)
	}
	if w.path[v.ID] {
		return fmt.Errorf("%w: variante %s", domain.ErrBOMCycle, v.ID)
	}
	w.path[v.ID] = true
	defer delete(w.path, v.ID)

	switch v.Policy() {
	case entity.PolicyUnmanaged:
		// Sin movimiento propio; los subárboles de combo de abajo sí se procesan.
	case entity.PolicyDirect:
		cost := unitCost
		if err := w.emit(v.ID, v.Name, qty, &cost, ""); err != nil {
			return err
		}
	case entity.PolicyRecipe:
		if err := w.consumeRecipe(v.Recipe, v.Name, qty); err != nil {
			return err
		}
	}

	for _, comp := range v.ComboComponents {
		if comp.Component == nil {
			w.skip("componente de combo sin variante enlazada")
			continue
		}
		effQty := comp.Quantity.Mul(qty)
		if err := w.walkVariant(comp.Component, effQty, comp.Component.CostPrice, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// consumeRecipe emite un movimiento SALE por cada línea de receta, convirtiendo la
// cantidad a la unidad de stock del ingrediente cuando la receta declara otra.
func (w *bomWalker) consumeRecipe(recipe []entity.RecipeLine, itemName string, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: cantidad no positiva para %s", domain.ErrInvalidInput, itemName)
	}
	for _, rl := range recipe {
		if rl.Ingredient == nil {
			w.skip("línea de receta sin ingrediente enlazado")
			continue
		}
		consumed := rl.Quantity.Mul(qty)
		if rl.UnitID != "" && rl.Ingredient.UnitID != "" && rl.UnitID != rl.Ingredient.UnitID {
			converted, err := w.units.Convert(consumed, rl.UnitID, rl.Ingredient.UnitID)
			if err != nil {
				return fmt.Errorf("convertir receta de %s: %w", itemName, err)
			}
			consumed = converted
		}
		cost := rl.Ingredient.CostPrice
		if err := w.emit(rl.Ingredient.ID, rl.Ingredient.Name, consumed, &cost, rl.UnitID); err != nil {
			return err
		}
	}
	return nil
}

// emit registra una hoja de consumo contra el motor de costeo, en la misma transacción.
func (w *bomWalker) emit(skuID, itemName string, qty decimal.Decimal, unitCost *decimal.Decimal, recipeUnitID string) error {
	mov, err := applyMovement(w.movRepo, w.accountRepo, RegisterInput{
		ActorID:       w.line.ActorID,
		TenantID:      w.line.TenantID,
		StoreID:       w.line.StoreID,
		SKUID:         skuID,
		Quantity:      qty,
		Subtype:       entity.SubtypeSale,
		UnitCost:      unitCost,
		Reason:        fmt.Sprintf("Venta pedido %s - %s", w.line.OrderNumber, itemName),
		RecipeUnitID:  recipeUnitID,
		TransactionID: w.txID,
	}, w.now)
	if err != nil {
		return err
	}
	w.created = append(w.created, mov)
	return nil
}

// skip registra un hueco de integridad del grafo y continúa. Una relación rota en el
// catálogo no debe tumbar la venta; queda en el log para corregir el dato.
func (w *bomWalker) skip(reason string) {
	w.log.Warn().
		Str("order_number", w.line.OrderNumber).
		Str("store_id", w.line.StoreID).
		Msg("descomposición: " + reason + ", se omite")
}
