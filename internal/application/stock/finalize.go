package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// FinalizeOrderLineUseCase arma la línea de pedido a partir del catálogo (grafo de
// materiales cargado recursivamente) y la descompone. Es el punto de entrada que
// usa el flujo de finalización de pedidos.
type FinalizeOrderLineUseCase struct {
	catalogRepo repository.CatalogRepository
	decompose   *DecomposeSaleUseCase
	log         *logger.Logger
}

// NewFinalizeOrderLineUseCase construye el caso de uso.
func NewFinalizeOrderLineUseCase(
	catalogRepo repository.CatalogRepository,
	decompose *DecomposeSaleUseCase,
	log *logger.Logger,
) *FinalizeOrderLineUseCase {
	return &FinalizeOrderLineUseCase{catalogRepo: catalogRepo, decompose: decompose, log: log}
}

// OptionSelection opción de combo elegida en la línea (referencia + cantidad).
type OptionSelection struct {
	UnitID   string
	Quantity decimal.Decimal
}

// AddonSelection adición elegida en la línea (referencia + cantidad).
type AddonSelection struct {
	AddonID  string
	Quantity decimal.Decimal
}

// FinalizeOrderLineInput línea de pedido tal como la entrega el flujo de pedidos.
type FinalizeOrderLineInput struct {
	TenantID    string
	StoreID     string
	ActorID     string
	OrderNumber string
	UnitID      string
	Quantity    decimal.Decimal
	CostPrice   decimal.Decimal // costo registrado en la línea; 0 = usar el de la variante
	Options     []OptionSelection
	Addons      []AddonSelection
}

// FinalizeOrderLine resuelve el grafo de materiales y registra los consumos de la línea.
// Las referencias rotas en opciones/adiciones se omiten (hueco de integridad del
// catálogo, no error de la venta); una variante principal inexistente sí es error.
func (uc *FinalizeOrderLineUseCase) FinalizeOrderLine(ctx context.Context, in FinalizeOrderLineInput) ([]*entity.StockMovement, error) {
	if in.TenantID == "" || in.StoreID == "" || in.UnitID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	for _, opt := range in.Options {
		if !opt.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	for _, sel := range in.Addons {
		if !sel.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	variant, err := uc.catalogRepo.GetSellableUnit(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	if variant.TenantID != "" && variant.TenantID != in.TenantID {
		return nil, domain.ErrNotFound
	}

	costPrice := in.CostPrice
	if costPrice.IsZero() {
		costPrice = variant.CostPrice
	}

	line := &entity.OrderLine{
		TenantID:    in.TenantID,
		StoreID:     in.StoreID,
		ActorID:     in.ActorID,
		OrderNumber: in.OrderNumber,
		Unit:        variant,
		Quantity:    in.Quantity,
		CostPrice:   costPrice,
	}

	for _, opt := range in.Options {
		optUnit, err := uc.catalogRepo.GetSellableUnit(ctx, opt.UnitID)
		if err != nil {
			return nil, err
		}
		if optUnit == nil {
			uc.log.Warn().
				Str("order_number", in.OrderNumber).
				Str("unit_id", opt.UnitID).
				Msg("opción de combo inexistente en catálogo, se omite")
			continue
		}
		line.Options = append(line.Options, entity.SelectedOption{Unit: optUnit, Quantity: opt.Quantity})
	}

	for _, sel := range in.Addons {
		addon, err := uc.catalogRepo.GetAddon(ctx, sel.AddonID)
		if err != nil {
			return nil, err
		}
		if addon == nil {
			uc.log.Warn().
				Str("order_number", in.OrderNumber).
				Str("addon_id", sel.AddonID).
				Msg("adición inexistente en catálogo, se omite")
			continue
		}
		line.Addons = append(line.Addons, entity.SelectedAddon{Addon: addon, Quantity: sel.Quantity})
	}

	return uc.decompose.DecomposeSale(ctx, line)
}
