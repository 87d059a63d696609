package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/stock"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del motor de stock (protegido).
type StockHandler struct {
	ledger      *stock.LedgerUseCase
	finalize    *stock.FinalizeOrderLineUseCase
	accountRepo repository.StockAccountRepository
	movRepo     repository.StockMovementRepository
}

// NewStockHandler construye el handler.
func NewStockHandler(
	ledger *stock.LedgerUseCase,
	finalize *stock.FinalizeOrderLineUseCase,
	accountRepo repository.StockAccountRepository,
	movRepo repository.StockMovementRepository,
) *StockHandler {
	return &StockHandler{ledger: ledger, finalize: finalize, accountRepo: accountRepo, movRepo: movRepo}
}

// RegisterMovement registra un movimiento manual (compra, merma, ajuste, traslado).
// POST /api/stock/movements
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.ledger.Register(c.Context(), stock.RegisterInput{
		ActorID:        userID,
		TenantID:       tenantID,
		StoreID:        in.StoreID,
		SKUID:          in.SKUID,
		Quantity:       in.Quantity,
		Subtype:        entity.MovementSubtype(in.Subtype),
		UnitCost:       in.UnitCost,
		Reason:         in.Reason,
		DocumentNumber: in.DocumentNumber,
	})
	if err != nil {
		return writeStockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// FinalizeOrderLine descompone una línea de pedido vendida en sus consumos.
// POST /api/orders/lines/finalize
func (h *StockHandler) FinalizeOrderLine(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.FinalizeOrderLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := stock.FinalizeOrderLineInput{
		TenantID:    tenantID,
		StoreID:     in.StoreID,
		ActorID:     userID,
		OrderNumber: in.OrderNumber,
		UnitID:      in.UnitID,
		Quantity:    in.Quantity,
		CostPrice:   in.CostPrice,
	}
	for _, opt := range in.Options {
		input.Options = append(input.Options, stock.OptionSelection{UnitID: opt.UnitID, Quantity: opt.Quantity})
	}
	for _, sel := range in.Addons {
		input.Addons = append(input.Addons, stock.AddonSelection{AddonID: sel.AddonID, Quantity: sel.Quantity})
	}
	movs, err := h.finalize.FinalizeOrderLine(c.Context(), input)
	if err != nil {
		return writeStockError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"total":     len(out),
		"movements": out,
	})
}

// ListAccounts devuelve los saldos actuales de una tienda.
// GET /api/stock/accounts?store_id=...
func (h *StockHandler) ListAccounts(c *fiber.Ctx) error {
	if GetTenantID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	storeID := c.Query("store_id")
	if storeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	accounts, err := h.accountRepo.ListByStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, dto.AccountFromEntity(a))
	}
	return c.JSON(fiber.Map{
		"total":    len(out),
		"accounts": out,
	})
}

// ListMovements devuelve el historial de movimientos por tienda o por SKU.
// GET /api/stock/movements?store_id=...&sku_id=...&from=...&to=...
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	if GetTenantID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	storeID := c.Query("store_id")
	skuID := c.Query("sku_id")
	if storeID == "" && skuID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id o sku_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha from inválida (RFC3339)"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha to inválida (RFC3339)"})
	}

	var movs []*entity.StockMovement
	if skuID != "" {
		movs, err = h.movRepo.ListBySKU(skuID, from, to, page.Limit, page.Offset)
	} else {
		movs, err = h.movRepo.ListByStore(storeID, from, to, page.Limit, page.Offset)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.JSON(fiber.Map{
		"total":     len(out),
		"movements": out,
	})
}

func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// writeStockError mapea errores de dominio a códigos HTTP.
func writeStockError(c *fiber.Ctx, err error) error {
	var convErr *domain.UnresolvedConversionError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrBOMCycle), errors.Is(err, domain.ErrBOMTooDeep):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "BOM_INVALID", Message: err.Error()})
	case errors.As(err, &convErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNRESOLVED_CONVERSION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
