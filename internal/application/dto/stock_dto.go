package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/stock/movements.
type RegisterMovementRequest struct {
	StoreID        string           `json:"store_id"`
	SKUID          string           `json:"sku_id"`
	Subtype        string           `json:"subtype"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	DocumentNumber string           `json:"document_number,omitempty"`
}

// FinalizeOrderLineRequest body para POST /api/orders/lines/finalize.
type FinalizeOrderLineRequest struct {
	StoreID     string               `json:"store_id"`
	OrderNumber string               `json:"order_number"`
	UnitID      string               `json:"unit_id"`
	Quantity    decimal.Decimal      `json:"quantity"`
	CostPrice   decimal.Decimal      `json:"cost_price,omitempty"`
	Options     []OptionSelectionDTO `json:"options,omitempty"`
	Addons      []AddonSelectionDTO  `json:"addons,omitempty"`
}

// OptionSelectionDTO opción de combo elegida en la línea.
type OptionSelectionDTO struct {
	UnitID   string          `json:"unit_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AddonSelectionDTO adición elegida en la línea.
type AddonSelectionDTO struct {
	AddonID  string          `json:"addon_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// MovementDTO movimiento del libro en respuestas.
type MovementDTO struct {
	ID             string           `json:"id"`
	TransactionID  string           `json:"transaction_id"`
	StoreID        string           `json:"store_id"`
	SKUID          string           `json:"sku_id"`
	Direction      string           `json:"direction"`
	Subtype        string           `json:"subtype"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	DocumentNumber string           `json:"document_number,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	CreatedBy      string           `json:"created_by,omitempty"`
}

// MovementFromEntity mapea el movimiento de dominio a DTO de respuesta.
func MovementFromEntity(m *entity.StockMovement) MovementDTO {
	return MovementDTO{
		ID:             m.ID,
		TransactionID:  m.TransactionID,
		StoreID:        m.StoreID,
		SKUID:          m.SKUID,
		Direction:      string(m.Direction),
		Subtype:        string(m.Subtype),
		Quantity:       m.Quantity,
		UnitCost:       m.UnitCost,
		Reason:         m.Reason,
		DocumentNumber: m.DocumentNumber,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

// AccountDTO saldo de cuenta de stock en respuestas.
type AccountDTO struct {
	StoreID   string          `json:"store_id"`
	SKUID     string          `json:"sku_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	AvgCost   decimal.Decimal `json:"avg_cost"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromEntity mapea la cuenta de dominio a DTO de respuesta.
func AccountFromEntity(a *entity.StockAccount) AccountDTO {
	return AccountDTO{
		StoreID:   a.StoreID,
		SKUID:     a.SKUID,
		Quantity:  a.Quantity,
		AvgCost:   a.AvgCost,
		UpdatedAt: a.UpdatedAt,
	}
}
