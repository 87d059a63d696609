package entity

import "github.com/shopspring/decimal"

// OrderLine línea de pedido vendida, con el grafo de materiales ya resuelto.
// La construye el colaborador de finalización de pedidos (fuera de este núcleo)
// o el caso de uso de finalización a partir del catálogo.
type OrderLine struct {
	TenantID    string
	StoreID     string
	ActorID     string
	OrderNumber string

	Unit      *SellableUnit
	Quantity  decimal.Decimal
	CostPrice decimal.Decimal // costo unitario registrado en la línea al vender

	Options []SelectedOption // opciones de combo elegidas por el cliente
	Addons  []SelectedAddon  // adiciones elegidas por el cliente
}

// SelectedOption opción de combo elegida: variante y cantidad por unidad de línea.
type SelectedOption struct {
	Unit     *SellableUnit
	Quantity decimal.Decimal
}

// SelectedAddon adición elegida: addon y cantidad por unidad de línea.
type SelectedAddon struct {
	Addon    *Addon
	Quantity decimal.Decimal
}
