package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-engine/internal/application/stock"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger       *stock.LedgerUseCase
	Finalize     *stock.FinalizeOrderLineUseCase
	AccountRepo  repository.StockAccountRepository
	MovementRepo repository.StockMovementRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	handler := NewStockHandler(deps.Ledger, deps.Finalize, deps.AccountRepo, deps.MovementRepo)

	// Libro de movimientos y saldos (protegido)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/movements", handler.RegisterMovement)
	stockGroup.Get("/movements", handler.ListMovements)
	stockGroup.Get("/accounts", handler.ListAccounts)

	// Finalización de líneas de pedido (protegido)
	orders := protected.Group("/orders")
	orders.Post("/lines/finalize", handler.FinalizeOrderLine)
}
