package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-alerts/internal/application/alerting"
	"github.com/invorya/stock-alerts/internal/application/ledger"
	"github.com/invorya/stock-alerts/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *ledger.UseCase
	Sweep         *alerting.SweepUseCase
	Dispatcher    *alerting.DispatcherUseCase
	Notifications repository.NotificationRepository
}

// Router registra las rutas de la API. Todas las rutas van con scope de
// tenant: la identidad la resuelve el colaborador que antepone la cabecera.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", TenantMiddleware())

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	inv.Post("/movements", inventoryHandler.RegisterDelta)
	inv.Get("/products/:id/ledger", inventoryHandler.ListLedger)

	alerts := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.Sweep, deps.Dispatcher)
	alerts.Post("/evaluate", alertHandler.Evaluate)
	alerts.Post("/digest", alertHandler.SendDigest)
	alerts.Get("/rate-limit", alertHandler.RateLimitStatus)

	notifications := api.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.Notifications)
	notifications.Get("/", notificationHandler.ListUnread)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Delete("/:id", notificationHandler.Delete)
}
