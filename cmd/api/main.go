package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/invorya/stock-alerts/internal/application/alerting"
	"github.com/invorya/stock-alerts/internal/application/ledger"
	"github.com/invorya/stock-alerts/internal/application/threshold"
	"github.com/invorya/stock-alerts/internal/infrastructure/mail"
	"github.com/invorya/stock-alerts/internal/infrastructure/postgres"
	httpRouter "github.com/invorya/stock-alerts/internal/interfaces/http"
	"github.com/invorya/stock-alerts/pkg/config"
	"github.com/invorya/stock-alerts/pkg/logger"
	"github.com/invorya/stock-alerts/pkg/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	salesRepo := postgres.NewSalesRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Limitador de envíos: instancia única del proceso, inyectada, sin
	// estado global de paquete.
	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)

	ledgerUC := ledger.NewUseCase(txRunner, productRepo, ledgerRepo, log)
	calc := threshold.NewCalculator(productRepo, salesRepo)
	sweepUC := alerting.NewSweepUseCase(txRunner, calc, cfg.Alerts.NotifyOnRecovered, log)
	mailer := mail.NewSMTPSender(cfg.SMTP)
	dispatcherUC := alerting.NewDispatcherUseCase(
		limiter, sweepUC, alertRepo, notificationRepo, companyRepo,
		mailer, cfg.Alerts.DigestTopN, log,
	)

	// Barrido y resumen programados para todas las empresas.
	interval := time.Duration(cfg.Alerts.SweepIntervalMinutes) * time.Minute
	go runScheduler(ctx, log, companyRepo, sweepUC, dispatcherUC, limiter, interval)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:        ledgerUC,
		Sweep:         sweepUC,
		Dispatcher:    dispatcherUC,
		Notifications: notificationRepo,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("apagando aplicación")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}

// runScheduler dispara el barrido y el resumen por empresa a la cadencia
// configurada. Cada producto confirma su propia transacción, así que una
// cancelación a mitad de barrido no deja escrituras parciales.
func runScheduler(
	ctx context.Context,
	log *logger.Logger,
	companyRepo *postgres.CompanyRepo,
	sweep *alerting.SweepUseCase,
	dispatcher *alerting.DispatcherUseCase,
	limiter *ratelimit.Limiter,
	interval time.Duration,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		companyIDs, err := companyRepo.ListIDs(ctx)
		if err != nil {
			log.Error().Err(err).Msg("listar empresas para el barrido programado")
			continue
		}
		for _, companyID := range companyIDs {
			if ctx.Err() != nil {
				return
			}
			result, err := sweep.EvaluateThresholds(ctx, companyID, "")
			if err != nil {
				log.Error().Err(err).Str("company_id", companyID).Msg("barrido programado")
				continue
			}
			log.Info().
				Str("company_id", companyID).
				Int("processed", result.Processed).
				Int("errored", result.Errored).
				Msg("barrido programado completado")

			dispatch, err := dispatcher.SendDigest(ctx, companyID)
			if err != nil {
				log.Error().Err(err).Str("company_id", companyID).Msg("resumen programado")
				continue
			}
			log.Info().
				Str("company_id", companyID).
				Bool("success", dispatch.Success).
				Int("alerts_sent", dispatch.AlertsSent).
				Str("reason", dispatch.Reason).
				Msg("resumen programado")
		}

		// Poda de ventanas vencidas del limitador.
		limiter.Cleanup()
	}
}
