// Command sweeper ejecuta una sola vez el barrido de alertas de stock y termina.
// Pensado para planificadores externos (cron del sistema, CronJob de Kubernetes).
// Sale con código 1 si el barrido falla.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "sweeper"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	sweep := alerts.NewStockAlertSweep(
		postgres.NewBatchRepository(pool),
		postgres.NewUserRepository(pool),
		postgres.NewNotificationRepository(pool),
		alerts.SweepConfig{
			LowStockThreshold: cfg.Sweep.LowStockThreshold,
			ExpiryWindowDays:  cfg.Sweep.ExpiryWindowDays,
			DedupWindow:       cfg.Sweep.DedupWindow,
		},
		log.Component("stock_sweep"),
	)

	start := time.Now()
	res, err := sweep.Run(ctx)
	if err != nil {
		log.Error().Err(err).Int("created", res.Created).Msg("barrido de alertas falló")
		pool.Close()
		os.Exit(1)
	}
	log.Info().
		Int("recipients", res.Recipients).
		Int("low_stock", res.LowStock).
		Int("expiring", res.Expiring).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("barrido de alertas completado")
}
