// @title           Farmacia API
// @version         1.0
// @description     Backend de gestión de farmacia: catálogo, lotes, pedidos, pagos, entregas y alertas de stock.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Farmacia-api/docs"
	"github.com/jhoicas/Farmacia-api/internal/application/alerts"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/ordering"
	"github.com/jhoicas/Farmacia-api/internal/application/payments"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Farmacia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	medicineRepo := postgres.NewMedicineRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	notifRepo := postgres.NewNotificationRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Recibos imprimibles
	receiptPDF := infrapdf.NewMarotoReceiptGenerator()

	deps := httpRouter.RouterDeps{
		AuthUC:            authUC,
		UserUC:            usecase.NewUserUseCase(userRepo),
		CatalogUC:         usecase.NewCatalogUseCase(categoryRepo, companyRepo),
		MedicineUC:        usecase.NewMedicineUseCase(medicineRepo),
		BatchUC:           inventory.NewBatchUseCase(txRunner, batchRepo, medicineRepo, movRepo),
		CreateOrder:       ordering.NewCreateOrderUseCase(txRunner, userRepo),
		OrderUC:           ordering.NewOrderUseCase(orderRepo),
		ProcessPayment:    payments.NewProcessPaymentUseCase(txRunner),
		PaymentUC:         payments.NewPaymentUseCase(paymentRepo, orderRepo, receiptPDF, cfg.App.PharmacyName),
		NotificationUC:    usecase.NewNotificationUseCase(notifRepo, userRepo),
		DeliveryUC:        usecase.NewDeliveryUseCase(txRunner, deliveryRepo, orderRepo, userRepo),
		ChatUC:            usecase.NewChatUseCase(messageRepo, userRepo),
		JWTSecret:         cfg.JWT.Secret,
		LowStockThreshold: cfg.Sweep.LowStockThreshold,
		AuthRateLimit:     cfg.HTTP.AuthRateLimit,
	}

	// Barrido de alertas de stock en el mismo proceso
	var scheduler *alerts.Scheduler
	if cfg.Sweep.Enabled {
		sweep := alerts.NewStockAlertSweep(batchRepo, userRepo, notifRepo, alerts.SweepConfig{
			LowStockThreshold: cfg.Sweep.LowStockThreshold,
			ExpiryWindowDays:  cfg.Sweep.ExpiryWindowDays,
			DedupWindow:       cfg.Sweep.DedupWindow,
		}, log.Component("stock_sweep"))
		scheduler, err = alerts.NewScheduler(sweep, cfg.Sweep.Schedule, log.Component("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("programar barrido de alertas")
		}
		scheduler.Start(ctx)
		log.Info().Str("schedule", cfg.Sweep.Schedule).Msg("barrido de alertas programado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSAllowOrigins}))
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia API",
	}))

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP")
			stop()
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor escuchando")

	<-ctx.Done()
	log.Info().Msg("apagando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn().Msg("barrido en curso no terminó a tiempo")
		}
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("servidor detenido")
}
