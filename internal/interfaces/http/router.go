package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/ordering"
	"github.com/jhoicas/Farmacia-api/internal/application/payments"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	CatalogUC      *usecase.CatalogUseCase
	MedicineUC     *usecase.MedicineUseCase
	BatchUC        *inventory.BatchUseCase
	CreateOrder    *ordering.CreateOrderUseCase
	OrderUC        *ordering.OrderUseCase
	ProcessPayment *payments.ProcessPaymentUseCase
	PaymentUC      *payments.PaymentUseCase
	NotificationUC *usecase.NotificationUseCase
	DeliveryUC     *usecase.DeliveryUseCase
	ChatUC         *usecase.ChatUseCase

	JWTSecret         string
	LowStockThreshold int
	// AuthRateLimit peticiones por minuto y por IP en /api/auth; 0 desactiva el límite.
	AuthRateLimit int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	api.Get("/health", Health)

	// Auth (público)
	authGroup := api.Group("/auth")
	if deps.AuthRateLimit > 0 {
		authGroup.Use(limiter.New(limiter.Config{
			Max:        deps.AuthRateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas solicitudes"})
			},
		}))
	}
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Todo lo demás requiere Bearer Token. El middleware va por grupo para que
	// las rutas desconocidas respondan 404 y no 401.
	authed := AuthMiddleware(deps.JWTSecret)
	staff := RequireRole(entity.RoleAdmin, entity.RoleManager)
	adminOnly := RequireRole(entity.RoleAdmin)
	pharmacyStaff := RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleTechnician)

	users := api.Group("/users", authed)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", staff, userHandler.List)
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", staff, userHandler.Update)
	users.Put("/:id/password", userHandler.ChangePassword)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	categories := api.Group("/categories", authed)
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", staff, catalogHandler.CreateCategory)
	categories.Put("/:id", staff, catalogHandler.UpdateCategory)
	categories.Delete("/:id", adminOnly, catalogHandler.DeleteCategory)

	companies := api.Group("/companies", authed)
	companies.Get("/", catalogHandler.ListCompanies)
	companies.Post("/", staff, catalogHandler.CreateCompany)
	companies.Put("/:id", staff, catalogHandler.UpdateCompany)
	companies.Delete("/:id", adminOnly, catalogHandler.DeleteCompany)

	// Las rutas de lotes se registran antes de /:id para que "batches" no se tome como ID.
	medicines := api.Group("/medicines", authed)
	medicineHandler := NewMedicineHandler(deps.MedicineUC, deps.BatchUC, deps.LowStockThreshold)
	medicines.Get("/batches/all", medicineHandler.ListBatches)
	medicines.Post("/batches", pharmacyStaff, medicineHandler.CreateBatch)
	medicines.Post("/batches/:id/restock", pharmacyStaff, medicineHandler.Restock)
	medicines.Post("/batches/:id/damage", pharmacyStaff, medicineHandler.RegisterDamage)
	medicines.Get("/batches/:id/movements", medicineHandler.Movements)
	medicines.Get("/", medicineHandler.List)
	medicines.Post("/", pharmacyStaff, medicineHandler.Create)
	medicines.Get("/:id", medicineHandler.GetByID)
	medicines.Put("/:id", pharmacyStaff, medicineHandler.Update)
	medicines.Delete("/:id", staff, medicineHandler.Delete)

	orders := api.Group("/orders", authed)
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.OrderUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleTechnician, entity.RoleCashier), orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", pharmacyStaff, orderHandler.Update)
	orders.Delete("/:id", staff, orderHandler.Delete)

	paymentsGroup := api.Group("/payments", authed)
	paymentHandler := NewPaymentHandler(deps.ProcessPayment, deps.PaymentUC)
	cashDesk := RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleCashier)
	paymentsGroup.Get("/receipts", paymentHandler.ListReceipts)
	paymentsGroup.Get("/receipts/:id/pdf", paymentHandler.ReceiptPDF)
	paymentsGroup.Get("/", cashDesk, paymentHandler.List)
	paymentsGroup.Post("/", cashDesk, paymentHandler.Create)

	notifications := api.Group("/notifications", authed)
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/", staff, notificationHandler.Create)
	notifications.Put("/:id/read", notificationHandler.MarkAsRead)

	deliveries := api.Group("/deliveries", authed)
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveries.Get("/feedback", deliveryHandler.ListFeedback)
	deliveries.Post("/feedback", deliveryHandler.CreateFeedback)
	deliveries.Get("/", RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleTechnician, entity.RoleDelivery), deliveryHandler.List)
	deliveries.Post("/", pharmacyStaff, deliveryHandler.Create)
	deliveries.Put("/:id/status", RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleDelivery), deliveryHandler.UpdateStatus)

	chat := api.Group("/chat", authed)
	chatHandler := NewChatHandler(deps.ChatUC)
	chat.Get("/messages", chatHandler.Messages)
	chat.Post("/messages", chatHandler.Send)
	chat.Get("/conversations", chatHandler.Conversations)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ROUTE_NOT_FOUND", Message: "ruta no encontrada"})
	})
}
