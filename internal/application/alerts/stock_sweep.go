package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/pharmacy"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// SweepConfig umbrales del barrido de alertas.
type SweepConfig struct {
	LowStockThreshold int
	ExpiryWindowDays  int
	DedupWindow       time.Duration // 0 = crear siempre (sin deduplicación)
}

// SweepResult conteos de una ejecución del barrido.
type SweepResult struct {
	Recipients int
	LowStock   int
	Expiring   int
	Created    int
	Skipped    int // suprimidas por la ventana de deduplicación
}

// StockAlertSweep recorre lotes con stock bajo o próximos a vencer y notifica a Managers y Admins.
// Solo se comunica con el resto del sistema a través de los repositorios.
type StockAlertSweep struct {
	batchRepo repository.BatchRepository
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
	cfg       SweepConfig
	log       zerolog.Logger
	now       func() time.Time
}

// NewStockAlertSweep construye el barrido. Umbrales no positivos toman los valores por defecto.
func NewStockAlertSweep(
	batchRepo repository.BatchRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	cfg SweepConfig,
	log zerolog.Logger,
) *StockAlertSweep {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = pharmacy.DefaultLowStockThreshold
	}
	if cfg.ExpiryWindowDays < 0 {
		cfg.ExpiryWindowDays = pharmacy.DefaultExpiryWindowDays
	}
	return &StockAlertSweep{
		batchRepo: batchRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Run ejecuta un barrido completo. Por cada destinatario crea primero todas las alertas de stock bajo
// y luego las de vencimiento. El primer error aborta el resto del barrido y se devuelve junto con
// lo que alcanzó a crearse.
func (s *StockAlertSweep) Run(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := s.now()

	lowStock, err := s.batchRepo.ListLowStock(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return res, fmt.Errorf("listar lotes con stock bajo: %w", err)
	}
	expiring, err := s.batchRepo.ListExpiringBy(ctx, pharmacy.ExpiryCutoff(now, s.cfg.ExpiryWindowDays))
	if err != nil {
		return res, fmt.Errorf("listar lotes por vencer: %w", err)
	}
	recipients, err := s.userRepo.ListByRoles(ctx, pharmacy.AlertRecipientRoles...)
	if err != nil {
		return res, fmt.Errorf("listar destinatarios: %w", err)
	}
	res.Recipients, res.LowStock, res.Expiring = len(recipients), len(lowStock), len(expiring)

	for _, u := range recipients {
		for _, b := range lowStock {
			if err := s.notify(ctx, &res, u.ID, pharmacy.LowStockTitle, pharmacy.LowStockMessage(b), now); err != nil {
				return res, err
			}
		}
		for _, b := range expiring {
			if err := s.notify(ctx, &res, u.ID, pharmacy.ExpiryTitle, pharmacy.ExpiryMessage(b), now); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// RunAndLog ejecuta el barrido y registra el resultado; los errores nunca se propagan.
func (s *StockAlertSweep) RunAndLog(ctx context.Context) {
	start := time.Now()
	res, err := s.Run(ctx)
	ev := s.log.Info()
	if err != nil {
		ev = s.log.Error().Err(err)
	}
	ev.Int("recipients", res.Recipients).
		Int("low_stock", res.LowStock).
		Int("expiring", res.Expiring).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("barrido de alertas de stock")
}

func (s *StockAlertSweep) notify(ctx context.Context, res *SweepResult, userID, title, message string, now time.Time) error {
	if s.cfg.DedupWindow > 0 {
		exists, err := s.notifRepo.ExistsSince(ctx, userID, title, message, now.Add(-s.cfg.DedupWindow))
		if err != nil {
			return fmt.Errorf("verificar notificación previa: %w", err)
		}
		if exists {
			res.Skipped++
			return nil
		}
	}
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: now,
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("crear notificación: %w", err)
	}
	res.Created++
	return nil
}
