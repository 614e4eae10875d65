package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/pharmacy"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
)

var sweepNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// recordingNotifications registra el orden de creación sobre el repositorio en memoria.
type recordingNotifications struct {
	repository.NotificationRepository
	created []entity.Notification
}

func (r *recordingNotifications) Create(ctx context.Context, n *entity.Notification) error {
	if err := r.NotificationRepository.Create(ctx, n); err != nil {
		return err
	}
	r.created = append(r.created, *n)
	return nil
}

func newSweep(s *memstore.Store, notif repository.NotificationRepository, cfg SweepConfig) *StockAlertSweep {
	sw := NewStockAlertSweep(s.Batches(), s.Users(), notif, cfg, zerolog.Nop())
	sw.now = func() time.Time { return sweepNow }
	return sw
}

func defaultCfg() SweepConfig {
	return SweepConfig{LowStockThreshold: pharmacy.DefaultLowStockThreshold, ExpiryWindowDays: pharmacy.DefaultExpiryWindowDays}
}

// TestSweep_LoteBajoYPorVencerDosManagers: un lote con 5 unidades que vence en 10 días y dos
// Managers producen exactamente 4 notificaciones.
func TestSweep_LoteBajoYPorVencerDosManagers(t *testing.T) {
	s := memstore.New()
	m1 := s.SeedUser(entity.RoleManager, "Gerente Uno")
	m2 := s.SeedUser(entity.RoleManager, "Gerente Dos")
	s.SeedUser(entity.RoleCashier, "Cajero")
	s.SeedBatch(s.SeedMedicine("Paracetamol"), "P-100", 5, sweepNow.AddDate(0, 0, 10), decimal.NewFromInt(2))

	rec := &recordingNotifications{NotificationRepository: s.Notifications()}
	res, err := newSweep(s, rec, defaultCfg()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Recipients: 2, LowStock: 1, Expiring: 1, Created: 4}, res)
	require.Len(t, rec.created, 4)

	want := []struct{ user, title, msg string }{
		{m1, "Low Stock Alert", "Paracetamol (Batch: P-100) has low stock: 5 units remaining"},
		{m1, "Expiry Alert", "Paracetamol (Batch: P-100) expires on 2026-03-11"},
		{m2, "Low Stock Alert", "Paracetamol (Batch: P-100) has low stock: 5 units remaining"},
		{m2, "Expiry Alert", "Paracetamol (Batch: P-100) expires on 2026-03-11"},
	}
	for i, w := range want {
		n := rec.created[i]
		assert.Equal(t, w.user, n.UserID, "notificación %d", i)
		assert.Equal(t, w.title, n.Title, "notificación %d", i)
		assert.Equal(t, w.msg, n.Message, "notificación %d", i)
		assert.False(t, n.IsRead)
		assert.Equal(t, sweepNow, n.CreatedAt)
	}
	assert.Equal(t, 4, s.Counts().Notifications)
}

func TestSweep_AdminsTambienReciben(t *testing.T) {
	s := memstore.New()
	s.SeedUser(entity.RoleAdmin, "Admin")
	s.SeedUser(entity.RoleTechnician, "Técnico")
	s.SeedUser(entity.RoleCustomer, "Cliente")
	s.SeedBatch(s.SeedMedicine("Loratadina"), "L-1", 3, sweepNow.AddDate(1, 0, 0), decimal.NewFromInt(2))

	res, err := newSweep(s, s.Notifications(), defaultCfg()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Recipients)
	assert.Equal(t, 1, res.Created)
}

func TestSweep_UmbralesYLimites(t *testing.T) {
	s := memstore.New()
	s.SeedUser(entity.RoleManager, "Gerente")
	med := s.SeedMedicine("Omeprazol")
	s.SeedBatch(med, "EN-UMBRAL", 10, sweepNow.AddDate(0, 0, 31), decimal.NewFromInt(1))
	s.SeedBatch(med, "EN-CORTE", 50, sweepNow.AddDate(0, 0, 30), decimal.NewFromInt(1))
	s.SeedBatch(med, "VENCIDO", 50, sweepNow.AddDate(0, 0, -3), decimal.NewFromInt(1))
	s.SeedBatch(med, "AGOTADO", 0, sweepNow.AddDate(2, 0, 0), decimal.NewFromInt(1))

	res, err := newSweep(s, s.Notifications(), defaultCfg()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.LowStock, "solo AGOTADO está por debajo de 10")
	assert.Equal(t, 2, res.Expiring, "EN-CORTE y VENCIDO")
	assert.Equal(t, 3, res.Created)
}

func TestSweep_SinDeduplicacionRepiteContenido(t *testing.T) {
	s := memstore.New()
	s.SeedUser(entity.RoleManager, "Gerente Uno")
	s.SeedUser(entity.RoleManager, "Gerente Dos")
	s.SeedBatch(s.SeedMedicine("Paracetamol"), "P-100", 5, sweepNow.AddDate(0, 0, 10), decimal.NewFromInt(2))

	rec := &recordingNotifications{NotificationRepository: s.Notifications()}
	sw := newSweep(s, rec, defaultCfg())
	_, err := sw.Run(context.Background())
	require.NoError(t, err)
	_, err = sw.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.created, 8)
	for i := 0; i < 4; i++ {
		first, second := rec.created[i], rec.created[i+4]
		assert.Equal(t, first.UserID, second.UserID)
		assert.Equal(t, first.Title, second.Title)
		assert.Equal(t, first.Message, second.Message)
		assert.NotEqual(t, first.ID, second.ID)
	}
}

func TestSweep_VentanaDeDeduplicacion(t *testing.T) {
	s := memstore.New()
	s.SeedUser(entity.RoleManager, "Gerente")
	s.SeedBatch(s.SeedMedicine("Paracetamol"), "P-100", 5, sweepNow.AddDate(0, 0, 10), decimal.NewFromInt(2))

	cfg := defaultCfg()
	cfg.DedupWindow = 24 * time.Hour
	sw := newSweep(s, s.Notifications(), cfg)

	res, err := sw.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)

	sw.now = func() time.Time { return sweepNow.Add(time.Hour) }
	res, err = sw.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Skipped)

	sw.now = func() time.Time { return sweepNow.Add(25 * time.Hour) }
	res, err = sw.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created, "fuera de la ventana se vuelve a notificar")
	assert.Equal(t, 4, s.Counts().Notifications)
}

// TestSweep_PrimerErrorAborta: el fallo al crear una notificación detiene el barrido.
func TestSweep_PrimerErrorAborta(t *testing.T) {
	s := memstore.New()
	s.SeedUser(entity.RoleManager, "Gerente Uno")
	s.SeedUser(entity.RoleManager, "Gerente Dos")
	s.SeedBatch(s.SeedMedicine("Paracetamol"), "P-100", 5, sweepNow.AddDate(0, 0, 10), decimal.NewFromInt(2))
	s.FailOn("notifications.Create", assert.AnError)

	res, err := newSweep(s, s.Notifications(), defaultCfg()).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, assert.AnError))
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 0, s.Counts().Notifications)
}

func TestSweep_ErrorAlListarLotes(t *testing.T) {
	s := memstore.New()
	s.FailOn("batches.ListLowStock", assert.AnError)

	_, err := newSweep(s, s.Notifications(), defaultCfg()).Run(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewStockAlertSweep_Defaults(t *testing.T) {
	s := memstore.New()
	sw := NewStockAlertSweep(s.Batches(), s.Users(), s.Notifications(), SweepConfig{LowStockThreshold: 0, ExpiryWindowDays: -1}, zerolog.Nop())
	assert.Equal(t, pharmacy.DefaultLowStockThreshold, sw.cfg.LowStockThreshold)
	assert.Equal(t, pharmacy.DefaultExpiryWindowDays, sw.cfg.ExpiryWindowDays)
}

func TestNewScheduler(t *testing.T) {
	s := memstore.New()
	sw := newSweep(s, s.Notifications(), defaultCfg())

	_, err := NewScheduler(sw, "no es cron", zerolog.Nop())
	assert.Error(t, err)

	sched, err := NewScheduler(sw, "@every 1h", zerolog.Nop())
	require.NoError(t, err)
	sched.Start(context.Background())
	<-sched.Stop().Done()
}
