package alerts

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler ejecuta el barrido de alertas según una expresión cron (ej. "@every 1h").
// Si una ejecución sigue en curso cuando llega la siguiente, la nueva se omite.
type Scheduler struct {
	cron  *cron.Cron
	sweep *StockAlertSweep
	ctx   context.Context
}

// NewScheduler registra el barrido en un cron propio. No arranca hasta Start.
func NewScheduler(sweep *StockAlertSweep, schedule string, log zerolog.Logger) (*Scheduler, error) {
	cl := cronLogger{log: log}
	s := &Scheduler{
		sweep: sweep,
		ctx:   context.Background(),
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.sweep.RunAndLog(s.ctx) }); err != nil {
		return nil, fmt.Errorf("programar barrido %q: %w", schedule, err)
	}
	return s, nil
}

// Start arranca el cron en segundo plano. ctx se pasa a cada ejecución.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
}

// Stop detiene el cron; el contexto devuelto termina cuando la ejecución en curso (si la hay) finaliza.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger adapta zerolog a la interfaz cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
