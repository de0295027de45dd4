package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"dotation_simulation_service/internal/app"
)

// RefreshScheduler runs the nightly job that reseeds every simulation from
// the dotation projets of its envelope, so simulations opened the next
// morning reflect dossiers imported or instructed during the day.
type RefreshScheduler struct {
	cronEngine      *cron.Cron
	simService      app.SimulationProjetService // Using the interface
	logger          logrus.FieldLogger
	cronSpecRefresh string
}

func NewRefreshScheduler(
	simService app.SimulationProjetService,
	logger logrus.FieldLogger,
	cronSpecRefresh string, // e.g., "0 4 * * *" (4:00 AM daily)
) *RefreshScheduler {
	return &RefreshScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		simService:      simService,
		logger:          logger,
		cronSpecRefresh: cronSpecRefresh,
	}
}

func (s *RefreshScheduler) Start() error {
	s.logger.Info("Starting simulation refresh scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecRefresh, func() {
		s.logger.Info("Cron job triggered for simulation refresh.")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := s.simService.RefreshAllSimulations(ctx); err != nil {
			s.logger.WithError(err).Error("Error during simulation refresh")
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Info("Simulation refresh scheduler started.")
	return nil
}

func (s *RefreshScheduler) Stop() {
	s.logger.Info("Stopping simulation refresh scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Simulation refresh scheduler gracefully stopped.")
}
