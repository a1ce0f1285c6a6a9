package jobs

import (
	"context"
	"time"

	"unistay-backend/internal/application/reservations"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// StartReservationSweep runs ExpireOldReservations on a fixed interval.
// Returns the scheduler so the caller can Shutdown on exit.
func StartReservationSweep(svc *reservations.Service, every time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if _, err := svc.ExpireOldReservations(context.Background()); err != nil {
				log.Error().Err(err).Msg("Reservation expiry sweep failed")
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	sched.Start()
	log.Info().Dur("interval", every).Msg("Reservation expiry sweep started")
	return sched, nil
}
