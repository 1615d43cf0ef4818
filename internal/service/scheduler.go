package service

import (
	"context"
	"errors"
	"log"
	"time"

	"korus/config"
	"korus/internal/domain"
	"korus/internal/repository"
	"korus/pkg/week"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler fires the weekly distribution at the configured day and hour.
// The database lease keeps multiple instances from running the same week;
// the settlement's claim on the pool is the hard guarantee behind it.
type Scheduler struct {
	settlement *SettlementService
	leaseRepo  *repository.LeaseRepository
	cfg        *config.DistributionConfig
	holder     string
	sched      gocron.Scheduler
}

func NewScheduler(settlement *SettlementService, leaseRepo *repository.LeaseRepository, cfg *config.DistributionConfig) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		settlement: settlement,
		leaseRepo:  leaseRepo,
		cfg:        cfg,
		holder:     Holder(),
		sched:      sched,
	}, nil
}

// Start registers the weekly job and begins the schedule.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		log.Println("[scheduler] distribution disabled, not scheduling")
		return nil
	}
	_, err := s.sched.NewJob(
		gocron.WeeklyJob(1,
			gocron.NewWeekdays(s.cfg.Weekday),
			gocron.NewAtTimes(gocron.NewAtTime(uint(s.cfg.HourUTC), 0, 0)),
		),
		gocron.NewTask(s.runDistribution),
	)
	if err != nil {
		return err
	}
	s.sched.Start()
	log.Printf("[scheduler] weekly distribution scheduled: %s %02d:00 UTC", s.cfg.Weekday, s.cfg.HourUTC)
	return nil
}

func (s *Scheduler) Stop() {
	if err := s.sched.Shutdown(); err != nil {
		log.Printf("[scheduler] shutdown: %v", err)
	}
}

func (s *Scheduler) runDistribution() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.LeaseTTL)
	defer cancel()

	ok, err := s.leaseRepo.Acquire(domain.LeaseWeeklyDistribution, s.holder, s.cfg.LeaseTTL, time.Now().UTC())
	if err != nil {
		log.Printf("[scheduler] acquire lease: %v", err)
		return
	}
	if !ok {
		log.Println("[scheduler] another instance holds the distribution lease, skipping")
		return
	}
	defer func() {
		if err := s.leaseRepo.Release(domain.LeaseWeeklyDistribution, s.holder); err != nil {
			log.Printf("[scheduler] release lease: %v", err)
		}
	}()

	result, err := s.settlement.Run(ctx, false)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotDistributionDay),
			errors.Is(err, ErrAlreadyDistributed):
			log.Printf("[scheduler] distribution skipped: %v", err)
		case errors.Is(err, ErrNoPool), errors.Is(err, ErrPoolTooSmall), errors.Is(err, ErrNoParticipants):
			log.Printf("[scheduler] nothing to distribute for week %s: %v",
				week.StartOf(time.Now()).Format("2006-01-02"), err)
		default:
			log.Printf("[scheduler] distribution run: %v", err)
		}
		return
	}
	log.Printf("[scheduler] distribution complete: %d sent, %d failed of %d queued",
		result.Sent, result.Failed, result.Queued)
}
