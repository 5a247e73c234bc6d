package scheduler

import (
	"context"

	"github.com/openswad/swad-backend/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// GroupOpener periodically opens groups whose type's open time has arrived.
type GroupOpener struct {
	typeRepo *repository.GroupTypeRepository
	cron     *cron.Cron
	spec     string
	log      zerolog.Logger
}

// NewGroupOpener creates a GroupOpener running on the given cron spec
// (config.Config.GroupOpenSpec, "@every 1m" by default).
func NewGroupOpener(typeRepo *repository.GroupTypeRepository, spec string, log zerolog.Logger) *GroupOpener {
	return &GroupOpener{
		typeRepo: typeRepo,
		cron:     cron.New(),
		spec:     spec,
		log:      log.With().Str("component", "group_opener").Logger(),
	}
}

// Start registers the job and starts the scheduler.
func (s *GroupOpener) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *GroupOpener) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

func (s *GroupOpener) run() {
	opened, err := s.typeRepo.OpenDueGroups(context.Background())
	if err != nil {
		s.log.Error().Err(err).Msg("Open due groups failed")
		return
	}
	if opened > 0 {
		s.log.Info().Int64("count", opened).Msg("Opened due groups")
	}
}
