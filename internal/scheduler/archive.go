package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/services"
)

// ArchiveScheduler runs the inactivity sweep on a cron spec. A run that
// overlaps a still-executing sweep is skipped rather than queued.
type ArchiveScheduler struct {
	archive services.ArchiveService
	spec    string
	days    int
	timeout time.Duration
	cron    *cron.Cron
	running atomic.Bool
	log     *logger.Logger
}

func NewArchiveScheduler(archive services.ArchiveService, spec string, days int, baseLog *logger.Logger) *ArchiveScheduler {
	return &ArchiveScheduler{
		archive: archive,
		spec:    spec,
		days:    days,
		timeout: 5 * time.Minute,
		cron:    cron.New(),
		log:     baseLog.With("scheduler", "Archive"),
	}
}

func (s *ArchiveScheduler) Start() error {
	if err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("archive sweep scheduled", "spec", s.spec, "inactivityDays", s.days)
	return nil
}

func (s *ArchiveScheduler) Stop() {
	s.cron.Stop()
}

func (s *ArchiveScheduler) runOnce() {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("previous archive sweep still running, skipping this tick")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.archive.ArchiveInactive(ctx, s.days)
	if err != nil {
		s.log.Error("archive sweep failed", "error", err)
		return
	}
	s.log.Info("archive sweep finished",
		"dreamsRejected", result.DreamsRejected,
		"cocoonsArchived", result.CocoonsArchived)
}
