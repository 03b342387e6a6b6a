package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"tierbot/internal/application"
)

const syncTimeout = 2 * time.Minute

// SheetsSync runs the spreadsheet export on a cron schedule.
// It satisfies service.Service.
type SheetsSync struct {
	spec   string
	sheets application.SheetsService
	logger application.Logger

	cron *cron.Cron
	ctx  context.Context
}

func NewSheetsSync(spec string, sheets application.SheetsService, logger application.Logger) *SheetsSync {
	return &SheetsSync{
		spec:   spec,
		sheets: sheets,
		logger: logger,
		cron:   cron.New(),
		ctx:    context.Background(),
	}
}

func (s *SheetsSync) Init() error {
	if _, err := s.cron.AddFunc(s.spec, s.sync); err != nil {
		return fmt.Errorf("invalid sheets sync schedule %q: %w", s.spec, err)
	}
	s.logger.Info("sheets sync scheduled: %s", s.spec)
	return nil
}

func (s *SheetsSync) Run(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
}

func (s *SheetsSync) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("sheets sync stopped")
}

func (s *SheetsSync) sync() {
	ctx, cancel := context.WithTimeout(s.ctx, syncTimeout)
	defer cancel()

	url, err := s.sheets.Sync(ctx)
	if err != nil {
		s.logger.Error("scheduled sheets sync failed: %v", err)
		return
	}
	s.logger.Debug("sheets synced: %s", url)
}
