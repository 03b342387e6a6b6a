package application

import (
	"context"
	"fmt"
	"sync"

	"tierbot/internal/repository"
	"tierbot/pkg/sheets"
)

type SheetsServiceImpl struct {
	client     sheets.Client
	players    repository.Player
	ownerEmail string
	logger     Logger

	mu            sync.Mutex
	spreadsheetID string
}

// NewSheetsServiceImpl accepts a nil client. Sync then reports
// ErrSheetsNotConfigured. An empty spreadsheetID makes the first Sync
// create a new spreadsheet.
func NewSheetsServiceImpl(client sheets.Client, players repository.Player, spreadsheetID, ownerEmail string, logger Logger) *SheetsServiceImpl {
	return &SheetsServiceImpl{
		client:        client,
		players:       players,
		ownerEmail:    ownerEmail,
		logger:        logger,
		spreadsheetID: spreadsheetID,
	}
}

// Sync overwrites the spreadsheet with the current ranked players and
// returns its URL.
func (s *SheetsServiceImpl) Sync(ctx context.Context) (string, error) {
	if s.client == nil {
		return "", ErrSheetsNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSheetExists(ctx); err != nil {
		return "", err
	}

	players, err := s.players.ListRanked(ctx, 0)
	if err != nil {
		return "", err
	}

	if err := s.client.ClearRange(ctx, s.spreadsheetID, defaultClearRange); err != nil {
		s.logger.Warn("failed to clear sheet: %v", err)
	}
	if err := s.client.UpdateValues(ctx, s.spreadsheetID, defaultStartCell, playerRows(players)); err != nil {
		return "", fmt.Errorf("failed to update spreadsheet: %w", err)
	}

	s.logger.Debug("synced %d players to spreadsheet %s", len(players), s.spreadsheetID)
	return spreadsheetURL(s.spreadsheetID), nil
}

func (s *SheetsServiceImpl) ensureSheetExists(ctx context.Context) error {
	if s.spreadsheetID != "" {
		return nil
	}

	id, _, err := s.client.CreateSpreadsheet(ctx, defaultSheetTitle)
	if err != nil {
		return err
	}

	if s.ownerEmail != "" {
		if err := s.client.AddPermission(ctx, id, s.ownerEmail, sheetsOwnerRole); err != nil {
			return err
		}
	}
	if err := s.client.MakePublic(ctx, id); err != nil {
		return err
	}

	s.spreadsheetID = id
	s.logger.Info("created spreadsheet %s, set GOOGLE_SPREADSHEET_ID to reuse it", id)
	return nil
}
