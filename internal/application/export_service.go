package application

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"tierbot/internal/models"
	"tierbot/internal/repository"
)

type ExportServiceImpl struct {
	players repository.Player
	now     func() time.Time
}

func NewExportServiceImpl(players repository.Player, now func() time.Time) *ExportServiceImpl {
	return &ExportServiceImpl{players: players, now: now}
}

// Workbook builds an xlsx file with the ranked players and the most recent
// tier changes.
func (s *ExportServiceImpl) Workbook(ctx context.Context) ([]byte, error) {
	players, err := s.players.ListRanked(ctx, 0)
	if err != nil {
		return nil, err
	}
	history, err := s.players.ListAssignments(ctx, exportHistoryLimit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(exportPlayersSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(exportHistorySheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if err := writeRows(f, exportPlayersSheet, playerRows(players)); err != nil {
		return nil, err
	}
	if err := writeRows(f, exportHistorySheet, historyRows(history)); err != nil {
		return nil, err
	}

	f.SetColWidth(exportPlayersSheet, "A", "B", 22)
	f.SetColWidth(exportPlayersSheet, "C", "H", 16)
	f.SetColWidth(exportHistorySheet, "A", "F", 18)
	f.SetDocProps(&excelize.DocProperties{
		Title:   "Tier list",
		Created: s.now().UTC().Format(time.RFC3339),
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// playerRows is shared by the workbook and the Google Sheets mirror.
func playerRows(players []models.Player) [][]interface{} {
	rows := [][]interface{}{{"Discord ID", "Ник", "ID в игре", "Клан", "Пейдж", "Тир", "Присвоен", "Кем"}}
	for _, p := range players {
		assigned := ""
		if p.TierAssignedAt != nil {
			assigned = p.TierAssignedAt.UTC().Format(time.DateTime)
		}
		rows = append(rows, []interface{}{
			p.DiscordID, p.Nickname, p.GameID, p.Clan, p.ProfileLink, string(p.Tier), assigned, p.TierAssignedBy,
		})
	}
	return rows
}

func historyRows(entries []models.TierAssignment) [][]interface{} {
	rows := [][]interface{}{{"Discord ID", "Был", "Стал", "Кем", "Когда", "Заявка"}}
	for _, e := range entries {
		old := string(e.OldTier)
		if old == "" {
			old = "-"
		}
		app := ""
		if e.ApplicationID != nil {
			app = fmt.Sprintf("#%d", *e.ApplicationID)
		}
		rows = append(rows, []interface{}{
			e.DiscordID, old, string(e.NewTier), e.AssignedBy, e.AssignedAt.UTC().Format(time.DateTime), app,
		})
	}
	return rows
}
