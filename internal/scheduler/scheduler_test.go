package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

type fakeSheets struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSheets) Sync(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return "", errors.New("sync without deadline")
	}
	return "https://docs.google.com/spreadsheets/d/x", f.err
}

func TestInitRejectsBadSchedule(t *testing.T) {
	s := NewSheetsSync("every now and then", &fakeSheets{}, nopLogger{})
	assert.ErrorContains(t, s.Init(), "invalid sheets sync schedule")
}

func TestLifecycle(t *testing.T) {
	sheets := &fakeSheets{}
	s := NewSheetsSync("@every 1h", sheets, nopLogger{})

	require.NoError(t, s.Init())
	s.Run(context.Background())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()

	assert.Zero(t, sheets.calls)
}

func TestSyncJob(t *testing.T) {
	sheets := &fakeSheets{}
	s := NewSheetsSync("@daily", sheets, nopLogger{})

	s.sync()
	assert.Equal(t, 1, sheets.calls)

	sheets.err = errors.New("quota exceeded")
	s.sync()
	assert.Equal(t, 2, sheets.calls)
}
