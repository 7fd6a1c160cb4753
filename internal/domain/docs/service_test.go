package docs_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/l10n-tracker/internal/domain/docs"
	"github.com/rpggio/l10n-tracker/internal/repository"
	"github.com/rpggio/l10n-tracker/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestDocsService_SaveEntry(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	ledger := &mocks.LedgerStore{}
	files := &mocks.ScreenshotStore{}
	files.On("Exists", "screenshot_20240305143000.png").Return(false, nil)
	files.On("Write", "screenshot_20240305143000.png", []byte("img")).Return(nil)
	ledger.On("SaveLedger", ctx, []docs.Entry{{
		File: "screenshot_20240305143000.png",
		Desc: "language selector",
		Time: "2024-03-05 14:30:00",
	}}).Return(nil)

	svc := docs.NewService(ledger, files, nil, nil)
	svc.SetClock(fixedClock(ts))

	entry, err := svc.SaveEntry(ctx, docs.SaveRequest{
		FileName:    "Capture.png",
		Data:        []byte("img"),
		Description: "language selector",
	})
	require.NoError(t, err)
	require.Equal(t, "screenshot_20240305143000.png", entry.File)
	ledger.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestDocsService_SaveEntryMissingFile(t *testing.T) {
	ledger := &mocks.LedgerStore{}
	files := &mocks.ScreenshotStore{}
	svc := docs.NewService(ledger, files, nil, nil)

	_, err := svc.SaveEntry(context.Background(), docs.SaveRequest{Description: "nothing uploaded"})
	require.ErrorIs(t, err, docs.ErrMissingFile)
	require.Empty(t, svc.List(context.Background()))
	files.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "SaveLedger", mock.Anything, mock.Anything)
}

func TestDocsService_SaveEntryNameCollision(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	ledger := &mocks.LedgerStore{}
	files := &mocks.ScreenshotStore{}
	files.On("Exists", "screenshot_20240305143000.jpg").Return(true, nil)
	files.On("Write", mock.Anything, []byte("img")).Return(nil)
	ledger.On("SaveLedger", ctx, mock.Anything).Return(nil)

	svc := docs.NewService(ledger, files, nil, nil)
	svc.SetClock(fixedClock(ts))

	entry, err := svc.SaveEntry(ctx, docs.SaveRequest{FileName: "a.jpg", Data: []byte("img")})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(entry.File, "screenshot_20240305143000_"))
	require.True(t, strings.HasSuffix(entry.File, ".jpg"))
	require.NotEqual(t, "screenshot_20240305143000.jpg", entry.File)
}

func TestDocsService_SaveEntryLedgerFailureKeepsEntry(t *testing.T) {
	ctx := context.Background()
	ledger := &mocks.LedgerStore{}
	files := &mocks.ScreenshotStore{}
	files.On("Exists", mock.Anything).Return(false, nil)
	files.On("Write", mock.Anything, mock.Anything).Return(nil)
	ledger.On("SaveLedger", ctx, mock.Anything).Return(errors.New("disk full"))

	svc := docs.NewService(ledger, files, nil, nil)
	entry, err := svc.SaveEntry(ctx, docs.SaveRequest{FileName: "a.png", Data: []byte("x")})
	require.Error(t, err)
	require.NotNil(t, entry)
	require.Len(t, svc.List(ctx), 1)
}

func TestDocsService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	ledger := &mocks.LedgerStore{}
	ledger.On("LoadLedger", ctx).Return([]docs.Entry{
		{File: "a.png", Time: "2024-01-01 10:00:00"},
		{File: "c.png", Time: "2024-03-01 10:00:00"},
		{File: "b.png", Time: "2024-02-01 10:00:00"},
	}, nil)

	svc := docs.NewService(ledger, &mocks.ScreenshotStore{}, nil, nil)
	require.NoError(t, svc.Load(ctx))

	entries := svc.List(ctx)
	require.Equal(t, []string{"c.png", "b.png", "a.png"}, []string{entries[0].File, entries[1].File, entries[2].File})
}

func TestDocsService_Open(t *testing.T) {
	ctx := context.Background()
	ledger := &mocks.LedgerStore{}
	ledger.On("LoadLedger", ctx).Return([]docs.Entry{{File: "a.png", Time: "2024-01-01 10:00:00"}}, nil)
	files := &mocks.ScreenshotStore{}
	files.On("Read", "a.png").Return([]byte("img"), nil)

	svc := docs.NewService(ledger, files, nil, nil)
	require.NoError(t, svc.Load(ctx))

	data, err := svc.Open(ctx, "a.png")
	require.NoError(t, err)
	require.Equal(t, []byte("img"), data)

	_, err = svc.Open(ctx, "other.png")
	require.ErrorIs(t, err, docs.ErrEntryNotFound)
}

func TestDocsService_OpenMissingFile(t *testing.T) {
	ctx := context.Background()
	ledger := &mocks.LedgerStore{}
	ledger.On("LoadLedger", ctx).Return([]docs.Entry{{File: "a.png"}}, nil)
	files := &mocks.ScreenshotStore{}
	files.On("Read", "a.png").Return(nil, repository.ErrNotFound)

	svc := docs.NewService(ledger, files, nil, nil)
	require.NoError(t, svc.Load(ctx))

	_, err := svc.Open(ctx, "a.png")
	require.ErrorIs(t, err, docs.ErrEntryNotFound)
}
