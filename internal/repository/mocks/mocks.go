package mocks

import (
	"context"
	"io"

	"github.com/rpggio/l10n-tracker/internal/domain/activity"
	"github.com/rpggio/l10n-tracker/internal/domain/docs"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectStore is a mock for project.Store.
type ProjectStore struct {
	mock.Mock
}

func (m *ProjectStore) Load(ctx context.Context) (*project.Collection, error) {
	args := m.Called(ctx)
	if coll, ok := args.Get(0).(*project.Collection); ok {
		return coll, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) Save(ctx context.Context, coll *project.Collection) error {
	args := m.Called(ctx, coll)
	return args.Error(0)
}

// AttachmentStore is a mock for project.AttachmentStore.
type AttachmentStore struct {
	mock.Mock
}

func (m *AttachmentStore) Ensure(projectID string) error {
	args := m.Called(projectID)
	return args.Error(0)
}

func (m *AttachmentStore) Save(projectID, name string, r io.Reader) error {
	args := m.Called(projectID, name, r)
	return args.Error(0)
}

func (m *AttachmentStore) List(projectID string) ([]string, error) {
	args := m.Called(projectID)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityLogger is a mock for project.ActivityLogger.
type ActivityLogger struct {
	mock.Mock
}

func (m *ActivityLogger) LogActivity(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// LedgerStore is a mock for docs.LedgerStore.
type LedgerStore struct {
	mock.Mock
}

func (m *LedgerStore) LoadLedger(ctx context.Context) ([]docs.Entry, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]docs.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerStore) SaveLedger(ctx context.Context, entries []docs.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

// ScreenshotStore is a mock for docs.FileStore.
type ScreenshotStore struct {
	mock.Mock
}

func (m *ScreenshotStore) Exists(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *ScreenshotStore) Write(name string, data []byte) error {
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *ScreenshotStore) Read(name string) ([]byte, error) {
	args := m.Called(name)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}
