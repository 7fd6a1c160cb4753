package project

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/l10n-tracker/internal/domain/activity"
	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
)

// Service owns the in-memory project collection and writes the whole
// collection through the Store after every mutation.
type Service struct {
	store       Store
	attachments AttachmentStore
	activities  ActivityLogger
	logger      *slog.Logger

	catalog catalog.Catalog
	mode    CompletionMode
	now     func() time.Time

	mu         sync.Mutex
	collection *Collection
}

// NewService creates a new project service with an empty collection. Call
// Load to read the stored document.
func NewService(store Store, attachments AttachmentStore, activities ActivityLogger, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		store:       store,
		attachments: attachments,
		activities:  activities,
		logger:      logger,
		catalog:     catalog.Default(),
		mode:        CompletionActive,
		now:         time.Now,
		collection:  NewCollection(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID          string
	RequestedAt time.Time
}

// UpdateDetailsRequest replaces the URL and/or notes of a project. Nil
// fields are left unchanged.
type UpdateDetailsRequest struct {
	ID    string
	URL   *string
	Notes *string
}

// ImportResult reports how an imported document was merged.
type ImportResult struct {
	Added    []string `json:"added"`
	Replaced []string `json:"replaced"`
}

// Catalog returns the step catalog in use.
func (s *Service) Catalog() catalog.Catalog {
	return s.catalog
}

// CompletionMode returns the completion counting mode in use.
func (s *Service) CompletionMode() CompletionMode {
	return s.mode
}

// Load replaces the in-memory collection with the stored document. On error
// the current collection is kept.
func (s *Service) Load(ctx context.Context) error {
	coll, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	steps := s.catalog.All()
	for _, rec := range coll.Records() {
		rec.Backfill(steps)
	}

	s.mu.Lock()
	s.collection = coll
	s.mu.Unlock()

	s.logger.Debug("projects loaded", "count", coll.Len())
	return nil
}

// Create registers a new project with every catalog step unchecked and
// provisions its attachment directory.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" || strings.EqualFold(id, ReservedID) {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collection.Get(id); ok {
		return nil, ErrDuplicateID
	}
	if s.attachments != nil {
		if err := s.attachments.Ensure(id); err != nil {
			return nil, fmt.Errorf("provisioning attachments: %w", err)
		}
	}

	requestedAt := req.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = s.now()
	}
	rec := NewRecord(id, requestedAt, s.catalog.All())
	s.collection.Put(rec)

	s.logActivity(ctx, id, activity.TypeProjectCreated, fmt.Sprintf("created project %s", id), nil)
	return rec.Clone(), s.persist(ctx)
}

// Get fetches a copy of a project by ID.
func (s *Service) Get(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collection.Get(id)
	if !ok {
		return nil, ErrProjectNotFound
	}
	return rec.Clone(), nil
}

// Snapshot returns a copy of the whole collection.
func (s *Service) Snapshot(_ context.Context) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Clone()
}

// SetTypes replaces the active request types. Checklist flags of groups that
// become inactive are kept.
func (s *Service) SetTypes(ctx context.Context, id string, types []catalog.Type) (*Record, error) {
	normalized := make([]catalog.Type, 0, len(types))
	for _, t := range types {
		known, ok := catalog.ParseType(string(t))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
		if !catalog.HasType(normalized, known) {
			normalized = append(normalized, known)
		}
	}

	return s.mutate(ctx, id, func(rec *Record) error {
		rec.Types = normalized
		s.logActivity(ctx, id, activity.TypeTypesChanged,
			fmt.Sprintf("set types of %s", id), map[string]any{"types": normalized})
		return nil
	})
}

// ToggleStep sets the completion flag of one catalog step.
func (s *Service) ToggleStep(ctx context.Context, id, step string, value bool) (*Record, error) {
	if !s.catalog.Contains(step) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	return s.mutate(ctx, id, func(rec *Record) error {
		rec.Steps[step] = value
		s.logActivity(ctx, id, activity.TypeStepToggled,
			fmt.Sprintf("marked %q %s", step, doneLabel(value)), map[string]any{"step": step, "value": value})
		return nil
	})
}

// UpdateDetails replaces the URL and/or notes of a project.
func (s *Service) UpdateDetails(ctx context.Context, req UpdateDetailsRequest) (*Record, error) {
	return s.mutate(ctx, req.ID, func(rec *Record) error {
		if req.URL != nil {
			rec.URL = *req.URL
		}
		if req.Notes != nil {
			rec.Notes = *req.Notes
		}
		s.logActivity(ctx, req.ID, activity.TypeDetailsUpdated, fmt.Sprintf("updated details of %s", req.ID), nil)
		return nil
	})
}

// RecordAttachments replaces the attachment list with the given directory
// listing.
func (s *Service) RecordAttachments(ctx context.Context, id string, listing []string) (*Record, error) {
	return s.mutate(ctx, id, func(rec *Record) error {
		rec.Attachments = append([]string{}, listing...)
		s.logActivity(ctx, id, activity.TypeAttachmentsRecorded,
			fmt.Sprintf("%s has %d attachments", id, len(listing)), map[string]any{"attachments": listing})
		return nil
	})
}

// SaveAttachment writes a file into the project's attachment directory and
// refreshes the attachment list from the directory contents.
func (s *Service) SaveAttachment(ctx context.Context, id, name string, r io.Reader) (*Record, error) {
	if s.attachments == nil {
		return nil, fmt.Errorf("saving attachment: no attachment store configured")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.attachments.Save(id, name, r); err != nil {
		return nil, fmt.Errorf("saving attachment: %w", err)
	}
	listing, err := s.attachments.List(id)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	return s.RecordAttachments(ctx, id, listing)
}

// Import merges incoming into the collection: colliding IDs are replaced
// wholesale and new IDs are appended.
func (s *Service) Import(ctx context.Context, incoming *Collection) (*ImportResult, error) {
	steps := s.catalog.All()
	staged := incoming.Clone()
	for _, rec := range staged.Records() {
		rec.Backfill(steps)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added, replaced := s.collection.Merge(staged)
	result := &ImportResult{Added: nonNil(added), Replaced: nonNil(replaced)}
	s.logActivity(ctx, "", activity.TypeProjectsImported,
		fmt.Sprintf("imported %d projects (%d new)", staged.Len(), len(added)), result)
	return result, s.persist(ctx)
}

// Save writes the current collection without changing it.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.logActivity(ctx, "", activity.TypeProgressSaved, "progress saved", nil)
	return nil
}

// Percent computes the completion percentage of rec with the service's
// catalog and mode.
func (s *Service) Percent(rec *Record) int {
	return ComputePercent(s.catalog, rec, s.mode)
}

// Overview returns the overview rows of every project in collection order.
func (s *Service) Overview(ctx context.Context) []OverviewRow {
	return BuildOverview(s.catalog, s.Snapshot(ctx), s.mode)
}

func (s *Service) mutate(ctx context.Context, id string, apply func(*Record) error) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collection.Get(id)
	if !ok {
		return nil, ErrProjectNotFound
	}
	if err := apply(rec); err != nil {
		return nil, err
	}
	return rec.Clone(), s.persist(ctx)
}

// persist must be called with s.mu held.
func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.collection); err != nil {
		s.logger.Error("project document not saved", "error", err)
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, projectID string, typ activity.ActivityType, summary string, details any) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ProjectID:    projectID,
		ActivityType: typ,
		Summary:      summary,
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			entry.Details = string(data)
		}
	}
	if err := s.activities.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("activity not logged", "type", typ, "project", projectID, "error", err)
	}
}

func doneLabel(value bool) string {
	if value {
		return "done"
	}
	return "not done"
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
