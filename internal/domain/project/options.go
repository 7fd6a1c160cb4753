package project

import (
	"time"

	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
)

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the default step catalog.
func WithCatalog(cat catalog.Catalog) Option {
	return func(s *Service) { s.catalog = cat }
}

// WithCompletionMode selects how completion percentages are computed.
func WithCompletionMode(mode CompletionMode) Option {
	return func(s *Service) { s.mode = mode }
}

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}
