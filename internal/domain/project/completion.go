package project

import "github.com/rpggio/l10n-tracker/internal/domain/catalog"

// CompletionMode selects how completed steps are counted.
type CompletionMode string

const (
	// CompletionActive counts only the steps of the project's active groups.
	CompletionActive CompletionMode = "active"
	// CompletionLegacy counts every checked flag against the per-group step
	// totals, including flags left over from deselected types.
	CompletionLegacy CompletionMode = "legacy"
)

// OverviewLimit is the number of rows the overview table shows.
const OverviewLimit = 10

// ParseCompletionMode returns the mode named by s, defaulting to active.
func ParseCompletionMode(s string) CompletionMode {
	if CompletionMode(s) == CompletionLegacy {
		return CompletionLegacy
	}
	return CompletionActive
}

// ComputePercent returns the truncated completion percentage of rec in [0,100].
func ComputePercent(cat catalog.Catalog, rec *Record, mode CompletionMode) int {
	var done, total int
	switch mode {
	case CompletionLegacy:
		total = len(cat.CommonSteps) + 1
		if catalog.HasType(rec.Types, catalog.TypeProduct) {
			total += len(cat.ProductSteps)
		}
		if catalog.HasType(rec.Types, catalog.TypeMarketing) {
			total += len(cat.MarketingSteps)
		}
		for _, checked := range rec.Steps {
			if checked {
				done++
			}
		}
	default:
		active := cat.Active(rec.Types)
		total = len(active)
		for _, step := range active {
			if rec.Steps[step] {
				done++
			}
		}
	}
	if total <= 0 {
		return 0
	}
	pct := done * 100 / total
	if pct > 100 {
		pct = 100
	}
	return pct
}

// OverviewRow summarizes one project for the overview table and CSV export.
type OverviewRow struct {
	ID        string         `json:"id"`
	CreatedAt string         `json:"created_at"`
	Types     []catalog.Type `json:"types"`
	URL       string         `json:"url"`
	Notes     string         `json:"notes"`
	Percent   int            `json:"percent"`
}

// BuildOverview returns one row per project in collection order.
func BuildOverview(cat catalog.Catalog, coll *Collection, mode CompletionMode) []OverviewRow {
	rows := make([]OverviewRow, 0, coll.Len())
	for _, rec := range coll.Records() {
		rows = append(rows, OverviewRow{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			Types:     append([]catalog.Type{}, rec.Types...),
			URL:       rec.URL,
			Notes:     rec.Notes,
			Percent:   ComputePercent(cat, rec, mode),
		})
	}
	return rows
}

// TopRows returns at most n leading rows.
func TopRows(rows []OverviewRow, n int) []OverviewRow {
	if n < 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}
