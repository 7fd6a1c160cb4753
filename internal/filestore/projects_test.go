package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/rpggio/l10n-tracker/internal/filestore"
	"github.com/stretchr/testify/require"
)

func TestProjectStore_LoadMissingIsEmpty(t *testing.T) {
	store := filestore.NewProjectStore(filepath.Join(t.TempDir(), "project_status.json"))

	coll, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Zero(t, coll.Len())
}

func TestProjectStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "project_status.json")
	store := filestore.NewProjectStore(path)

	coll := project.NewCollection()
	for _, id := range []string{"Z-1", "A-2", "M-3"} {
		rec := project.NewRecord(id, fixedTime, catalog.Default().All())
		rec.Notes = "<b>quote & review</b>"
		coll.Put(rec)
	}
	require.NoError(t, store.Save(ctx, coll))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "\n  \"Z-1\": {")
	require.Contains(t, string(raw), "<b>quote & review</b>")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Z-1", "A-2", "M-3"}, loaded.IDs())

	again, err := filestore.EncodeCollection(loaded)
	require.NoError(t, err)
	require.Equal(t, string(raw), string(again))
}

func TestProjectStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := filestore.NewProjectStore(filepath.Join(dir, "project_status.json"))

	require.NoError(t, store.Save(context.Background(), project.NewCollection()))
	require.NoError(t, store.Save(context.Background(), project.NewCollection()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "project_status.json", entries[0].Name())
}

func TestProjectStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated", content: `{"A": {"created_at": `},
		{name: "empty", content: ``},
		{name: "array", content: `[1, 2]`},
		{name: "record not object", content: `{"A": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "project_status.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := filestore.NewProjectStore(path).Load(context.Background())
			require.ErrorIs(t, err, filestore.ErrParse)
		})
	}
}

func TestProjectStore_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	store := filestore.NewProjectStore(filepath.Join(blocker, "project_status.json"))
	err := store.Save(context.Background(), project.NewCollection())
	require.ErrorIs(t, err, filestore.ErrIO)
}

func TestDecodeImport(t *testing.T) {
	coll, err := filestore.DecodeImport([]byte(`{
		"B": {"created_at": "2020-01-02T00:00:00", "types": ["Product"], "steps": {"Generate names": true}},
		"A": {"url": "https://example.com"}
	}`))
	require.NoError(t, err)
	require.Equal(t, []string{"B", "A"}, coll.IDs())

	b, _ := coll.Get("B")
	require.Equal(t, []catalog.Type{catalog.TypeProduct}, b.Types)
	require.True(t, b.Steps["Generate names"])
}

func TestDecodeImport_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "not json", raw: `not json`, want: filestore.ErrParse},
		{name: "truncated", raw: `{"A": {`, want: filestore.ErrParse},
		{name: "array", raw: `["A"]`, want: filestore.ErrInvalidStructure},
		{name: "record is string", raw: `{"A": "x"}`, want: filestore.ErrInvalidStructure},
		{name: "step not bool", raw: `{"A": {"steps": {"Generate names": "yes"}}}`, want: filestore.ErrInvalidStructure},
		{name: "unknown type", raw: `{"A": {"types": ["Legal"]}}`, want: filestore.ErrInvalidStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := filestore.DecodeImport([]byte(tt.raw))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeImport_EmptyObject(t *testing.T) {
	coll, err := filestore.DecodeImport([]byte(strings.TrimSpace(" {} ")))
	require.NoError(t, err)
	require.Zero(t, coll.Len())
}
