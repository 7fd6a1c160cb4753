package project_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestCollection_JSONKeepsOrder(t *testing.T) {
	doc := `{"zeta":{"created_at":"2","types":["Product"],"url":"u","notes":"<b>&</b>","steps":{"Generate names":true},"attachments":["a.txt"]},` +
		`"alpha":{"created_at":"1","types":[],"url":"","notes":"","steps":{},"attachments":[]}}`

	var coll project.Collection
	require.NoError(t, json.Unmarshal([]byte(doc), &coll))
	require.Equal(t, []string{"zeta", "alpha"}, coll.IDs())

	zeta, ok := coll.Get("zeta")
	require.True(t, ok)
	require.Equal(t, "zeta", zeta.ID)
	require.True(t, zeta.Steps["Generate names"])

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(&coll))
	out := buf.String()
	require.JSONEq(t, doc, out)
	require.Contains(t, out, "<b>&</b>")
	require.Less(t, strings.Index(out, "zeta"), strings.Index(out, "alpha"))
}

func TestCollection_UnmarshalRejectsShape(t *testing.T) {
	for _, doc := range []string{`[]`, `"x"`, `null`, `{"a":1}`, `{"a":[]}`, `{"a":{"steps":"no"}}`} {
		var coll project.Collection
		err := json.Unmarshal([]byte(doc), &coll)
		require.ErrorIs(t, err, project.ErrMalformedCollection, doc)
	}
}

func TestCollection_DuplicateKeyReplacesInPlace(t *testing.T) {
	var coll project.Collection
	require.NoError(t, json.Unmarshal([]byte(`{"a":{"url":"1"},"b":{},"a":{"url":"2"}}`), &coll))
	require.Equal(t, []string{"a", "b"}, coll.IDs())
	a, _ := coll.Get("a")
	require.Equal(t, "2", a.URL)
}

func TestCollection_Merge(t *testing.T) {
	base := collectionOf(&project.Record{ID: "A", URL: "old", Notes: "keep?"}, &project.Record{ID: "C"})
	added, replaced := base.Merge(collectionOf(&project.Record{ID: "A", URL: "new"}, &project.Record{ID: "B"}))
	require.Equal(t, []string{"B"}, added)
	require.Equal(t, []string{"A"}, replaced)
	require.Equal(t, []string{"A", "C", "B"}, base.IDs())

	a, _ := base.Get("A")
	require.Equal(t, "new", a.URL)
	require.Empty(t, a.Notes, "records are replaced wholesale")
}
