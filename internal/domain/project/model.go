package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
)

// CreatedAtLayout is the timestamp layout stored in created_at.
const CreatedAtLayout = "2006-01-02T15:04:05.000000"

// ReservedID is the placeholder shown in the new-project field; it is never a
// valid project ID.
const ReservedID = "GTS"

// Record is one tracked localization request and its checklist state.
// The ID is the key of the record in its Collection and is not part of the
// stored object.
type Record struct {
	ID          string          `json:"-"`
	CreatedAt   string          `json:"created_at"`
	Types       []catalog.Type  `json:"types"`
	URL         string          `json:"url"`
	Notes       string          `json:"notes"`
	Steps       map[string]bool `json:"steps"`
	Attachments []string        `json:"attachments"`
}

// NewRecord returns a record with every step in steps unchecked.
func NewRecord(id string, createdAt time.Time, steps []string) *Record {
	rec := &Record{
		ID:        id,
		CreatedAt: createdAt.Format(CreatedAtLayout),
	}
	rec.Backfill(steps)
	return rec
}

// Backfill adds any of steps missing from the checklist as unchecked and
// replaces nil slices with empty ones. Existing flags are never removed.
func (r *Record) Backfill(steps []string) {
	if r.Types == nil {
		r.Types = []catalog.Type{}
	}
	if r.Attachments == nil {
		r.Attachments = []string{}
	}
	if r.Steps == nil {
		r.Steps = make(map[string]bool, len(steps))
	}
	for _, step := range steps {
		if _, ok := r.Steps[step]; !ok {
			r.Steps[step] = false
		}
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Types != nil {
		out.Types = append([]catalog.Type{}, r.Types...)
	}
	if r.Attachments != nil {
		out.Attachments = append([]string{}, r.Attachments...)
	}
	if r.Steps != nil {
		out.Steps = make(map[string]bool, len(r.Steps))
		for k, v := range r.Steps {
			out.Steps[k] = v
		}
	}
	return &out
}

// Collection is the ordered set of tracked projects keyed by ID. Iteration
// follows insertion order, which is document order for a loaded collection.
type Collection struct {
	order   []string
	records map[string]*Record
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{records: make(map[string]*Record)}
}

// Len returns the number of projects.
func (c *Collection) Len() int {
	return len(c.order)
}

// IDs returns the project IDs in collection order.
func (c *Collection) IDs() []string {
	return append([]string{}, c.order...)
}

// Get returns the stored record for id.
func (c *Collection) Get(id string) (*Record, bool) {
	rec, ok := c.records[id]
	return rec, ok
}

// Records returns the stored records in collection order.
func (c *Collection) Records() []*Record {
	out := make([]*Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.records[id])
	}
	return out
}

// Put stores rec under rec.ID. A new ID is appended; an existing ID keeps its
// position and is replaced wholesale.
func (c *Collection) Put(rec *Record) {
	if c.records == nil {
		c.records = make(map[string]*Record)
	}
	if _, ok := c.records[rec.ID]; !ok {
		c.order = append(c.order, rec.ID)
	}
	c.records[rec.ID] = rec
}

// Merge copies every record of other into c with Put semantics and reports
// which IDs were added and which replaced.
func (c *Collection) Merge(other *Collection) (added, replaced []string) {
	for _, rec := range other.Records() {
		if _, ok := c.records[rec.ID]; ok {
			replaced = append(replaced, rec.ID)
		} else {
			added = append(added, rec.ID)
		}
		c.Put(rec.Clone())
	}
	return added, replaced
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	out := NewCollection()
	for _, rec := range c.Records() {
		out.Put(rec.Clone())
	}
	return out
}

// MarshalJSON writes the collection as a JSON object in collection order.
func (c *Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalUnescaped(id)
		if err != nil {
			return nil, err
		}
		value, err := marshalUnescaped(c.records[id])
		if err != nil {
			return nil, fmt.Errorf("encoding project %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of project objects, keeping key order.
// A repeated key replaces the earlier value in place.
func (c *Collection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: top level is not an object", ErrMalformedCollection)
	}

	fresh := NewCollection()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
			return fmt.Errorf("%w: project %q is not an object", ErrMalformedCollection, id)
		}
		rec := &Record{}
		if err := json.Unmarshal(raw, rec); err != nil {
			return fmt.Errorf("%w: project %q: %v", ErrMalformedCollection, id, err)
		}
		rec.ID = id
		fresh.Put(rec)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = *fresh
	return nil
}

func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
