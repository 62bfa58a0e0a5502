// Package review implements the reviewer-facing side of the product correction queue:
// record normalization, the in-memory review queue, decision submission, and the
// controller state machine that sequences them against a backend collaborator.
package review

import (
	"bytes"
	"encoding/json"
	"maps"
	"strconv"
)

// DefaultStatus is assigned to records that carry no status field.
const DefaultStatus = "Draft"

// ID is an opaque product identifier. It retains the raw JSON token the backend produced
// (a number or a quoted string) so the identical token is echoed back on submission.
// The zero ID means the source record carried no identifier.
type ID struct {
	raw string
}

// NewID builds an ID from a decoded JSON value. Nil yields the zero ID.
func NewID(v any) ID {
	if v == nil {
		return ID{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ID{}
	}
	return ID{raw: string(data)}
}

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return id.raw == ""
}

// String returns the identifier without JSON quoting.
func (id ID) String() string {
	if s, err := strconv.Unquote(id.raw); err == nil {
		return s
	}
	return id.raw
}

// MarshalJSON emits the original token, or null for the zero ID.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.raw), nil
}

// UnmarshalJSON captures the raw token; null yields the zero ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*id = ID{raw: buf.String()}
	return nil
}

func (id ID) value() any {
	if id.raw == "" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(id.raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// Record is the canonical product shape consumed by the queue and submitter,
// independent of the field names a given backend revision used.
type Record struct {
	ID           ID
	TextContent  string
	Category     *string
	ProductType  *string
	Price        any
	ComparePrice any
	Taxable      bool
	Status       string
	ImageURL     *string

	// Extra holds source fields with no canonical mapping. Nothing downstream reads it.
	Extra map[string]any
}

// Map returns the record in canonical form. Feeding the result back through Normalize
// yields an identical Record.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Extra)+9)
	maps.Copy(m, r.Extra)

	m[keyID] = r.ID.value()
	m[keyText] = r.TextContent
	m[keyCategory] = derefOrNil(r.Category)
	m[keyProductType] = derefOrNil(r.ProductType)
	m[keyPrice] = r.Price
	m[keyComparePrice] = r.ComparePrice
	m[keyTaxable] = r.Taxable
	m[keyStatus] = r.Status
	m[keyImageURL] = derefOrNil(r.ImageURL)

	return m
}

// MarshalJSON encodes the canonical shape.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// UnmarshalJSON accepts any record shape and normalizes it.
func (r *Record) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	*r = Normalize(raw)
	return nil
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
