package review

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	keyID           = "id"
	keyText         = "textContent"
	keyCategory     = "category"
	keyProductType  = "productType"
	keyPrice        = "price"
	keyComparePrice = "comparePrice"
	keyTaxable      = "taxable"
	keyStatus       = "status"
	keyImageURL     = "imageUrl"
)

// aliases lists, per canonical field, the source names tried in priority order.
// The canonical name always comes first so normalized records re-normalize unchanged.
// The first non-null name wins even when its value cannot be converted: an
// unusable "price" leaves Price nil rather than falling through to "variant_price".
var aliases = []struct {
	Field string
	Names []string
}{
	{keyID, []string{keyID, "product_id"}},
	{keyText, []string{keyText, "text_content", "text", "normalized", "normalized_value"}},
	{keyCategory, []string{keyCategory, "product_category", "Product Category"}},
	{keyProductType, []string{keyProductType, "product_type", "Type"}},
	{keyPrice, []string{keyPrice, "variant_price", "Variant Price"}},
	{keyComparePrice, []string{keyComparePrice, "compare_price", "compare_at_price", "Variant Compare At Price"}},
	{keyTaxable, []string{keyTaxable, "variant_taxable", "Variant Taxable"}},
	{keyStatus, []string{keyStatus, "Status"}},
	{keyImageURL, []string{keyImageURL, "image_url", "variant_image", "Variant Image", "Image Src"}},
}

var known = func() map[string]bool {
	m := make(map[string]bool)
	for _, a := range aliases {
		for _, n := range a.Names {
			m[n] = true
		}
	}
	return m
}()

// Normalize maps an arbitrarily shaped source record onto Record. It never fails:
// absent fields take their defaults and JSON null counts as absent. Fields outside
// the alias table are carried in Extra.
func Normalize(raw map[string]any) Record {
	r := Record{Status: DefaultStatus}

	for _, a := range aliases {
		v, ok := resolve(raw, a.Names)
		if !ok {
			continue
		}
		switch a.Field {
		case keyID:
			r.ID = NewID(v)
		case keyText:
			r.TextContent = toText(v)
		case keyCategory:
			r.Category = toOptionalText(v)
		case keyProductType:
			r.ProductType = toOptionalText(v)
		case keyPrice:
			r.Price = toAmount(v)
		case keyComparePrice:
			r.ComparePrice = toAmount(v)
		case keyTaxable:
			r.Taxable = toFlag(v)
		case keyStatus:
			if s, ok := v.(string); ok {
				r.Status = s
			}
		case keyImageURL:
			r.ImageURL = toOptionalText(v)
		}
	}

	for k, v := range raw {
		if known[k] {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[k] = v
	}

	return r
}

// ParseRecords decodes a backend listing. A body that is not a JSON array yields no
// records and ErrMalformedResponse; array elements that are not objects normalize
// as empty records.
func ParseRecords(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return []Record{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if items == nil {
		return []Record{}, fmt.Errorf("%w: null body", ErrMalformedResponse)
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		records = append(records, Normalize(obj))
	}
	return records, nil
}

func resolve(raw map[string]any, names []string) (any, bool) {
	for _, n := range names {
		if v, ok := raw[n]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64, int, int64:
		return fmt.Sprint(t)
	}
	return ""
}

func toOptionalText(v any) *string {
	switch v.(type) {
	case string, json.Number, float64, int, int64:
		s := toText(v)
		return &s
	}
	return nil
}

func toAmount(v any) any {
	switch v.(type) {
	case string, json.Number, float64, int, int64:
		return v
	}
	return nil
}

// toFlag accepts native booleans and the integers 1 and 0. Everything else is false.
func toFlag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case json.Number:
		n, err := t.Int64()
		return err == nil && n == 1
	case float64:
		return t == 1
	case int:
		return t == 1
	case int64:
		return t == 1
	}
	return false
}
