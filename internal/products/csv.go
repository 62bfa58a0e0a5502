package products

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Header names accepted for each import column, matched case-insensitively.
var importColumns = map[string][]string{
	"text":     {"title", "text_content", "text"},
	"category": {"product category", "category"},
	"type":     {"type", "product_type"},
	"price":    {"variant price", "variant_price", "price"},
	"compare":  {"variant compare at price", "compare_at_price"},
	"taxable":  {"variant taxable", "taxable"},
	"image":    {"image src", "variant image", "variant_image"},
}

// ShopifyHeader is the column set written by WriteShopify.
var ShopifyHeader = []string{
	"Handle", "Title", "Body (HTML)", "Vendor", "Type", "Tags", "Published", "Variant Price",
}

// ParseImport reads a CSV with a header row. The product text comes from the first
// of Title, text_content, or text that is present, else the first column. Rows
// with blank text are skipped. Unparseable prices are dropped rather than rejected.
func ParseImport(r io.Reader) ([]ImportRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyImport
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	cols := resolveColumns(header)

	var rows []ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}

		text := strings.TrimSpace(field(record, cols["text"]))
		if text == "" {
			continue
		}

		rows = append(rows, ImportRow{
			TextContent:    text,
			Category:       optional(field(record, cols["category"])),
			ProductType:    optional(field(record, cols["type"])),
			VariantPrice:   price(field(record, cols["price"])),
			CompareAtPrice: price(field(record, cols["compare"])),
			Taxable:        truthy(field(record, cols["taxable"])),
			VariantImage:   optional(field(record, cols["image"])),
		})
	}

	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}
	return rows, nil
}

// WriteShopify writes products in Shopify's product import format.
func WriteShopify(w io.Writer, products []Product, vendor string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ShopifyHeader); err != nil {
		return err
	}

	for _, p := range products {
		productType := deref(p.ProductType)
		tags := make([]string, 0, 2)
		for _, t := range []string{deref(p.Category), productType} {
			if t != "" {
				tags = append(tags, t)
			}
		}

		err := cw.Write([]string{
			Slugify(p.TextContent),
			p.TextContent,
			"<p>" + html.EscapeString(p.TextContent) + "</p>",
			vendor,
			productType,
			strings.Join(tags, ", "),
			"TRUE",
			deref(p.VariantPrice),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of non-alphanumerics into one hyphen.
func Slugify(s string) string {
	return strings.Trim(nonWord.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func resolveColumns(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	cols := make(map[string]int, len(importColumns))
	for name, candidates := range importColumns {
		cols[name] = -1
		for _, c := range candidates {
			if i, ok := index[c]; ok {
				cols[name] = i
				break
			}
		}
	}
	if cols["text"] < 0 {
		cols["text"] = 0
	}
	return cols
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func price(s string) *string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil
	}
	formatted := strconv.FormatFloat(f, 'f', 2, 64)
	return &formatted
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
