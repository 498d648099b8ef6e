package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"multibuy-autoadd/internal/domain"
)

type SKUWriter interface {
	Upsert(ctx context.Context, sku domain.SKU) (*domain.SKU, error)
}

// CSVImporter reads SKU rows and inserts or updates them.
type CSVImporter struct {
	reader  *csv.Reader
	skuRepo SKUWriter
}

func NewCSVImporter(r io.Reader, repo SKUWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:  csvr,
		skuRepo: repo,
	}
}

// Run upserts every data row and returns how many SKUs were written.
// Rows are processed in file order so bundle members can precede bundles.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "price_cents", "currency"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing column %q", required)
		}
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		sku, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if _, err := i.skuRepo.Upsert(ctx, sku); err != nil {
			return imported, fmt.Errorf("upsert sku %q: %w", sku.Name, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.SKU, error) {
	sku := domain.SKU{
		Name:     pick(record, index, "name"),
		Currency: strings.ToUpper(pick(record, index, "currency")),
		Enabled:  true,
	}
	if sku.Name == "" || sku.Currency == "" {
		return sku, errors.New("name and currency are required")
	}

	var err error
	if v := pick(record, index, "id"); v != "" {
		if sku.ID, err = strconv.ParseInt(v, 10, 64); err != nil || sku.ID <= 0 {
			return sku, fmt.Errorf("invalid id %q", v)
		}
	}
	if sku.PriceCents, err = strconv.ParseInt(pick(record, index, "price_cents"), 10, 64); err != nil || sku.PriceCents < 0 {
		return sku, fmt.Errorf("invalid price_cents for %q", sku.Name)
	}
	if v := pick(record, index, "enabled"); v != "" {
		if sku.Enabled, err = strconv.ParseBool(v); err != nil {
			return sku, fmt.Errorf("invalid enabled %q", v)
		}
	}
	if v := pick(record, index, "sell_only_if_available"); v != "" {
		if sku.SellOnlyIfAvailable, err = strconv.ParseBool(v); err != nil {
			return sku, fmt.Errorf("invalid sell_only_if_available %q", v)
		}
	}
	if v := pick(record, index, "available_units"); v != "" {
		if sku.AvailableUnits, err = strconv.Atoi(v); err != nil {
			return sku, fmt.Errorf("invalid available_units %q", v)
		}
	}
	if v := pick(record, index, "bundle"); v != "" {
		for _, part := range strings.Split(v, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return sku, fmt.Errorf("invalid bundle member %q", part)
			}
			sku.BundleSKUIDs = append(sku.BundleSKUIDs, id)
		}
	}
	return sku, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
