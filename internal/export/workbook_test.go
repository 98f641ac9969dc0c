package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/scrapboard/internal/pricing"
	"github.com/Simplici0/scrapboard/internal/rates"
)

func readBack(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(SheetName, ref, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestWriteQuote(t *testing.T) {
	q := pricing.Quote{
		Margin:   0.1,
		Subtotal: 76.1386,
		Payout:   68.52474,
		LineItems: []pricing.PricedLine{
			{Category: "Copper & Wire", Name: "#1 COPPER", Unit: rates.Kilogram, Qty: 10, UnitRate: 6.61386, LineTotal: 66.1386, ResolvedBy: pricing.ResolvedByName},
			{Category: "Nope", Name: pricing.CustomMaterial, Unit: rates.Pound, Qty: 2, UnitRate: 5, LineTotal: 10, ResolvedBy: pricing.ResolvedByOverride},
		},
	}
	meta := Meta{ID: "q-1", PricedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), Source: "live"}

	var buf bytes.Buffer
	require.NoError(t, WriteQuote(&buf, meta, q))

	f := readBack(t, &buf)
	require.Equal(t, []string{SheetName}, f.GetSheetList())

	require.Equal(t, "q-1", cell(t, f, "B1"))
	require.Equal(t, "2024-06-01T12:00:00Z", cell(t, f, "B2"))
	require.Equal(t, "live", cell(t, f, "B3"))

	require.Equal(t, "Category", cell(t, f, "A5"))
	require.Equal(t, "Resolved By", cell(t, f, "G5"))

	require.Equal(t, "#1 COPPER", cell(t, f, "B6"))
	require.Equal(t, "kg", cell(t, f, "C6"))
	require.Equal(t, "10", cell(t, f, "D6"))
	require.Equal(t, "6.61", cell(t, f, "E6"))
	require.Equal(t, "66.14", cell(t, f, "F6"))
	require.Equal(t, "name", cell(t, f, "G6"))

	require.Equal(t, pricing.CustomMaterial, cell(t, f, "B7"))
	require.Equal(t, "override", cell(t, f, "G7"))

	require.Equal(t, "Subtotal", cell(t, f, "A9"))
	require.Equal(t, "76.14", cell(t, f, "F9"))
	require.Equal(t, "0.1", cell(t, f, "F10"))
	require.Equal(t, "Payout", cell(t, f, "A11"))
	require.Equal(t, "68.52", cell(t, f, "F11"))
}

func TestWriteQuoteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteQuote(&buf, Meta{ID: "empty"}, pricing.Quote{LineItems: []pricing.PricedLine{}}))

	f := readBack(t, &buf)
	require.Equal(t, "Category", cell(t, f, "A5"))
	require.Equal(t, "Subtotal", cell(t, f, "A7"))
	require.Equal(t, "0", cell(t, f, "F7"))
	require.Equal(t, "Payout", cell(t, f, "A9"))
}
