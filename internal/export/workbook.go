package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/scrapboard/internal/pricing"
)

// SheetName is the worksheet holding the quote.
const SheetName = "Quote"

var header = []any{"Category", "Material", "Unit", "Qty", "Unit Rate", "Line Total", "Resolved By"}

// Meta identifies the exported quote.
type Meta struct {
	ID       string
	PricedAt time.Time
	Source   string
}

// WriteQuote renders q as an xlsx workbook onto w. Money cells are rounded
// to cents; the quote itself is left untouched.
func WriteQuote(w io.Writer, meta Meta, q pricing.Quote) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	rows := [][]any{
		{"Quote", meta.ID},
		{"Priced At", meta.PricedAt.UTC().Format(time.RFC3339)},
		{"Spot Source", meta.Source},
		{},
		header,
	}
	for _, line := range q.LineItems {
		rows = append(rows, []any{
			line.Category,
			line.Name,
			string(line.Unit),
			line.Qty,
			cents(line.UnitRate),
			cents(line.LineTotal),
			string(line.ResolvedBy),
		})
	}
	lastLine := len(rows)
	rows = append(rows,
		[]any{},
		[]any{"Subtotal", nil, nil, nil, nil, cents(q.Subtotal)},
		[]any{"Margin", nil, nil, nil, nil, q.Margin},
		[]any{"Payout", nil, nil, nil, nil, cents(q.Payout)},
	)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	headerRow := 5
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("G%d", headerRow), bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if lastLine > headerRow {
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("E%d", headerRow+1), fmt.Sprintf("F%d", lastLine), money); err != nil {
			return fmt.Errorf("style lines: %w", err)
		}
	}
	totals := len(rows)
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", totals-2), fmt.Sprintf("A%d", totals), bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "B", 24); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
