package pricing

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Simplici0/scrapboard/internal/catalog"
	"github.com/Simplici0/scrapboard/internal/rates"
)

// CustomMaterial labels lines that match no catalog item and carry no name.
const CustomMaterial = "Custom Material"

// ErrMarginOutOfRange is returned by ValidateMargin.
var ErrMarginOutOfRange = errors.New("margin must be between 0 and 1")

// Resolution records how a line found its unit rate.
type Resolution string

const (
	ResolvedByName     Resolution = "name"
	ResolvedByIndex    Resolution = "index"
	ResolvedByOverride Resolution = "override"
)

// LineRequest is one requested line item.
type LineRequest struct {
	Category  string `json:"category"`
	Name      string `json:"name,omitempty"`
	ItemIndex Number `json:"itemIndex"`
	Qty       Number `json:"qty"`
	Unit      string `json:"unit,omitempty"`
	Rate      Number `json:"rate"`
}

// Request is a batch of line items with the margin to withhold.
type Request struct {
	LineItems []LineRequest `json:"lineItems"`
	Margin    Number        `json:"margin"`
}

// PricedLine is a resolved line item.
type PricedLine struct {
	Category   string     `json:"category"`
	Name       string     `json:"name"`
	Unit       rates.Unit `json:"unit"`
	Qty        float64    `json:"qty"`
	UnitRate   float64    `json:"unitRate"`
	LineTotal  float64    `json:"lineTotal"`
	ResolvedBy Resolution `json:"resolvedBy"`
}

// Quote is a priced batch.
type Quote struct {
	Margin    float64      `json:"margin"`
	Subtotal  float64      `json:"subtotal"`
	Payout    float64      `json:"payout"`
	LineItems []PricedLine `json:"lineItems"`
}

// Compute prices every line against a derived catalog and applies margin.
// margin is not range-checked here; see ValidateMargin.
func Compute(priced catalog.Catalog, lines []LineRequest, margin float64) Quote {
	out := make([]PricedLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, ResolveLine(&priced, line))
	}

	subtotal := Subtotal(out)
	return Quote{
		Margin:    margin,
		Subtotal:  subtotal,
		Payout:    subtotal * (1 - margin),
		LineItems: out,
	}
}

// ResolveLine looks the item up by exact name, then by position, and
// otherwise prices the line with its override rate.
func ResolveLine(priced *catalog.Catalog, line LineRequest) PricedLine {
	unit := rates.Unit(line.Unit)
	if unit == "" {
		unit = rates.DefaultUnit
	}
	qty := line.Qty.Float()

	pl := PricedLine{
		Category: line.Category,
		Unit:     unit,
		Qty:      qty,
	}

	if item, by, ok := lookup(priced, line); ok {
		pl.Name = item.Name
		pl.UnitRate = rates.RateIn(item, unit)
		pl.ResolvedBy = by
	} else {
		pl.Name = line.Name
		if pl.Name == "" {
			pl.Name = CustomMaterial
		}
		pl.UnitRate = line.Rate.Float()
		pl.ResolvedBy = ResolvedByOverride
	}
	pl.LineTotal = pl.UnitRate * qty
	return pl
}

func lookup(priced *catalog.Catalog, line LineRequest) (catalog.Item, Resolution, bool) {
	cat := priced.Category(line.Category)
	if cat == nil {
		return catalog.Item{}, "", false
	}
	if line.Name != "" {
		for _, item := range cat.Items {
			if item.Name == line.Name {
				return item, ResolvedByName, true
			}
		}
	}
	if idx, ok := line.ItemIndex.Index(); ok && idx < len(cat.Items) {
		return cat.Items[idx], ResolvedByIndex, true
	}
	return catalog.Item{}, "", false
}

// Subtotal sums line totals in ascending order with Neumaier compensation.
// Every permutation of the same lines yields the identical float64. The
// result is within about one ulp of the exact sum plus a second-order term
// in the sum of magnitudes, so small totals next to large or opposite-signed
// ones are not lost.
func Subtotal(lines []PricedLine) float64 {
	totals := make([]float64, len(lines))
	for i, l := range lines {
		totals[i] = l.LineTotal
	}
	slices.Sort(totals)

	sum, comp := 0.0, 0.0
	for _, v := range totals {
		t := sum + v
		if math.Abs(sum) >= math.Abs(v) {
			comp += (sum - t) + v
		} else {
			comp += (v - t) + sum
		}
		sum = t
	}
	return sum + comp
}

// ValidateMargin rejects margins outside [0, 1].
func ValidateMargin(margin float64) error {
	if math.IsNaN(margin) || margin < 0 || margin > 1 {
		return fmt.Errorf("%w, got %v", ErrMarginOutOfRange, margin)
	}
	return nil
}
