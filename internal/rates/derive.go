// Package rates turns a spot snapshot and a catalog template into per-unit
// material prices.
package rates

import (
	"github.com/Simplici0/scrapboard/internal/catalog"
	"github.com/Simplici0/scrapboard/internal/spot"
)

// Names of the items synthesized for precious categories.
const (
	GoldItem      = "Gold (24K)"
	SilverItem    = "Silver (.999)"
	PlatinumItem  = "Platinum (Pure)"
	PalladiumItem = "Palladium (Pure)"
)

// Derive prices a clone of template against snap. Flat items keep their
// static price, yield-based items are priced from recoverable metal, and the
// item list of every precious category is replaced with freshly priced
// pure-metal items. template is never modified.
func Derive(template catalog.Catalog, snap spot.Snapshot) catalog.Catalog {
	priced := template.Clone()
	for i := range priced.Categories {
		cat := &priced.Categories[i]
		switch {
		case cat.IsPrecious:
			cat.Items = PreciousItems(snap)
		case cat.IsYieldBased:
			for j := range cat.Items {
				cat.Items[j].Price = YieldPrice(cat.Items[j], snap)
			}
		}
	}
	return priced
}

// YieldPrice is the value of the metal recoverable from one unit of item:
// the sum of each declared yield times the per-gram spot price.
func YieldPrice(item catalog.Item, snap spot.Snapshot) float64 {
	return item.GoldYield*snap.PerGram(spot.Gold) +
		item.PdYield*snap.PerGram(spot.Palladium) +
		item.PtYield*snap.PerGram(spot.Platinum) +
		item.RhYield*snap.PerGram(spot.Rhodium)
}

// PreciousItems returns the pure-metal items priced per gram.
func PreciousItems(snap spot.Snapshot) []catalog.Item {
	purity, _ := spot.Purity("24K")
	return []catalog.Item{
		{Name: GoldItem, Price: snap.PerGram(spot.Gold) * purity, IsPrecious: true},
		{Name: SilverItem, Price: snap.PerGram(spot.Silver), IsPrecious: true},
		{Name: PlatinumItem, Price: snap.PerGram(spot.Platinum), IsPrecious: true},
		{Name: PalladiumItem, Price: snap.PerGram(spot.Palladium), IsPrecious: true},
	}
}
