package rates

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/scrapboard/internal/catalog"
	"github.com/Simplici0/scrapboard/internal/spot"
)

func testSnapshot() spot.Snapshot {
	return spot.Snapshot{
		Gold:      2000,
		Silver:    25,
		Platinum:  900,
		Palladium: 1000,
		Rhodium:   spot.RhodiumReference,
		Source:    spot.SourceLive,
	}
}

func defaultCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func TestYieldPriceCeramicCPUs(t *testing.T) {
	snap := testSnapshot()
	item := catalog.Item{Name: "Ceramic CPUs", GoldYield: 0.6, PdYield: 0.15}

	goldG := 2000 / spot.OunceToGram
	pdG := 1000 / spot.OunceToGram

	got := YieldPrice(item, snap)
	require.InDelta(t, 0.6*goldG+0.15*pdG, got, 1e-12)
	require.InDelta(t, 43.38, got, 0.05)
}

func TestYieldPriceZeroYields(t *testing.T) {
	require.Zero(t, YieldPrice(catalog.Item{Name: "Empty"}, testSnapshot()))
}

func TestYieldPriceIncludesRhodium(t *testing.T) {
	snap := testSnapshot()
	item := catalog.Item{Name: "Small Domestic", PtYield: 1.2, PdYield: 0.8, RhYield: 0.08}

	want := 1.2*snap.PerGram(spot.Platinum) + 0.8*snap.PerGram(spot.Palladium) + 0.08*spot.RhodiumReference
	require.InDelta(t, want, YieldPrice(item, snap), 1e-12)
}

func TestDeriveFlatItemsUnchangedAcrossSnapshots(t *testing.T) {
	template := defaultCatalog(t)

	low := testSnapshot()
	high := testSnapshot()
	high.Gold, high.Palladium = 3000, 2000

	for _, snap := range []spot.Snapshot{low, high} {
		priced := Derive(template, snap)
		for _, cat := range template.Categories {
			if cat.IsPrecious || cat.IsYieldBased {
				continue
			}
			got := priced.Category(cat.Name)
			require.NotNil(t, got)
			require.Equal(t, cat.Items, got.Items, cat.Name)
		}
	}
}

func TestDeriveYieldItems(t *testing.T) {
	template := defaultCatalog(t)
	snap := testSnapshot()

	priced := Derive(template, snap)
	for _, cat := range priced.Categories {
		if !cat.IsYieldBased {
			continue
		}
		for _, item := range cat.Items {
			require.InDelta(t, YieldPrice(item, snap), item.Price, 1e-12, item.Name)
			require.Positive(t, item.Price, item.Name)
		}
	}
}

func TestDeriveReplacesPreciousItems(t *testing.T) {
	template := defaultCatalog(t)
	snap := testSnapshot()

	priced := Derive(template, snap)
	precious := priced.Category("Precious Metals")
	require.NotNil(t, precious)
	require.Len(t, precious.Items, 4)

	names := []string{GoldItem, SilverItem, PlatinumItem, PalladiumItem}
	metals := []spot.Metal{spot.Gold, spot.Silver, spot.Platinum, spot.Palladium}
	for i, item := range precious.Items {
		require.Equal(t, names[i], item.Name)
		require.True(t, item.IsPrecious)
		require.InDelta(t, snap.PerGram(metals[i]), item.Price, 1e-12)
	}

	again := Derive(priced, snap)
	require.Len(t, again.Category("Precious Metals").Items, 4, "repeated derivation must not duplicate items")
}

func TestDeriveLeavesTemplateUntouched(t *testing.T) {
	template := defaultCatalog(t)
	before := template.Clone()

	_ = Derive(template, testSnapshot())

	require.Equal(t, before, template)
	require.Empty(t, template.Category("Precious Metals").Items)
	require.Zero(t, template.Category("E-Waste (Live Yield)").Items[0].Price)
}

func TestDeriveIsDeterministic(t *testing.T) {
	template := defaultCatalog(t)
	snap := testSnapshot()
	require.Equal(t, Derive(template, snap), Derive(template, snap))
}

func TestRateInPrecious(t *testing.T) {
	item := catalog.Item{Name: GoldItem, Price: 64.3, IsPrecious: true}
	g := RateIn(item, Gram)

	require.Equal(t, 64.3, g)
	require.InDelta(t, g*31.1035, RateIn(item, Ounce), 1e-9)
	require.InDelta(t, g*1000, RateIn(item, Kilogram), 1e-9)
	require.InDelta(t, g*453.592, RateIn(item, Pound), 1e-9)
	require.Equal(t, g, RateIn(item, Unit("ton")))
}

func TestRateInBulk(t *testing.T) {
	item := catalog.Item{Name: "#1 COPPER", Price: 3.0}
	lb := RateIn(item, Pound)

	require.Equal(t, 3.0, lb)
	require.InDelta(t, 6.61386, RateIn(item, Kilogram), 1e-9)
	require.InDelta(t, lb/16, RateIn(item, Ounce), 1e-12)
	require.InDelta(t, lb/453.592, RateIn(item, Gram), 1e-12)
	require.Equal(t, lb, RateIn(item, Unit("")))
	require.Equal(t, lb, RateIn(item, Unit("LB")))
}
