package spot

import (
	"github.com/shopspring/decimal"
)

// Karat is a gold fineness grade and its fraction of pure gold.
type Karat struct {
	Name   string
	Purity float64
}

// Karats lists the gold grades reported, finest first.
var Karats = []Karat{
	{Name: "24K", Purity: 1.0},
	{Name: "22K", Purity: 0.9167},
	{Name: "20K", Purity: 0.8333},
	{Name: "18K", Purity: 0.75},
	{Name: "16K", Purity: 0.6667},
	{Name: "14K", Purity: 0.5833},
	{Name: "12K", Purity: 0.5},
	{Name: "10K", Purity: 0.4167},
}

// Purity returns the pure-gold fraction for a karat name such as "18K".
func Purity(karat string) (float64, bool) {
	for _, k := range Karats {
		if k.Name == karat {
			return k.Purity, true
		}
	}
	return 0, false
}

// MetalRates is a rounded ounce and gram price pair.
type MetalRates struct {
	PriceOZ float64 `json:"Price_OZ"`
	PriceG  float64 `json:"Price_G"`
}

// Report is the display form of a snapshot. Rates are rounded to cents;
// the *Raw fields keep full precision per gram.
type Report struct {
	GoldRates      map[string]float64 `json:"gold_rates"`
	SilverRates    MetalRates         `json:"silver_rates"`
	PlatinumRates  MetalRates         `json:"platinum_rates"`
	PalladiumRates MetalRates         `json:"palladium_rates"`
	GoldRaw        float64            `json:"gold_raw"`
	PalladiumRaw   float64            `json:"palladium_raw"`
	PlatinumRaw    float64            `json:"platinum_raw"`
	RhodiumRaw     float64            `json:"rhodium_raw"`
	Fallback       bool               `json:"fallback"`
}

// BuildReport derives per-karat gold rates and rounded metal rates from s.
func BuildReport(s Snapshot) Report {
	goldG := s.PerGram(Gold)

	gold := map[string]float64{
		"Price_OZ": round2(s.Gold),
		"Price_G":  round2(goldG),
	}
	for _, k := range Karats {
		gold["Price_"+k.Name] = round2(goldG * k.Purity)
	}

	return Report{
		GoldRates:      gold,
		SilverRates:    rates(s, Silver),
		PlatinumRates:  rates(s, Platinum),
		PalladiumRates: rates(s, Palladium),
		GoldRaw:        goldG,
		PalladiumRaw:   s.PerGram(Palladium),
		PlatinumRaw:    s.PerGram(Platinum),
		RhodiumRaw:     s.PerGram(Rhodium),
		Fallback:       s.IsFallback(),
	}
}

func rates(s Snapshot, m Metal) MetalRates {
	return MetalRates{
		PriceOZ: round2(s.PerOunce(m)),
		PriceG:  round2(s.PerGram(m)),
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
