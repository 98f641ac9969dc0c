package rates

import "github.com/Simplici0/scrapboard/internal/catalog"

// Unit is a quantity unit accepted on quote lines.
type Unit string

const (
	Gram     Unit = "g"
	Ounce    Unit = "oz"
	Pound    Unit = "lb"
	Kilogram Unit = "kg"
)

// DefaultUnit applies when a line names no unit.
const DefaultUnit = Pound

const (
	gramsPerOunce    = 31.1035
	gramsPerPound    = 453.592
	gramsPerKilogram = 1000.0
	poundsPerKilo    = 2.20462
	ouncesPerPound   = 16.0
)

// RateIn converts the item's base price into a price per unit. Precious
// items are priced per gram, everything else per pound. An unknown unit
// yields the base price.
func RateIn(item catalog.Item, unit Unit) float64 {
	p := item.Price
	if item.IsPrecious {
		switch unit {
		case Gram:
			return p
		case Ounce:
			return p * gramsPerOunce
		case Pound:
			return p * gramsPerPound
		case Kilogram:
			return p * gramsPerKilogram
		}
		return p
	}

	switch unit {
	case Pound:
		return p
	case Kilogram:
		return p * poundsPerKilo
	case Ounce:
		return p / ouncesPerPound
	case Gram:
		return p / gramsPerPound
	}
	return p
}
