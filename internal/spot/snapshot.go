package spot

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// OunceToGram is the number of grams in a troy ounce.
const OunceToGram = 31.1035

// RhodiumReference is the fixed rhodium price in USD per gram. No live
// rhodium source exists.
const RhodiumReference = 145.0

// ErrMalformedPayload marks a spot payload that lacks the required price fields.
var ErrMalformedPayload = errors.New("malformed spot payload")

// Metal names a priced metal.
type Metal string

const (
	Gold      Metal = "gold"
	Silver    Metal = "silver"
	Platinum  Metal = "platinum"
	Palladium Metal = "palladium"
	Rhodium   Metal = "rhodium"
)

// Source tells where a price came from.
type Source string

const (
	SourceLive      Source = "live"
	SourceFallback  Source = "fallback"
	SourceReference Source = "reference"
)

// Snapshot is an immutable set of spot prices. Gold, silver, platinum and
// palladium are USD per troy ounce; Rhodium is USD per gram.
type Snapshot struct {
	Gold          float64   `json:"gold"`
	Silver        float64   `json:"silver"`
	Platinum      float64   `json:"platinum"`
	Palladium     float64   `json:"palladium"`
	Rhodium       float64   `json:"rhodium"`
	Source        Source    `json:"source"`
	RhodiumSource Source    `json:"rhodiumSource"`
	FetchedAt     time.Time `json:"fetchedAt"`
}

// PerGram returns the USD per gram price of m, or 0 for an unknown metal.
func (s Snapshot) PerGram(m Metal) float64 {
	switch m {
	case Gold:
		return s.Gold / OunceToGram
	case Silver:
		return s.Silver / OunceToGram
	case Platinum:
		return s.Platinum / OunceToGram
	case Palladium:
		return s.Palladium / OunceToGram
	case Rhodium:
		return s.Rhodium
	}
	return 0
}

// PerOunce returns the USD per troy ounce price of m, or 0 for an unknown metal.
func (s Snapshot) PerOunce(m Metal) float64 {
	switch m {
	case Gold:
		return s.Gold
	case Silver:
		return s.Silver
	case Platinum:
		return s.Platinum
	case Palladium:
		return s.Palladium
	case Rhodium:
		return s.Rhodium * OunceToGram
	}
	return 0
}

// IsFallback reports whether the snapshot was substituted for live data.
func (s Snapshot) IsFallback() bool {
	return s.Source == SourceFallback
}

// Validate checks that every price is a positive finite number.
func (s Snapshot) Validate() error {
	for _, m := range []Metal{Gold, Silver, Platinum, Palladium, Rhodium} {
		v := s.PerOunce(m)
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s price must be positive, got %v", ErrMalformedPayload, m, v)
		}
	}
	return nil
}
