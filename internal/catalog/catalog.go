package catalog

import (
	"fmt"
	"math"
)

// Item is a purchasable scrap type. Flat items carry a static Price per pound;
// yield-based items carry grams of recoverable metal per unit and get their
// Price derived from spot prices.
type Item struct {
	Name       string  `json:"n" yaml:"n"`
	Price      float64 `json:"p" yaml:"p,omitempty"`
	GoldYield  float64 `json:"goldYield,omitempty" yaml:"goldYield,omitempty"`
	PdYield    float64 `json:"pdYield,omitempty" yaml:"pdYield,omitempty"`
	PtYield    float64 `json:"ptYield,omitempty" yaml:"ptYield,omitempty"`
	RhYield    float64 `json:"rhYield,omitempty" yaml:"rhYield,omitempty"`
	IsPrecious bool    `json:"isPrecious,omitempty" yaml:"isPrecious,omitempty"`
}

// Category is a named, ordered group of items.
type Category struct {
	Name         string `json:"name" yaml:"name"`
	Icon         string `json:"icon" yaml:"icon"`
	IsPrecious   bool   `json:"isPrecious,omitempty" yaml:"isPrecious,omitempty"`
	IsYieldBased bool   `json:"isYieldBased,omitempty" yaml:"isYieldBased,omitempty"`
	Items        []Item `json:"items" yaml:"items"`
}

// Catalog is the versioned material definition. A loaded catalog is a
// template: callers price a Clone and never the template itself.
type Catalog struct {
	Version    string     `json:"version" yaml:"version"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// Clone returns a deep copy that shares no slices with c.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Version:    c.Version,
		Categories: make([]Category, len(c.Categories)),
	}
	for i, cat := range c.Categories {
		cat.Items = append([]Item(nil), cat.Items...)
		if cat.Items == nil {
			cat.Items = []Item{}
		}
		out.Categories[i] = cat
	}
	return out
}

// Category returns the category with the exact given name, or nil.
func (c *Catalog) Category(name string) *Category {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i]
		}
	}
	return nil
}

// ByName indexes categories by name, the shape clients of the materials API expect.
func (c Catalog) ByName() map[string]Category {
	out := make(map[string]Category, len(c.Categories))
	for _, cat := range c.Categories {
		out[cat.Name] = cat
	}
	return out
}

// Validate checks the structural rules a catalog definition must satisfy.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category name is required")
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true

		items := make(map[string]bool, len(cat.Items))
		for _, item := range cat.Items {
			if item.Name == "" {
				return fmt.Errorf("category %q: item name is required", cat.Name)
			}
			if items[item.Name] {
				return fmt.Errorf("category %q: duplicate item %q", cat.Name, item.Name)
			}
			items[item.Name] = true

			for field, v := range map[string]float64{
				"p":         item.Price,
				"goldYield": item.GoldYield,
				"pdYield":   item.PdYield,
				"ptYield":   item.PtYield,
				"rhYield":   item.RhYield,
			} {
				if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("category %q: item %q: %s must be a non-negative number", cat.Name, item.Name, field)
				}
			}
		}
	}
	return nil
}
