// Package catalog holds the static table of appearance items the app can
// unlock. The table is assembled once at startup and read-only afterwards;
// lookups never fail with an error, absence is reported as ok=false.
package catalog

import (
	"fmt"
	"strings"
)

// Tier partitions items into always-available and purchasable ones.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Item is a single unlockable appearance definition.
type Item struct {
	ID           string
	DisplayName  string
	Tier         Tier
	Price        int  // meaningful only for TierPremium
	DefaultOwned bool // true for every free item
}

// Catalog is an immutable set of items with id lookup.
type Catalog struct {
	items []Item
	byID  map[string]Item
}

// New validates the item definitions and builds a catalog.
// At least one default-owned item is required: it anchors the
// fallback active selection when persisted state is missing.
func New(items ...Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog: no items")
	}
	byID := make(map[string]Item, len(items))
	hasDefault := false
	for _, it := range items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: item with empty id")
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate item id %q", id)
		}
		switch it.Tier {
		case TierFree:
			if !it.DefaultOwned {
				return nil, fmt.Errorf("catalog: free item %q must be default-owned", id)
			}
		case TierPremium:
		default:
			return nil, fmt.Errorf("catalog: item %q has unknown tier %q", id, it.Tier)
		}
		if it.DefaultOwned && it.Price != 0 {
			return nil, fmt.Errorf("catalog: default-owned item %q must have price 0", id)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("catalog: item %q has negative price", id)
		}
		if it.DefaultOwned {
			hasDefault = true
		}
		byID[id] = it
	}
	if !hasDefault {
		return nil, fmt.Errorf("catalog: at least one default-owned item required")
	}
	return &Catalog{items: append([]Item(nil), items...), byID: byID}, nil
}

// Lookup returns the item for id, or ok=false if the id is not in the catalog.
func (c *Catalog) Lookup(id string) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Items returns all items in declaration order.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// DefaultOwned returns the items every user owns without purchase.
func (c *Catalog) DefaultOwned() []Item {
	var out []Item
	for _, it := range c.items {
		if it.DefaultOwned {
			out = append(out, it)
		}
	}
	return out
}

// DefaultActive returns the item selected when no valid persisted
// selection exists: the first default-owned item in declaration order.
func (c *Catalog) DefaultActive() Item {
	for _, it := range c.items {
		if it.DefaultOwned {
			return it
		}
	}
	// Unreachable: New rejects catalogs without a default-owned item.
	return Item{}
}
