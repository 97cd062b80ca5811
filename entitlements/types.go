// Package entitlements is the authoritative store for what the user has
// unlocked, how much currency they hold, and which appearance item is
// active. State lives in memory and is flushed to a key-value adapter
// after every mutation; the adapter offers no cross-key atomicity, so the
// store owns the write ordering that keeps a crash from granting unpaid
// items.
package entitlements

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// KV is the durable storage capability the store persists through.
// Get reports absence as ok=false with a nil error; any non-nil error
// means the storage layer itself failed. Implementations must guarantee
// read-after-write on a single key, nothing more.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Persisted keys. Three independent scalars, deliberately not one record:
// any subset may be present, absent, or stale after a crash.
const (
	KeyActive  = "theme.active"
	KeyOwned   = "theme.owned"
	KeyBalance = "theme.balance"
)

// Seed supplies the fallback values hydration uses when a persisted key is
// absent or unreadable.
type Seed struct {
	// Balance is the starting currency amount. Must be >= 0.
	Balance int
	// ActiveItemID is the initial selection. Empty means the catalog's
	// default active item.
	ActiveItemID string
}

// Snapshot is a read-only copy of the current state. OwnedItemIDs includes
// the catalog's default-owned items and is sorted for stable rendering.
type Snapshot struct {
	ActiveItemID string   `json:"active_item_id"`
	OwnedItemIDs []string `json:"owned_item_ids"`
	Balance      int      `json:"balance"`
}

// Receipt describes a successful purchase.
type Receipt struct {
	ID      uuid.UUID `json:"receipt_id"`
	ItemID  string    `json:"item_id"`
	Price   int       `json:"price"`
	Balance int       `json:"balance"`
}

// encodeOwned serializes the persisted owned set (premium grants only,
// defaults stay implicit) as a sorted comma-joined list.
func encodeOwned(owned map[string]struct{}) string {
	ids := make([]string, 0, len(owned))
	for id := range owned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// decodeOwned splits a persisted owned-set value. Blank entries are
// skipped; membership validation against the catalog happens in hydrate.
func decodeOwned(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseBalance decodes a persisted balance. Anything but a plain
// non-negative decimal integer is corruption.
func parseBalance(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
