package models

// Source identifies which Torn endpoint produced a listing.
type Source string

const (
	// SourceItemMarket marks listings from the global item market feed.
	SourceItemMarket Source = "itemmarket"
	// SourceBazaar marks listings from the per-player bazaar endpoint.
	SourceBazaar Source = "bazaar"
)

// The Torn API is inconsistent about field names between endpoints, so each
// logical value carries an ordered list of accepted names. The first key
// present with a usable value wins.
var (
	ItemIDFields   = []string{"item_id", "ID", "itemID"}
	PriceFields    = []string{"cost", "price", "bazaar_cost", "sell_price"}
	QuantityFields = []string{"quantity", "amount", "qty"}
)

// Listing represents a single sell offer for an item.
type Listing struct {
	ItemID   int64   `json:"item_id"`
	Name     string  `json:"name,omitempty"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Source   Source  `json:"source"`
}

// Valid reports whether the listing carries a usable price. Listings with a
// price of zero or below are excluded from statistics and display.
func (l Listing) Valid() bool {
	return l.Price > 0
}

// ResolveNumber returns the first numeric value found under any of the
// accepted keys. JSON decoding yields float64 for all numbers.
func ResolveNumber(raw map[string]any, keys []string) (float64, bool) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		}
	}
	return 0, false
}

// ResolveItemID extracts the item identifier from a raw listing entry using
// the accepted identifier field names in priority order.
func ResolveItemID(raw map[string]any) (int64, bool) {
	n, ok := ResolveNumber(raw, ItemIDFields)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

// ParseListing converts a raw API entry into a Listing. It returns false when
// the entry carries neither an identifier nor a name, which means there is
// nothing meaningful to show.
func ParseListing(raw map[string]any, source Source) (Listing, bool) {
	listing := Listing{Source: source, Quantity: 1}

	if id, ok := ResolveItemID(raw); ok {
		listing.ItemID = id
	}
	if name, ok := raw["name"].(string); ok {
		listing.Name = name
	}
	if listing.ItemID == 0 && listing.Name == "" {
		return Listing{}, false
	}

	if price, ok := ResolveNumber(raw, PriceFields); ok {
		listing.Price = price
	}
	if qty, ok := ResolveNumber(raw, QuantityFields); ok && qty > 0 {
		listing.Quantity = int64(qty)
	}
	return listing, true
}

// ParseListings converts a raw API array into listings, dropping entries that
// are not objects or carry no identifying information.
func ParseListings(raw []any, source Source) []Listing {
	listings := make([]Listing, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if listing, ok := ParseListing(m, source); ok {
			listings = append(listings, listing)
		}
	}
	return listings
}
