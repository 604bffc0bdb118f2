package models

import "testing"

func TestResolveItemIDFieldPriority(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want int64
		ok   bool
	}{
		{"primary field", map[string]any{"item_id": float64(7)}, 7, true},
		{"second field only", map[string]any{"ID": float64(42)}, 42, true},
		{"third field only", map[string]any{"itemID": float64(9)}, 9, true},
		{"primary wins over later", map[string]any{"item_id": float64(7), "ID": float64(8)}, 7, true},
		{"null primary falls through", map[string]any{"item_id": nil, "ID": float64(5)}, 5, true},
		{"no recognised field", map[string]any{"id": float64(3)}, 0, false},
	}

	for _, c := range cases {
		got, ok := ResolveItemID(c.raw)
		if ok != c.ok || got != c.want {
			t.Errorf("%s: ResolveItemID = (%d, %v), want (%d, %v)", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestParseListingPriceFallback(t *testing.T) {
	raw := map[string]any{
		"ID":          float64(10),
		"name":        "Xanax",
		"bazaar_cost": float64(830000),
		"amount":      float64(3),
	}

	listing, ok := ParseListing(raw, SourceBazaar)
	if !ok {
		t.Fatalf("ParseListing rejected valid entry")
	}
	if listing.ItemID != 10 || listing.Name != "Xanax" {
		t.Errorf("unexpected identity: %+v", listing)
	}
	if listing.Price != 830000 {
		t.Errorf("price = %v, want 830000", listing.Price)
	}
	if listing.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", listing.Quantity)
	}
	if listing.Source != SourceBazaar {
		t.Errorf("source = %q, want %q", listing.Source, SourceBazaar)
	}
}

func TestParseListingDefaults(t *testing.T) {
	listing, ok := ParseListing(map[string]any{"name": "Empty Box"}, SourceItemMarket)
	if !ok {
		t.Fatalf("entry with a name should parse")
	}
	if listing.Price != 0 || listing.Quantity != 1 {
		t.Errorf("defaults = (%v, %d), want (0, 1)", listing.Price, listing.Quantity)
	}
	if listing.Valid() {
		t.Errorf("unpriced listing must not be valid")
	}

	if _, ok := ParseListing(map[string]any{"junk": true}, SourceItemMarket); ok {
		t.Errorf("entry without id or name should be rejected")
	}
}

func TestParseListingsSkipsNonObjects(t *testing.T) {
	raw := []any{
		map[string]any{"item_id": float64(1), "cost": float64(100)},
		"garbage",
		map[string]any{},
		map[string]any{"item_id": float64(2), "cost": float64(50)},
	}

	listings := ParseListings(raw, SourceItemMarket)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}
	if listings[0].ItemID != 1 || listings[1].ItemID != 2 {
		t.Errorf("unexpected listings: %+v", listings)
	}
}
