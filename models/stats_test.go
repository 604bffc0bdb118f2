package models

import "testing"

func TestSummarizeIgnoresUnpriced(t *testing.T) {
	listings := []Listing{
		{ItemID: 1, Price: 100, Quantity: 2},
		{ItemID: 1, Price: 0, Quantity: 5},
		{ItemID: 1, Price: 300, Quantity: 1},
		{ItemID: 1, Price: -5, Quantity: 1},
	}

	stats := Summarize(listings)
	if stats.Listings != 4 || stats.Priced != 2 {
		t.Fatalf("counts = (%d, %d), want (4, 2)", stats.Listings, stats.Priced)
	}
	if stats.Lowest != 100 || stats.Highest != 300 {
		t.Errorf("range = (%v, %v), want (100, 300)", stats.Lowest, stats.Highest)
	}
	if stats.Average != 200 {
		t.Errorf("average = %v, want 200", stats.Average)
	}
	if stats.TotalValue != 500 {
		t.Errorf("total value = %v, want 500", stats.TotalValue)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	if stats != (Stats{}) {
		t.Fatalf("empty summary should be zero: %+v", stats)
	}
}

func TestCheapest(t *testing.T) {
	listings := []Listing{
		{ItemID: 1, Price: 300},
		{ItemID: 2, Price: 0},
		{ItemID: 3, Price: 100},
		{ItemID: 4, Price: 200},
	}

	top := Cheapest(listings, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(top))
	}
	if top[0].ItemID != 3 || top[1].ItemID != 4 {
		t.Errorf("unexpected order: %+v", top)
	}
	// input order untouched
	if listings[0].ItemID != 1 {
		t.Errorf("input slice was reordered: %+v", listings)
	}
}

func TestSortByPriceUnpricedLast(t *testing.T) {
	listings := []Listing{
		{ItemID: 1, Price: 0},
		{ItemID: 2, Price: 50},
		{ItemID: 3, Price: 10},
	}
	SortByPrice(listings)
	if listings[0].ItemID != 3 || listings[1].ItemID != 2 || listings[2].ItemID != 1 {
		t.Errorf("unexpected order: %+v", listings)
	}
}
