package models

import "sort"

// Stats summarises the priced listings for an item or bazaar.
type Stats struct {
	Listings   int     `json:"listings"`
	Priced     int     `json:"priced"`
	Lowest     float64 `json:"lowest"`
	Highest    float64 `json:"highest"`
	Average    float64 `json:"average"`
	TotalValue float64 `json:"total_value"`
}

// Summarize computes price statistics over the valid listings. Listings
// without a usable price count towards Listings but nothing else.
func Summarize(listings []Listing) Stats {
	stats := Stats{Listings: len(listings)}
	for _, l := range listings {
		if !l.Valid() {
			continue
		}
		if stats.Priced == 0 || l.Price < stats.Lowest {
			stats.Lowest = l.Price
		}
		if l.Price > stats.Highest {
			stats.Highest = l.Price
		}
		stats.Average += l.Price
		stats.TotalValue += l.Price * float64(l.Quantity)
		stats.Priced++
	}
	if stats.Priced > 0 {
		stats.Average /= float64(stats.Priced)
	}
	return stats
}

// SortByPrice orders listings cheapest first. Listings without a price sort
// last so priced offers stay at the top of any display.
func SortByPrice(listings []Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if a.Valid() != b.Valid() {
			return a.Valid()
		}
		return a.Price < b.Price
	})
}

// Cheapest returns up to n valid listings ordered by ascending price. The
// input slice is not modified.
func Cheapest(listings []Listing, n int) []Listing {
	priced := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.Valid() {
			priced = append(priced, l)
		}
	}
	SortByPrice(priced)
	if n >= 0 && len(priced) > n {
		priced = priced[:n]
	}
	return priced
}
