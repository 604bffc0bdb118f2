package torn

import (
	"context"
	"net/url"
	"time"

	"tornflow/logger"
	"tornflow/models"
)

// GetItemMarket returns all currently known sell listings for an item.
//
// The global itemmarket feed is queried first; it spans all items and must
// be filtered client-side, with the item identifier hiding under any of the
// accepted field names. When it yields nothing, or the call itself fails,
// the differently-shaped bazaar feed is tried. An empty result with no
// error means no active listings — the two feeds may disagree when sampled
// at different times and no reconciliation is attempted.
func (c *Client) GetItemMarket(ctx context.Context, itemID int64) ([]models.Listing, error) {
	log := c.log.WithComponent("torn_client").WithFields(logger.Fields{"item_id": itemID})
	start := time.Now()
	defer func() {
		logger.LogPerformanceEntry(log, "torn_client", "item_market_lookup", time.Since(start), nil)
	}()

	payload, err := c.request(ctx, "itemmarket", url.Values{})
	if err != nil {
		log.WithFields(logger.Fields{"source": models.SourceItemMarket}).Warn("primary market feed failed, trying bazaar fallback")
	} else if raw, ok := payload["itemmarket"].([]any); ok {
		listings := filterByItemID(raw, itemID, models.SourceItemMarket)
		if len(listings) > 0 {
			logger.RecordListings(string(models.SourceItemMarket), len(listings))
			log.WithFields(logger.Fields{"listings": len(listings), "source": models.SourceItemMarket}).Info("found market listings")
			return listings, nil
		}
	}

	// The global feed had nothing (or failed); fall back to the bazaar
	// selection, which keys listings under its own ID field.
	payload, err = c.request(ctx, "market", selections("bazaar"))
	if err != nil {
		return []models.Listing{}, err
	}

	if raw, ok := payload["bazaar"].([]any); ok {
		listings := filterByItemID(raw, itemID, models.SourceBazaar)
		if len(listings) > 0 {
			logger.RecordListings(string(models.SourceBazaar), len(listings))
			log.WithFields(logger.Fields{"listings": len(listings), "source": models.SourceBazaar}).Info("found market listings")
			return listings, nil
		}
	}

	log.Info("no market listings found")
	return []models.Listing{}, nil
}

// filterByItemID keeps the entries whose resolved identifier matches and
// parses them into listings.
func filterByItemID(raw []any, itemID int64, source models.Source) []models.Listing {
	matched := make([]models.Listing, 0)
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, ok := models.ResolveItemID(m)
		if !ok || id != itemID {
			continue
		}
		if listing, ok := models.ParseListing(m, source); ok {
			matched = append(matched, listing)
		}
	}
	return matched
}
