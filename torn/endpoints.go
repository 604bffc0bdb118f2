package torn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"tornflow/logger"
	"tornflow/models"
)

// Endpoint adapters: each maps a logical resource and identifier onto an
// endpoint path plus selection, then projects the interesting sub-object out
// of the payload. Adapters never retry; a failed call surfaces as the typed
// error from the pipeline with a nil or empty result, so callers can treat
// "not found" and "request failed" uniformly as no data.

func selections(value string) url.Values {
	return url.Values{"selections": []string{value}}
}

// GetUserProfile returns basic profile information for a player.
func (c *Client) GetUserProfile(ctx context.Context, userID int64) (map[string]any, error) {
	return c.request(ctx, fmt.Sprintf("user/%d", userID), selections("basic,profile"))
}

// GetUserStats returns battle statistics for a player.
func (c *Client) GetUserStats(ctx context.Context, userID int64) (map[string]any, error) {
	return c.request(ctx, fmt.Sprintf("user/%d", userID), selections("battlestats"))
}

// GetFactionInfo returns basic faction information.
func (c *Client) GetFactionInfo(ctx context.Context, factionID int64) (map[string]any, error) {
	return c.request(ctx, fmt.Sprintf("faction/%d", factionID), selections("basic"))
}

// GetFactionMembers returns the member roster of a faction keyed by member
// ID. The result is an empty map when the faction has no members or the
// call failed.
func (c *Client) GetFactionMembers(ctx context.Context, factionID int64) (map[string]any, error) {
	payload, err := c.request(ctx, fmt.Sprintf("faction/%d", factionID), selections("members"))
	if err != nil {
		return map[string]any{}, err
	}
	if members, ok := payload["members"].(map[string]any); ok {
		return members, nil
	}
	return map[string]any{}, nil
}

// GetItemInfo returns the catalogue entry for an item. The items selection
// returns the whole catalogue keyed by item ID; the entry of interest is
// projected out, nil when the ID is unknown.
func (c *Client) GetItemInfo(ctx context.Context, itemID int64) (map[string]any, error) {
	payload, err := c.request(ctx, "torn", selections("items"))
	if err != nil {
		return nil, err
	}
	items, ok := payload["items"].(map[string]any)
	if !ok {
		return nil, nil
	}
	item, ok := items[strconv.FormatInt(itemID, 10)].(map[string]any)
	if !ok {
		return nil, nil
	}
	return item, nil
}

// GetPlayerBazaar returns the sell listings of one player's bazaar, empty
// when the bazaar is empty or the call failed.
func (c *Client) GetPlayerBazaar(ctx context.Context, playerID int64) ([]models.Listing, error) {
	payload, err := c.request(ctx, fmt.Sprintf("user/%d", playerID), selections("bazaar"))
	if err != nil {
		return []models.Listing{}, err
	}
	raw, ok := payload["bazaar"].([]any)
	if !ok {
		return []models.Listing{}, nil
	}
	listings := models.ParseListings(raw, models.SourceBazaar)
	c.log.WithComponent("torn_client").WithFields(logger.Fields{
		"player_id": playerID,
		"listings":  len(listings),
	}).Debug("fetched player bazaar")
	return listings, nil
}
