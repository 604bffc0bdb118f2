package torn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tornflow/models"
)

// tornServer serves canned payloads keyed by path, recording the selections
// of each call.
func tornServer(t *testing.T, responses map[string]string) (*httptest.Server, map[string]string) {
	t.Helper()
	seen := make(map[string]string)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.URL.Path] = r.URL.Query().Get("selections")
		body, ok := responses[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path %s", r.URL.Path)
			body = "{}"
		}
		w.Write([]byte(body))
	}))
	return server, seen
}

func TestGetUserProfile(t *testing.T) {
	server, seen := tornServer(t, map[string]string{
		"/user/42": `{"name":"Duke","level":15,"player_id":42}`,
	})
	defer server.Close()

	c := testClient(server.URL, "abc123")
	profile, err := c.GetUserProfile(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetUserProfile failed: %v", err)
	}
	if profile["name"] != "Duke" {
		t.Errorf("profile name = %v, want Duke", profile["name"])
	}
	if seen["/user/42"] != "basic,profile" {
		t.Errorf("selections = %q, want basic,profile", seen["/user/42"])
	}
}

func TestGetUserStats(t *testing.T) {
	server, seen := tornServer(t, map[string]string{
		"/user/42": `{"strength":1000,"speed":900,"dexterity":800,"defense":700}`,
	})
	defer server.Close()

	c := testClient(server.URL, "abc123")
	stats, err := c.GetUserStats(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if stats["strength"] != float64(1000) {
		t.Errorf("strength = %v, want 1000", stats["strength"])
	}
	if seen["/user/42"] != "battlestats" {
		t.Errorf("selections = %q, want battlestats", seen["/user/42"])
	}
}

func TestGetFactionInfo(t *testing.T) {
	server, seen := tornServer(t, map[string]string{
		"/faction/7": `{"ID":7,"name":"The Syndicate","respect":12345}`,
	})
	defer server.Close()

	c := testClient(server.URL, "abc123")
	info, err := c.GetFactionInfo(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetFactionInfo failed: %v", err)
	}
	if info["name"] != "The Syndicate" {
		t.Errorf("faction name = %v", info["name"])
	}
	if seen["/faction/7"] != "basic" {
		t.Errorf("selections = %q, want basic", seen["/faction/7"])
	}
}

func TestGetFactionMembers(t *testing.T) {
	server, seen := tornServer(t, map[string]string{
		"/faction/7": `{"members":{"1":{"name":"A"},"2":{"name":"B"}}}`,
	})
	defer server.Close()

	c := testClient(server.URL, "abc123")
	members, err := c.GetFactionMembers(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetFactionMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("members = %v, want 2 entries", members)
	}
	if seen["/faction/7"] != "members" {
		t.Errorf("selections = %q, want members", seen["/faction/7"])
	}
}

func TestGetFactionMembersAbsent(t *testing.T) {
	server, _ := tornServer(t, map[string]string{
		"/faction/7": `{}`,
	})
	defer server.Close()

	c := testClient(server.URL, "abc123")
	members, err := c.GetFactionMembers(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetFactionMembers failed: %v", err)
	}
	if members == nil || len(members) != 0 {
		t.Errorf("members = %v, want empty map", members)
	}
}

func TestGetItemInfo(t *testing.T) {
	server, seen := tornServer(t, map[string]string{
		"/torn": `{"items":{"206":{"name":"Xanax","type":"Drug"}}}`,
	})
	defer server.Close()

	c := testClient(server.URL, "abc123")
	item, err := c.GetItemInfo(context.Background(), 206)
	if err != nil {
		t.Fatalf("GetItemInfo failed: %v", err)
	}
	if item["name"] != "Xanax" {
		t.Errorf("item name = %v, want Xanax", item["name"])
	}
	if seen["/torn"] != "items" {
		t.Errorf("selections = %q, want items", seen["/torn"])
	}
}

func TestGetItemInfoUnknownID(t *testing.T) {
	server, _ := tornServer(t, map[string]string{
		"/torn": `{"items":{"206":{"name":"Xanax"}}}`,
	})
	defer server.Close()

	c := testClient(server.URL, "abc123")
	item, err := c.GetItemInfo(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetItemInfo failed: %v", err)
	}
	if item != nil {
		t.Errorf("item = %v, want nil for unknown ID", item)
	}
}

func TestGetPlayerBazaar(t *testing.T) {
	server, seen := tornServer(t, map[string]string{
		"/user/42": `{"bazaar":[{"ID":206,"name":"Xanax","price":830000,"quantity":3}]}`,
	})
	defer server.Close()

	c := testClient(server.URL, "abc123")
	listings, err := c.GetPlayerBazaar(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetPlayerBazaar failed: %v", err)
	}
	if seen["/user/42"] != "bazaar" {
		t.Errorf("selections = %q, want bazaar", seen["/user/42"])
	}
	if len(listings) != 1 {
		t.Fatalf("listings = %v, want 1 entry", listings)
	}
	got := listings[0]
	if got.ItemID != 206 || got.Price != 830000 || got.Quantity != 3 || got.Source != models.SourceBazaar {
		t.Errorf("listing = %+v", got)
	}
}

func TestGetPlayerBazaarEmpty(t *testing.T) {
	server, _ := tornServer(t, map[string]string{
		"/user/42": `{"bazaar":[]}`,
	})
	defer server.Close()

	c := testClient(server.URL, "abc123")
	listings, err := c.GetPlayerBazaar(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetPlayerBazaar failed: %v", err)
	}
	if listings == nil || len(listings) != 0 {
		t.Errorf("listings = %v, want empty slice", listings)
	}
}
