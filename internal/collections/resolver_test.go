package collections

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sellerhub/internal/models"
)

func lookupByID(products []models.Product) map[primitive.ObjectID]models.Product {
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}

func TestResolveMembershipManualCollectionFollowsLinkOrder(t *testing.T) {
	catalog := testCatalog()
	collection := models.Collection{Type: models.CollectionTypeManual}

	links := []models.CollectionProduct{
		{ProductID: catalog[2].ID, Position: 0},
		{ProductID: catalog[0].ID, Position: 1},
	}

	members := ResolveMembership(collection, nil, links, lookupByID(catalog))
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].ID != catalog[2].ID || members[1].ID != catalog[0].ID {
		t.Fatal("expected members in link position order")
	}
}

func TestResolveMembershipManualIgnoresRuleMatches(t *testing.T) {
	catalog := testCatalog()
	collection := models.Collection{Type: models.CollectionTypeManual}

	members := ResolveMembership(collection, catalog, nil, lookupByID(catalog))
	if len(members) != 0 {
		t.Fatalf("manual collection without links should be empty, got %d members", len(members))
	}
}

func TestResolveMembershipSmartUnionsLinksWithRuleMatches(t *testing.T) {
	catalog := testCatalog()
	collection := models.Collection{Type: models.CollectionTypeSmart}

	ruleMatches := catalog[:1]
	links := []models.CollectionProduct{
		{ProductID: catalog[1].ID, Position: 0},
	}

	members := ResolveMembership(collection, ruleMatches, links, lookupByID(catalog))
	if len(members) != 2 {
		t.Fatalf("expected union of rule match and link, got %d members", len(members))
	}
	if members[0].ID != catalog[0].ID {
		t.Fatal("expected rule matches to come first")
	}
	if members[1].ID != catalog[1].ID {
		t.Fatal("expected manually linked product after rule matches")
	}
}

func TestResolveMembershipLinkDuplicatingRuleMatchIsNotDoubled(t *testing.T) {
	catalog := testCatalog()
	collection := models.Collection{Type: models.CollectionTypeSmart}

	links := []models.CollectionProduct{
		{ProductID: catalog[0].ID, Position: 0},
	}

	members := ResolveMembership(collection, catalog[:1], links, lookupByID(catalog))
	if len(members) != 1 {
		t.Fatalf("expected single member, got %d", len(members))
	}

	// Dropping the duplicate link must not remove the product: it still
	// matches the rules.
	members = ResolveMembership(collection, catalog[:1], nil, lookupByID(catalog))
	if len(members) != 1 || members[0].ID != catalog[0].ID {
		t.Fatal("expected rule match to survive manual link removal")
	}
}

func TestResolveMembershipSkipsLinksToMissingProducts(t *testing.T) {
	catalog := testCatalog()
	collection := models.Collection{Type: models.CollectionTypeSmart}

	links := []models.CollectionProduct{
		{ProductID: primitive.NewObjectID(), Position: 0},
	}

	members := ResolveMembership(collection, catalog[:1], links, lookupByID(catalog))
	if len(members) != 1 {
		t.Fatalf("expected dangling link to be skipped, got %d members", len(members))
	}
}
