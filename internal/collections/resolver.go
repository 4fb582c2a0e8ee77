package collections

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sellerhub/internal/models"
)

// ResolveMembership computes the effective product set of a collection.
//
// Manual collections are exactly their link list, in link position order.
// Smart collections are the union of the rule matches and any manually linked
// products: a link can pin a product into the collection even when it fails
// the rules, but removing a link never suppresses a product that still
// matches them.
//
// productsByID supplies the documents behind the link rows; links pointing at
// products missing from the map (deleted or deactivated since linking) are
// skipped.
func ResolveMembership(
	collection models.Collection,
	ruleMatches []models.Product,
	manualLinks []models.CollectionProduct,
	productsByID map[primitive.ObjectID]models.Product,
) []models.Product {
	ordered := make([]models.CollectionProduct, len(manualLinks))
	copy(ordered, manualLinks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	if collection.Type == models.CollectionTypeManual {
		members := make([]models.Product, 0, len(ordered))
		for _, link := range ordered {
			if product, ok := productsByID[link.ProductID]; ok {
				members = append(members, product)
			}
		}
		return members
	}

	members := make([]models.Product, 0, len(ruleMatches)+len(ordered))
	seen := make(map[primitive.ObjectID]struct{}, len(ruleMatches))
	for _, product := range ruleMatches {
		if _, ok := seen[product.ID]; ok {
			continue
		}
		seen[product.ID] = struct{}{}
		members = append(members, product)
	}

	for _, link := range ordered {
		if _, ok := seen[link.ProductID]; ok {
			continue
		}
		product, ok := productsByID[link.ProductID]
		if !ok {
			continue
		}
		seen[link.ProductID] = struct{}{}
		members = append(members, product)
	}

	return members
}
