package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"sellerhub/internal/models"
)

func normalizeProductDocument(raw bson.M) (models.Product, error) {
	if cat, ok := raw["category"].(string); ok {
		raw["category"] = []string{cat}
	}
	if tag, ok := raw["tags"].(string); ok {
		raw["tags"] = []string{tag}
	}

	if val, ok := raw["stock"]; ok {
		switch typed := val.(type) {
		case int32:
			raw["stock"] = int(typed)
		case int64:
			raw["stock"] = int(typed)
		case float64:
			raw["stock"] = int(typed)
		case int:
			raw["stock"] = typed
		default:
			raw["stock"] = 0
		}
	} else {
		raw["stock"] = 0
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	if err := bson.Unmarshal(data, &p); err != nil {
		return models.Product{}, err
	}

	p.InStock = p.Stock > 0

	return p, nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// fetchSellerCatalog loads the seller's live catalog: the input domain for
// smart-collection rule evaluation.
func fetchSellerCatalog(ctx context.Context, db *mongo.Database, sellerID primitive.ObjectID) ([]models.Product, error) {
	filter := bson.M{
		"sellerId":  sellerID,
		"isActive":  bson.M{"$ne": false},
		"isDeleted": bson.M{"$ne": true},
	}

	cursor, err := db.Collection("products").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

// fetchProductsByID resolves manual-link rows to their product documents,
// skipping anything soft-deleted since linking.
func fetchProductsByID(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	byID := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	filter := bson.M{
		"_id":       bson.M{"$in": ids},
		"isDeleted": bson.M{"$ne": true},
	}

	cursor, err := db.Collection("products").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, err
	}

	for _, product := range products {
		byID[product.ID] = product
	}
	return byID, nil
}
