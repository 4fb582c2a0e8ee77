package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureSellerIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("sellers").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureSellerIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureSellerIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	sellerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "sellerId", Value: 1}, {Key: "isActive", Value: 1}},
		Options: options.Index().SetName("sellerId_isActive"),
	}

	log.Println("EnsureProductIndexes: creating sellerId_isActive index")
	_, err := indexes.CreateOne(ctx, sellerIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: seller index error:", err)
		return err
	}
	return nil
}

// EnsureCollectionIndexes backs the duplicate-slug check: the slug only has to
// be unique within one seller's collections.
func EnsureCollectionIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("collections").Indexes()

	slugIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "sellerId", Value: 1}, {Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("sellerId_slug_unique").
			SetUnique(true),
	}

	log.Println("EnsureCollectionIndexes: creating sellerId_slug_unique index")
	_, err := indexes.CreateOne(ctx, slugIndex)
	if err != nil {
		log.Println("EnsureCollectionIndexes: slug index error:", err)
		return err
	}
	return nil
}

// EnsureCollectionProductIndexes keeps the membership edge unique so re-adding
// a product to a collection stays idempotent.
func EnsureCollectionProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("collection_products").Indexes()

	edgeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "collectionId", Value: 1}, {Key: "productId", Value: 1}},
		Options: options.Index().
			SetName("collectionId_productId_unique").
			SetUnique(true),
	}

	log.Println("EnsureCollectionProductIndexes: creating collectionId_productId_unique index")
	_, err := indexes.CreateOne(ctx, edgeIndex)
	if err != nil {
		log.Println("EnsureCollectionProductIndexes: edge index error:", err)
		return err
	}
	return nil
}

func EnsureNotificationIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("notifications").Indexes()

	sellerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "sellerId", Value: 1}, {Key: "isRead", Value: 1}},
		Options: options.Index().SetName("sellerId_isRead"),
	}

	log.Println("EnsureNotificationIndexes: creating sellerId_isRead index")
	_, err := indexes.CreateOne(ctx, sellerIndex)
	if err != nil {
		log.Println("EnsureNotificationIndexes: seller index error:", err)
		return err
	}
	return nil
}

func EnsureBlogPostIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("blog_posts").Indexes()

	slugIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("slug_unique").
			SetUnique(true),
	}

	log.Println("EnsureBlogPostIndexes: creating slug_unique index")
	_, err := indexes.CreateOne(ctx, slugIndex)
	if err != nil {
		log.Println("EnsureBlogPostIndexes: slug index error:", err)
		return err
	}
	return nil
}
